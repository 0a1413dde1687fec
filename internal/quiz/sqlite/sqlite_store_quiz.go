package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"course-quiz/internal/quiz"
)

func (s *SQLiteStore) CreateQuiz(ctx context.Context, q quiz.Quiz) error {
	if q.ID == "" {
		return errors.New("quiz id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertQuizRow(ctx, tx, q); err != nil {
		return err
	}
	if err := insertQuestions(ctx, tx, q); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateQuiz replaces the quiz row and its whole question set. Attempt rows
// are left alone: grading reads the definition fresh at submission time, so
// the edit takes effect for in-progress attempts on their next submission.
func (s *SQLiteStore) UpdateQuiz(ctx context.Context, q quiz.Quiz) error {
	if q.ID == "" {
		return errors.New("quiz id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`UPDATE quizzes SET course_id = ?, title = ?, description = ?, points = ?,
			due_date_unix = ?, available_from_unix = ?, available_until_unix = ?,
			published = ?, shuffle_answers = ?, time_limit = ?, max_attempts = ?
		 WHERE quiz_id = ?`,
		q.Course,
		q.Title,
		q.Description,
		q.Points,
		unixOrNil(q.DueDate),
		unixOrNil(q.AvailableFrom),
		unixOrNil(q.AvailableUntil),
		q.Published,
		q.ShuffleAnswers,
		q.TimeLimit,
		q.Attempts,
		q.ID,
	)
	if err != nil {
		return err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return quiz.ErrQuizNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id = ?`, q.ID); err != nil {
		return err
	}
	if err := insertQuestions(ctx, tx, q); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetQuiz(ctx context.Context, quizID string) (quiz.Quiz, error) {
	var (
		q              quiz.Quiz
		dueDate        sql.NullInt64
		availableFrom  sql.NullInt64
		availableUntil sql.NullInt64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT quiz_id, course_id, title, description, points,
			due_date_unix, available_from_unix, available_until_unix,
			published, shuffle_answers, time_limit, max_attempts
		 FROM quizzes WHERE quiz_id = ?`,
		quizID,
	).Scan(
		&q.ID, &q.Course, &q.Title, &q.Description, &q.Points,
		&dueDate, &availableFrom, &availableUntil,
		&q.Published, &q.ShuffleAnswers, &q.TimeLimit, &q.Attempts,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, quiz.ErrQuizNotFound
		}
		return quiz.Quiz{}, err
	}

	q.DueDate = timeFromNull(dueDate)
	q.AvailableFrom = timeFromNull(availableFrom)
	q.AvailableUntil = timeFromNull(availableUntil)

	questions, err := s.loadQuestions(ctx, quizID)
	if err != nil {
		return quiz.Quiz{}, err
	}
	q.Questions = questions
	return q, nil
}

func (s *SQLiteStore) ListCourseQuizzes(ctx context.Context, courseID string, publishedOnly bool) ([]quiz.Quiz, error) {
	query := `SELECT quiz_id FROM quizzes WHERE course_id = ?`
	args := []any{courseID}
	if publishedOnly {
		query += ` AND published = 1`
	}
	query += ` ORDER BY rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	quizzes := make([]quiz.Quiz, 0, len(ids))
	for _, id := range ids {
		q, err := s.GetQuiz(ctx, id)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

func insertQuizRow(ctx context.Context, tx *sql.Tx, q quiz.Quiz) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO quizzes (quiz_id, course_id, title, description, points,
			due_date_unix, available_from_unix, available_until_unix,
			published, shuffle_answers, time_limit, max_attempts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID,
		q.Course,
		q.Title,
		q.Description,
		q.Points,
		unixOrNil(q.DueDate),
		unixOrNil(q.AvailableFrom),
		unixOrNil(q.AvailableUntil),
		q.Published,
		q.ShuffleAnswers,
		q.TimeLimit,
		q.Attempts,
	)
	return err
}

func insertQuestions(ctx context.Context, tx *sql.Tx, q quiz.Quiz) error {
	for idx, question := range q.Questions {
		choicesJSON, err := json.Marshal(question.Choices)
		if err != nil {
			return fmt.Errorf("marshal choices for question %q: %w", question.ID, err)
		}
		possibleJSON, err := json.Marshal(question.PossibleAnswers)
		if err != nil {
			return fmt.Errorf("marshal possibleAnswers for question %q: %w", question.ID, err)
		}

		var correctAnswer any
		if question.CorrectAnswer != nil {
			correctAnswer = *question.CorrectAnswer
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO questions (quiz_id, question_id, position, type, title, prompt,
				points, choices_json, correct_option, correct_answer, possible_answers_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			q.ID,
			question.ID,
			idx,
			question.Type,
			question.Title,
			question.Prompt,
			question.Points,
			string(choicesJSON),
			question.CorrectOption,
			correctAnswer,
			string(possibleJSON),
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) loadQuestions(ctx context.Context, quizID string) ([]quiz.Question, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, type, title, prompt, points,
			choices_json, correct_option, correct_answer, possible_answers_json
		 FROM questions
		 WHERE quiz_id = ?
		 ORDER BY position ASC`,
		quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]quiz.Question, 0)
	for rows.Next() {
		var (
			question      quiz.Question
			choicesJSON   string
			correctAnswer sql.NullBool
			possibleJSON  string
		)
		if err := rows.Scan(
			&question.ID, &question.Type, &question.Title, &question.Prompt, &question.Points,
			&choicesJSON, &question.CorrectOption, &correctAnswer, &possibleJSON,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(choicesJSON), &question.Choices); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(possibleJSON), &question.PossibleAnswers); err != nil {
			return nil, err
		}
		if correctAnswer.Valid {
			value := correctAnswer.Bool
			question.CorrectAnswer = &value
		}

		questions = append(questions, question)
	}

	return questions, rows.Err()
}
