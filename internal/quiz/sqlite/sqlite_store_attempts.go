package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"course-quiz/internal/quiz"
)

func (s *SQLiteStore) CreateAttempt(ctx context.Context, attempt quiz.QuizAttempt) error {
	if attempt.ID == "" {
		return errors.New("attempt id is required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO attempts (attempt_id, quiz_id, user_id, attempt_number,
			start_time_unix, end_time_unix, score, total_points)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.Quiz,
		attempt.User,
		attempt.AttemptNumber,
		attempt.StartTime.UnixNano(),
		unixOrNil(attempt.EndTime),
		attempt.Score,
		attempt.TotalPoints,
	)
	return err
}

func (s *SQLiteStore) GetAttempt(ctx context.Context, attemptID string) (quiz.QuizAttempt, error) {
	attempt, err := s.scanAttempt(s.db.QueryRowContext(
		ctx,
		`SELECT attempt_id, quiz_id, user_id, attempt_number,
			start_time_unix, end_time_unix, score, total_points
		 FROM attempts WHERE attempt_id = ?`,
		attemptID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.QuizAttempt{}, quiz.ErrAttemptNotFound
		}
		return quiz.QuizAttempt{}, err
	}

	answers, err := s.loadAnswers(ctx, attempt.ID)
	if err != nil {
		return quiz.QuizAttempt{}, err
	}
	attempt.Answers = answers
	return attempt, nil
}

func (s *SQLiteStore) CountAttempts(ctx context.Context, quizID, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM attempts WHERE quiz_id = ? AND user_id = ?`,
		quizID,
		userID,
	).Scan(&count)
	return count, err
}

func (s *SQLiteStore) ListAttempts(ctx context.Context, quizID, userID string) ([]quiz.QuizAttempt, error) {
	query := `SELECT attempt_id, quiz_id, user_id, attempt_number,
			start_time_unix, end_time_unix, score, total_points
		 FROM attempts WHERE quiz_id = ?`
	args := []any{quizID}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY start_time_unix DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	attempts := make([]quiz.QuizAttempt, 0)
	for rows.Next() {
		attempt, err := s.scanAttempt(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for idx := range attempts {
		answers, err := s.loadAnswers(ctx, attempts[idx].ID)
		if err != nil {
			return nil, err
		}
		attempts[idx].Answers = answers
	}
	return attempts, nil
}

// FinalizeAttempt writes the graded state over the existing attempt row in
// one transaction. It updates only; a missing row is ErrAttemptNotFound.
func (s *SQLiteStore) FinalizeAttempt(ctx context.Context, attempt quiz.QuizAttempt) error {
	if attempt.EndTime == nil {
		return errors.New("finalized attempt requires an end time")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`UPDATE attempts SET end_time_unix = ?, score = ?, total_points = ?
		 WHERE attempt_id = ?`,
		attempt.EndTime.UnixNano(),
		attempt.Score,
		attempt.TotalPoints,
		attempt.ID,
	)
	if err != nil {
		return err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return quiz.ErrAttemptNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM attempt_answers WHERE attempt_id = ?`, attempt.ID); err != nil {
		return err
	}
	for idx, answer := range attempt.Answers {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO attempt_answers (attempt_id, position, question_id, user_answer, is_correct)
			 VALUES (?, ?, ?, ?, ?)`,
			attempt.ID,
			idx,
			answer.QuestionID,
			answer.UserAnswer,
			answer.IsCorrect,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanAttempt(row rowScanner) (quiz.QuizAttempt, error) {
	var (
		attempt   quiz.QuizAttempt
		startUnix int64
		endUnix   sql.NullInt64
	)
	if err := row.Scan(
		&attempt.ID, &attempt.Quiz, &attempt.User, &attempt.AttemptNumber,
		&startUnix, &endUnix, &attempt.Score, &attempt.TotalPoints,
	); err != nil {
		return quiz.QuizAttempt{}, err
	}
	attempt.StartTime = unixTime(startUnix)
	attempt.EndTime = timeFromNull(endUnix)
	return attempt, nil
}

func (s *SQLiteStore) loadAnswers(ctx context.Context, attemptID string) ([]quiz.Answer, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, user_answer, is_correct
		 FROM attempt_answers
		 WHERE attempt_id = ?
		 ORDER BY position ASC`,
		attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]quiz.Answer, 0)
	for rows.Next() {
		var answer quiz.Answer
		if err := rows.Scan(&answer.QuestionID, &answer.UserAnswer, &answer.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}
