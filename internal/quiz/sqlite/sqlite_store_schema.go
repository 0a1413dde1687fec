package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// Questions are rows of their quiz rather than a shared bank: a quiz
	// update replaces its question set wholesale, and attempts keep their own
	// answer rows, so grading history survives authoring edits.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			quiz_id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			points REAL NOT NULL DEFAULT 0,
			due_date_unix INTEGER,
			available_from_unix INTEGER,
			available_until_unix INTEGER,
			published INTEGER NOT NULL DEFAULT 0,
			shuffle_answers INTEGER NOT NULL DEFAULT 0,
			time_limit INTEGER NOT NULL DEFAULT 0,
			max_attempts INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			quiz_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			prompt TEXT NOT NULL DEFAULT '',
			points REAL NOT NULL DEFAULT 0,
			choices_json TEXT NOT NULL DEFAULT '[]',
			correct_option TEXT NOT NULL DEFAULT '',
			-- NULL keeps "payload absent" distinct from "false".
			correct_answer INTEGER,
			possible_answers_json TEXT NOT NULL DEFAULT '[]',
			PRIMARY KEY (quiz_id, question_id),
			UNIQUE (quiz_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			attempt_id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			attempt_number INTEGER NOT NULL,
			start_time_unix INTEGER NOT NULL,
			end_time_unix INTEGER,
			score REAL NOT NULL DEFAULT 0,
			total_points REAL NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_answers (
			attempt_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			question_id TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_course ON quizzes(course_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_quiz_user ON attempts(quiz_id, user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_quiz_start ON attempts(quiz_id, start_time_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
