package quiz

import (
	"context"
	"errors"
)

var (
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrNotYetAvailable     = errors.New("quiz is not yet available")
	ErrNoLongerAvailable   = errors.New("quiz is no longer available")
	ErrAttemptLimitReached = errors.New("maximum attempts reached")
	ErrPastDue             = errors.New("quiz is past its due date")
	ErrAlreadySubmitted    = errors.New("attempt already submitted")
	ErrInvalidInput        = errors.New("invalid input")
)

// QuizRepository supplies quiz definition snapshots and backs the authoring
// surface. GetQuiz reads the definition as of call time; callers that grade
// always re-read, so an authoring edit is visible to the next submission.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, q Quiz) error
	UpdateQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, quizID string) (Quiz, error)
	ListCourseQuizzes(ctx context.Context, courseID string, publishedOnly bool) ([]Quiz, error)
}

// AttemptRepository is durable keyed storage for attempt records.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt QuizAttempt) error
	GetAttempt(ctx context.Context, attemptID string) (QuizAttempt, error)
	CountAttempts(ctx context.Context, quizID, userID string) (int, error)
	// ListAttempts returns attempts for a quiz ordered by start time
	// descending; empty userID means no user filter.
	ListAttempts(ctx context.Context, quizID, userID string) ([]QuizAttempt, error)
	// FinalizeAttempt updates the end time, score, total points and answers
	// of an existing record in one atomic write. It must never create a
	// record; a missing attempt yields ErrAttemptNotFound.
	FinalizeAttempt(ctx context.Context, attempt QuizAttempt) error
}
