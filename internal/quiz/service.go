package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates the attempt lifecycle over the injected repositories.
// Each call is one isolated unit of work; there is no shared mutable state
// here beyond the durable store.
type Service struct {
	quizzes  QuizRepository
	attempts AttemptRepository
	newID    func() string
}

func NewService(quizzes QuizRepository, attempts AttemptRepository) *Service {
	return &Service{
		quizzes:  quizzes,
		attempts: attempts,
		newID:    defaultAttemptID,
	}
}

func defaultAttemptID() string {
	return "at_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

func generateQuizID() string {
	return "qz_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// StartAttemptParams carries a start-attempt request. StartTime is the
// claimed start instant and AttemptNumber the claimed ordinal; neither is
// cross-checked against a server clock or the recorded attempt count.
type StartAttemptParams struct {
	QuizID        string
	UserID        string
	StartTime     time.Time
	AttemptNumber int
}

// StartAttempt runs the availability gate and the attempt limiter, then
// records a new in-progress attempt. TotalPoints is provisional, taken from
// the quiz's declared point total, and is superseded at grading time.
func (s *Service) StartAttempt(ctx context.Context, p StartAttemptParams) (QuizAttempt, error) {
	if p.QuizID == "" {
		return QuizAttempt{}, fmt.Errorf("%w: quiz id is required", ErrInvalidInput)
	}
	if p.UserID == "" {
		return QuizAttempt{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if p.StartTime.IsZero() {
		return QuizAttempt{}, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	q, err := s.quizzes.GetQuiz(ctx, p.QuizID)
	if err != nil {
		return QuizAttempt{}, err
	}

	if err := CheckAvailability(q, p.StartTime); err != nil {
		return QuizAttempt{}, err
	}

	// Count and insert are separate store calls: two concurrent starts for
	// the same (quiz, user) can both observe a count below the cap and both
	// succeed, exceeding the nominal limit.
	count, err := s.attempts.CountAttempts(ctx, p.QuizID, p.UserID)
	if err != nil {
		return QuizAttempt{}, err
	}
	if err := CheckAttemptLimit(q.Attempts, count); err != nil {
		return QuizAttempt{}, err
	}

	attempt := QuizAttempt{
		ID:            s.newID(),
		Quiz:          p.QuizID,
		User:          p.UserID,
		StartTime:     p.StartTime,
		TotalPoints:   q.Points,
		Answers:       []Answer{},
		AttemptNumber: p.AttemptNumber,
	}
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return QuizAttempt{}, err
	}
	return attempt, nil
}

// SubmitAttemptParams carries a submission. SubmitTime is the claimed submit
// instant and becomes the attempt's end time on success.
type SubmitAttemptParams struct {
	AttemptID  string
	SubmitTime time.Time
	Answers    []SubmittedAnswer
}

// SubmitAttempt finalizes an in-progress attempt: it re-reads the quiz
// definition (grading uses the snapshot as of submission time, not as of
// attempt start), runs the submission gate, grades, and persists the result
// as one update to the existing record. A rejected submission leaves the
// attempt untouched.
func (s *Service) SubmitAttempt(ctx context.Context, p SubmitAttemptParams) (QuizAttempt, error) {
	if p.AttemptID == "" {
		return QuizAttempt{}, fmt.Errorf("%w: attempt id is required", ErrInvalidInput)
	}
	if p.SubmitTime.IsZero() {
		return QuizAttempt{}, fmt.Errorf("%w: submitTime is required", ErrInvalidInput)
	}
	if p.Answers == nil {
		return QuizAttempt{}, fmt.Errorf("%w: answers are required", ErrInvalidInput)
	}
	for idx, answer := range p.Answers {
		if answer.QuestionID == "" {
			return QuizAttempt{}, fmt.Errorf("%w: answer %d has no questionId", ErrInvalidInput, idx)
		}
	}

	attempt, err := s.attempts.GetAttempt(ctx, p.AttemptID)
	if err != nil {
		return QuizAttempt{}, err
	}
	if attempt.Graded() {
		return QuizAttempt{}, ErrAlreadySubmitted
	}

	q, err := s.quizzes.GetQuiz(ctx, attempt.Quiz)
	if err != nil {
		return QuizAttempt{}, err
	}

	if err := CheckSubmittable(q, p.SubmitTime); err != nil {
		return QuizAttempt{}, err
	}

	result := Grade(q, p.Answers)

	end := p.SubmitTime
	attempt.EndTime = &end
	attempt.Score = result.Score
	attempt.TotalPoints = result.TotalPoints
	attempt.Answers = result.Answers

	if err := s.attempts.FinalizeAttempt(ctx, attempt); err != nil {
		return QuizAttempt{}, err
	}
	return attempt, nil
}

// ListAttempts returns the attempts for a quiz, most recently started first.
// Empty userID means no user filter. An unknown quiz yields an empty list.
func (s *Service) ListAttempts(ctx context.Context, quizID, userID string) ([]QuizAttempt, error) {
	if quizID == "" {
		return nil, fmt.Errorf("%w: quiz id is required", ErrInvalidInput)
	}
	return s.attempts.ListAttempts(ctx, quizID, userID)
}

// CreateQuiz validates and stores a new quiz definition, generating an id
// when the author did not supply one.
func (s *Service) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	if q.ID == "" {
		q.ID = generateQuizID()
	}
	if q.Questions == nil {
		q.Questions = []Question{}
	}
	if err := ValidateQuiz(q); err != nil {
		return Quiz{}, err
	}
	if err := s.quizzes.CreateQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// UpdateQuiz replaces an existing quiz definition. The edit takes effect for
// the next snapshot read, including grading of attempts already in progress.
func (s *Service) UpdateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	if q.ID == "" {
		return Quiz{}, fmt.Errorf("%w: quiz id is required", ErrInvalidInput)
	}
	if q.Questions == nil {
		q.Questions = []Question{}
	}
	if err := ValidateQuiz(q); err != nil {
		return Quiz{}, err
	}
	if err := s.quizzes.UpdateQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// GetQuiz returns one quiz definition snapshot.
func (s *Service) GetQuiz(ctx context.Context, quizID string) (Quiz, error) {
	if quizID == "" {
		return Quiz{}, fmt.Errorf("%w: quiz id is required", ErrInvalidInput)
	}
	return s.quizzes.GetQuiz(ctx, quizID)
}

// ListCourseQuizzes returns the quizzes of a course; publishedOnly hides
// unpublished definitions from students.
func (s *Service) ListCourseQuizzes(ctx context.Context, courseID string, publishedOnly bool) ([]Quiz, error) {
	if courseID == "" {
		return nil, fmt.Errorf("%w: course id is required", ErrInvalidInput)
	}
	return s.quizzes.ListCourseQuizzes(ctx, courseID, publishedOnly)
}
