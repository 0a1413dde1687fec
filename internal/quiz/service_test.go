package quiz

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeQuizRepo struct {
	quizzes map[string]Quiz

	getCalls    int
	createCalls int
	updateCalls int
}

func newFakeQuizRepo(quizzes ...Quiz) *fakeQuizRepo {
	repo := &fakeQuizRepo{quizzes: make(map[string]Quiz)}
	for _, q := range quizzes {
		repo.quizzes[q.ID] = q
	}
	return repo
}

func (f *fakeQuizRepo) CreateQuiz(_ context.Context, q Quiz) error {
	f.createCalls++
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeQuizRepo) UpdateQuiz(_ context.Context, q Quiz) error {
	f.updateCalls++
	if _, ok := f.quizzes[q.ID]; !ok {
		return ErrQuizNotFound
	}
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeQuizRepo) GetQuiz(_ context.Context, quizID string) (Quiz, error) {
	f.getCalls++
	q, ok := f.quizzes[quizID]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

func (f *fakeQuizRepo) ListCourseQuizzes(_ context.Context, courseID string, publishedOnly bool) ([]Quiz, error) {
	out := make([]Quiz, 0)
	for _, q := range f.quizzes {
		if q.Course != courseID {
			continue
		}
		if publishedOnly && !q.Published {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

type fakeAttemptRepo struct {
	attempts map[string]QuizAttempt

	createCalls   int
	finalizeCalls int
	countErr      error
}

func newFakeAttemptRepo(attempts ...QuizAttempt) *fakeAttemptRepo {
	repo := &fakeAttemptRepo{attempts: make(map[string]QuizAttempt)}
	for _, attempt := range attempts {
		repo.attempts[attempt.ID] = attempt
	}
	return repo
}

func (f *fakeAttemptRepo) CreateAttempt(_ context.Context, attempt QuizAttempt) error {
	f.createCalls++
	f.attempts[attempt.ID] = attempt
	return nil
}

func (f *fakeAttemptRepo) GetAttempt(_ context.Context, attemptID string) (QuizAttempt, error) {
	attempt, ok := f.attempts[attemptID]
	if !ok {
		return QuizAttempt{}, ErrAttemptNotFound
	}
	return attempt, nil
}

func (f *fakeAttemptRepo) CountAttempts(_ context.Context, quizID, userID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, attempt := range f.attempts {
		if attempt.Quiz == quizID && attempt.User == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttemptRepo) ListAttempts(_ context.Context, quizID, userID string) ([]QuizAttempt, error) {
	out := make([]QuizAttempt, 0)
	for _, attempt := range f.attempts {
		if attempt.Quiz != quizID {
			continue
		}
		if userID != "" && attempt.User != userID {
			continue
		}
		out = append(out, attempt)
	}
	return out, nil
}

func (f *fakeAttemptRepo) FinalizeAttempt(_ context.Context, attempt QuizAttempt) error {
	f.finalizeCalls++
	if _, ok := f.attempts[attempt.ID]; !ok {
		return ErrAttemptNotFound
	}
	f.attempts[attempt.ID] = attempt
	return nil
}

func newTestService(quizzes *fakeQuizRepo, attempts *fakeAttemptRepo) *Service {
	service := NewService(quizzes, attempts)
	counter := 0
	service.newID = func() string {
		counter++
		return "at_test_" + string(rune('0'+counter))
	}
	return service
}

func availableQuiz() Quiz {
	q := sampleQuiz()
	q.AvailableFrom = timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	q.AvailableUntil = timePtr(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC))
	q.DueDate = timePtr(time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC))
	q.Attempts = 2
	return q
}

func TestStartAttemptHappyPath(t *testing.T) {
	quizzes := newFakeQuizRepo(availableQuiz())
	attempts := newFakeAttemptRepo()
	service := newTestService(quizzes, attempts)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	attempt, err := service.StartAttempt(context.Background(), StartAttemptParams{
		QuizID:        "quiz-1",
		UserID:        "student-1",
		StartTime:     start,
		AttemptNumber: 1,
	})
	if err != nil {
		t.Fatalf("StartAttempt failed: %v", err)
	}

	if attempt.ID == "" {
		t.Fatalf("attempt id not allocated")
	}
	if attempt.Graded() {
		t.Fatalf("new attempt should be in progress")
	}
	if attempt.Score != 0 {
		t.Fatalf("new attempt score = %g, want 0", attempt.Score)
	}
	if attempt.TotalPoints != 3 {
		t.Fatalf("provisional totalPoints = %g, want quiz points 3", attempt.TotalPoints)
	}
	if len(attempt.Answers) != 0 {
		t.Fatalf("new attempt should have no answers")
	}
	if !attempt.StartTime.Equal(start) {
		t.Fatalf("startTime = %v, want claimed instant %v", attempt.StartTime, start)
	}
	if attempts.createCalls != 1 {
		t.Fatalf("expected one stored attempt, got %d", attempts.createCalls)
	}
}

func TestStartAttemptQuizNotFound(t *testing.T) {
	service := newTestService(newFakeQuizRepo(), newFakeAttemptRepo())

	_, err := service.StartAttempt(context.Background(), StartAttemptParams{
		QuizID:        "missing",
		UserID:        "student-1",
		StartTime:     time.Now().UTC(),
		AttemptNumber: 1,
	})
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("StartAttempt = %v, want ErrQuizNotFound", err)
	}
}

func TestStartAttemptGatesOnClaimedInstant(t *testing.T) {
	quizzes := newFakeQuizRepo(availableQuiz())
	attempts := newFakeAttemptRepo()
	service := newTestService(quizzes, attempts)

	_, err := service.StartAttempt(context.Background(), StartAttemptParams{
		QuizID:        "quiz-1",
		UserID:        "student-1",
		StartTime:     time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC),
		AttemptNumber: 1,
	})
	if !errors.Is(err, ErrNotYetAvailable) {
		t.Fatalf("early start = %v, want ErrNotYetAvailable", err)
	}

	_, err = service.StartAttempt(context.Background(), StartAttemptParams{
		QuizID:        "quiz-1",
		UserID:        "student-1",
		StartTime:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		AttemptNumber: 1,
	})
	if !errors.Is(err, ErrNoLongerAvailable) {
		t.Fatalf("late start = %v, want ErrNoLongerAvailable", err)
	}

	if attempts.createCalls != 0 {
		t.Fatalf("rejected starts must not persist attempts")
	}
}

func TestStartAttemptLimitReached(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	quizzes := newFakeQuizRepo(availableQuiz()) // cap of 2
	attempts := newFakeAttemptRepo(
		QuizAttempt{ID: "a1", Quiz: "quiz-1", User: "student-1", StartTime: start, AttemptNumber: 1},
		QuizAttempt{ID: "a2", Quiz: "quiz-1", User: "student-1", StartTime: start, AttemptNumber: 2},
	)
	service := newTestService(quizzes, attempts)

	_, err := service.StartAttempt(context.Background(), StartAttemptParams{
		QuizID:        "quiz-1",
		UserID:        "student-1",
		StartTime:     start,
		AttemptNumber: 3,
	})
	if !errors.Is(err, ErrAttemptLimitReached) {
		t.Fatalf("third attempt = %v, want ErrAttemptLimitReached", err)
	}

	// A different user is unaffected by the first user's attempts.
	if _, err := service.StartAttempt(context.Background(), StartAttemptParams{
		QuizID:        "quiz-1",
		UserID:        "student-2",
		StartTime:     start,
		AttemptNumber: 1,
	}); err != nil {
		t.Fatalf("other user's attempt failed: %v", err)
	}
}

func TestSubmitAttemptHappyPath(t *testing.T) {
	quizzes := newFakeQuizRepo(availableQuiz())
	attempts := newFakeAttemptRepo(QuizAttempt{
		ID:            "a1",
		Quiz:          "quiz-1",
		User:          "student-1",
		StartTime:     time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		TotalPoints:   3,
		AttemptNumber: 1,
	})
	service := newTestService(quizzes, attempts)

	submitTime := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	graded, err := service.SubmitAttempt(context.Background(), SubmitAttemptParams{
		AttemptID:  "a1",
		SubmitTime: submitTime,
		Answers: []SubmittedAnswer{
			{QuestionID: "mc", UserAnswer: "b"},
			{QuestionID: "tf", UserAnswer: "false"},
		},
	})
	if err != nil {
		t.Fatalf("SubmitAttempt failed: %v", err)
	}

	if !graded.Graded() {
		t.Fatalf("submitted attempt should be graded")
	}
	if !graded.EndTime.Equal(submitTime) {
		t.Fatalf("endTime = %v, want claimed submit instant %v", graded.EndTime, submitTime)
	}
	if graded.Score != 3 || graded.TotalPoints != 3 {
		t.Fatalf("score/totalPoints = %g/%g, want 3/3", graded.Score, graded.TotalPoints)
	}
	if len(graded.Answers) != 2 {
		t.Fatalf("expected 2 answer records, got %d", len(graded.Answers))
	}

	stored := attempts.attempts["a1"]
	if !stored.Graded() || stored.Score != 3 {
		t.Fatalf("finalized attempt not persisted: %+v", stored)
	}
	if attempts.finalizeCalls != 1 || attempts.createCalls != 0 {
		t.Fatalf("submission must update the existing record, not create one")
	}
}

func TestSubmitAttemptPastDueLeavesAttemptUnchanged(t *testing.T) {
	quizzes := newFakeQuizRepo(availableQuiz()) // due 2024-02-07
	original := QuizAttempt{
		ID:            "a1",
		Quiz:          "quiz-1",
		User:          "student-1",
		StartTime:     time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		TotalPoints:   3,
		AttemptNumber: 1,
	}
	attempts := newFakeAttemptRepo(original)
	service := newTestService(quizzes, attempts)

	_, err := service.SubmitAttempt(context.Background(), SubmitAttemptParams{
		AttemptID:  "a1",
		SubmitTime: time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC),
		Answers:    []SubmittedAnswer{{QuestionID: "mc", UserAnswer: "b"}},
	})
	if !errors.Is(err, ErrPastDue) {
		t.Fatalf("late submit = %v, want ErrPastDue", err)
	}

	stored := attempts.attempts["a1"]
	if stored.Graded() || stored.Score != 0 || len(stored.Answers) != 0 {
		t.Fatalf("rejected submission mutated the attempt: %+v", stored)
	}
	if attempts.finalizeCalls != 0 {
		t.Fatalf("rejected submission must not touch the store")
	}
}

func TestSubmitAttemptRejectsResubmission(t *testing.T) {
	end := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	quizzes := newFakeQuizRepo(availableQuiz())
	attempts := newFakeAttemptRepo(QuizAttempt{
		ID:        "a1",
		Quiz:      "quiz-1",
		User:      "student-1",
		StartTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		EndTime:   &end,
		Score:     3,
	})
	service := newTestService(quizzes, attempts)

	_, err := service.SubmitAttempt(context.Background(), SubmitAttemptParams{
		AttemptID:  "a1",
		SubmitTime: end.Add(time.Minute),
		Answers:    []SubmittedAnswer{},
	})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("resubmission = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmitAttemptGradesAgainstCurrentSnapshot(t *testing.T) {
	// An authoring edit mid-attempt changes grading: the engine reads the
	// quiz as of submission time, not as of attempt start.
	quizzes := newFakeQuizRepo(availableQuiz())
	attempts := newFakeAttemptRepo(QuizAttempt{
		ID:        "a1",
		Quiz:      "quiz-1",
		User:      "student-1",
		StartTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	})
	service := newTestService(quizzes, attempts)

	edited := quizzes.quizzes["quiz-1"]
	edited.Questions = []Question{
		{ID: "mc", Type: TypeMultipleChoice, Points: 2, CorrectOption: "a"},
	}
	quizzes.quizzes["quiz-1"] = edited

	graded, err := service.SubmitAttempt(context.Background(), SubmitAttemptParams{
		AttemptID:  "a1",
		SubmitTime: time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC),
		Answers:    []SubmittedAnswer{{QuestionID: "mc", UserAnswer: "b"}},
	})
	if err != nil {
		t.Fatalf("SubmitAttempt failed: %v", err)
	}
	if graded.Score != 0 || graded.TotalPoints != 2 {
		t.Fatalf("grading did not use the edited snapshot: %+v", graded)
	}
}

func TestSubmitAttemptValidation(t *testing.T) {
	service := newTestService(newFakeQuizRepo(), newFakeAttemptRepo())

	_, err := service.SubmitAttempt(context.Background(), SubmitAttemptParams{
		AttemptID:  "a1",
		SubmitTime: time.Now().UTC(),
		Answers:    nil,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nil answers = %v, want ErrInvalidInput", err)
	}

	_, err = service.SubmitAttempt(context.Background(), SubmitAttemptParams{
		AttemptID:  "a1",
		SubmitTime: time.Now().UTC(),
		Answers:    []SubmittedAnswer{{UserAnswer: "b"}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("answer without questionId = %v, want ErrInvalidInput", err)
	}
}

func TestCreateQuizGeneratesIDAndValidates(t *testing.T) {
	quizzes := newFakeQuizRepo()
	service := newTestService(quizzes, newFakeAttemptRepo())

	created, err := service.CreateQuiz(context.Background(), Quiz{
		Course: "CS101",
		Title:  "Week 2",
	})
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated quiz id")
	}
	if created.Questions == nil {
		t.Fatalf("questions should default to an empty slice")
	}

	_, err = service.CreateQuiz(context.Background(), Quiz{
		Course: "CS101",
		Title:  "Bad",
		Questions: []Question{
			{ID: "q1", Type: "matching", Points: 1},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown question type = %v, want ErrInvalidInput", err)
	}
}

func TestListAttemptsRequiresQuizID(t *testing.T) {
	service := newTestService(newFakeQuizRepo(), newFakeAttemptRepo())
	if _, err := service.ListAttempts(context.Background(), "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty quiz id = %v, want ErrInvalidInput", err)
	}
}
