package httpapi

import (
	"time"

	"course-quiz/internal/quiz"
)

// Domain entities carry their external field names on their own json tags,
// so responses serialize them directly; only the request envelopes differ.

type startAttemptRequest struct {
	User          string    `json:"user,omitempty"`
	StartTime     time.Time `json:"startTime"`
	AttemptNumber int       `json:"attemptNumber"`
}

type submitAttemptRequest struct {
	SubmitTime time.Time              `json:"submitTime"`
	Answers    []quiz.SubmittedAnswer `json:"answers"`
}

type attemptsResponse struct {
	Attempts []quiz.QuizAttempt `json:"attempts"`
}

type quizzesResponse struct {
	Quizzes []quiz.Quiz `json:"quizzes"`
}

type errorResponse struct {
	Error string `json:"error"`
}
