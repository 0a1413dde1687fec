package httpapi

import (
	"net/http"

	"course-quiz/internal/quiz"
)

func NewRouter(service *quiz.Service) http.Handler {
	api := NewAPI(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/courses/{course_id}/quizzes", api.HandleCourseQuizzes)
	mux.HandleFunc("/api/quizzes/{quiz_id}", api.HandleQuiz)
	mux.HandleFunc("/api/quizzes/{quiz_id}/attempts", api.HandleQuizAttempts)
	mux.HandleFunc("/api/quiz-attempts/{attempt_id}/submit", api.HandleSubmitAttempt)

	return mux
}
