package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"course-quiz/internal/middleware"
	"course-quiz/internal/quiz"
)

// HandleCourseQuizzes serves GET (list) and POST (create) on
// /api/courses/{course_id}/quizzes.
func (a *API) HandleCourseQuizzes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.handleListCourseQuizzes(w, r)
	case http.MethodPost:
		a.handleCreateQuiz(w, r)
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

func (a *API) handleListCourseQuizzes(w http.ResponseWriter, r *http.Request) {
	courseID := strings.TrimSpace(r.PathValue("course_id"))
	if courseID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "course_id is required"})
		return
	}

	// Students only see published quizzes; faculty see everything.
	role := callerRole(r)
	publishedOnly := role == middleware.RoleStudent || role == ""

	quizzes, err := a.service.ListCourseQuizzes(r.Context(), courseID, publishedOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzesResponse{Quizzes: quizzes})
}

func (a *API) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	if !facultyRole(callerRole(r)) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "faculty role required"})
		return
	}

	courseID := strings.TrimSpace(r.PathValue("course_id"))
	defer r.Body.Close()

	var q quiz.Quiz
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	q.Course = courseID

	created, err := a.service.CreateQuiz(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleQuiz serves GET and PUT on /api/quizzes/{quiz_id}.
func (a *API) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := strings.TrimSpace(r.PathValue("quiz_id"))

	switch r.Method {
	case http.MethodGet:
		// The full definition, answers included, goes to whoever asks;
		// clients use it for local preview grading.
		q, err := a.service.GetQuiz(r.Context(), quizID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	case http.MethodPut:
		if !facultyRole(callerRole(r)) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "faculty role required"})
			return
		}

		defer r.Body.Close()
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		q.ID = quizID

		updated, err := a.service.UpdateQuiz(r.Context(), q)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		writeMethodNotAllowed(w, "GET, PUT")
	}
}

// HandleQuizAttempts serves GET (list) and POST (start) on
// /api/quizzes/{quiz_id}/attempts.
func (a *API) HandleQuizAttempts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.handleListAttempts(w, r)
	case http.MethodPost:
		a.handleStartAttempt(w, r)
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

func (a *API) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	quizID := strings.TrimSpace(r.PathValue("quiz_id"))
	userID := strings.TrimSpace(r.URL.Query().Get("user"))

	attempts, err := a.service.ListAttempts(r.Context(), quizID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attemptsResponse{Attempts: attempts})
}

func (a *API) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	quizID := strings.TrimSpace(r.PathValue("quiz_id"))
	defer r.Body.Close()

	var request startAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	// An authenticated caller is the attempt's user; the body field only
	// applies for unauthenticated (trusted-frontend) callers.
	userID := request.User
	if uid, ok := middleware.UserFromContext(r.Context()); ok {
		userID = uid
	}

	startTime := request.StartTime
	if startTime.IsZero() {
		startTime = time.Now().UTC()
	}

	attempt, err := a.service.StartAttempt(r.Context(), quiz.StartAttemptParams{
		QuizID:        quizID,
		UserID:        userID,
		StartTime:     startTime,
		AttemptNumber: request.AttemptNumber,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

// HandleSubmitAttempt serves PUT /api/quiz-attempts/{attempt_id}/submit.
func (a *API) HandleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w, http.MethodPut)
		return
	}

	attemptID := strings.TrimSpace(r.PathValue("attempt_id"))
	defer r.Body.Close()

	var request submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if request.Answers == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "answers is required"})
		return
	}

	submitTime := request.SubmitTime
	if submitTime.IsZero() {
		submitTime = time.Now().UTC()
	}

	attempt, err := a.service.SubmitAttempt(r.Context(), quiz.SubmitAttemptParams{
		AttemptID:  attemptID,
		SubmitTime: submitTime,
		Answers:    request.Answers,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func callerRole(r *http.Request) string {
	if role, ok := middleware.RoleFromContext(r.Context()); ok {
		return role
	}
	// Roles are client-asserted; the query fallback keeps unauthenticated
	// frontends working.
	return strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("role")))
}

func facultyRole(role string) bool {
	switch role {
	case middleware.RoleFaculty, middleware.RoleTA, middleware.RoleAdmin:
		return true
	default:
		return false
	}
}
