package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"course-quiz/internal/quiz"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "quiz not found"})
	case errors.Is(err, quiz.ErrAttemptNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "attempt not found"})
	case errors.Is(err, quiz.ErrNotYetAvailable):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quiz is not available at this time"})
	case errors.Is(err, quiz.ErrNoLongerAvailable):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quiz is not available at this time"})
	case errors.Is(err, quiz.ErrAttemptLimitReached):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "maximum attempts reached"})
	case errors.Is(err, quiz.ErrPastDue):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quiz is past due date"})
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "attempt already submitted"})
	case errors.Is(err, quiz.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		// Collaborator faults (storage I/O) reach here; callers retry at a
		// higher layer.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethods string) {
	w.Header().Set("Allow", allowedMethods)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
