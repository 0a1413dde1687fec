package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"course-quiz/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient is a typed client for the quiz service API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

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

func (c *HTTPClient) StartAttempt(ctx context.Context, quizID, user string, startTime time.Time, attemptNumber int) (quiz.QuizAttempt, error) {
	if strings.TrimSpace(quizID) == "" {
		return quiz.QuizAttempt{}, errors.New("quiz id is required")
	}

	request := startAttemptRequest{
		User:          user,
		StartTime:     startTime,
		AttemptNumber: attemptNumber,
	}

	var attempt quiz.QuizAttempt
	path := "/api/quizzes/" + url.PathEscape(quizID) + "/attempts"
	if err := c.doJSON(ctx, http.MethodPost, path, request, &attempt); err != nil {
		return quiz.QuizAttempt{}, err
	}
	return attempt, nil
}

func (c *HTTPClient) SubmitAttempt(ctx context.Context, attemptID string, submitTime time.Time, answers []quiz.SubmittedAnswer) (quiz.QuizAttempt, error) {
	if strings.TrimSpace(attemptID) == "" {
		return quiz.QuizAttempt{}, errors.New("attempt id is required")
	}
	if answers == nil {
		answers = []quiz.SubmittedAnswer{}
	}

	request := submitAttemptRequest{
		SubmitTime: submitTime,
		Answers:    answers,
	}

	var attempt quiz.QuizAttempt
	path := "/api/quiz-attempts/" + url.PathEscape(attemptID) + "/submit"
	if err := c.doJSON(ctx, http.MethodPut, path, request, &attempt); err != nil {
		return quiz.QuizAttempt{}, err
	}
	return attempt, nil
}

func (c *HTTPClient) ListAttempts(ctx context.Context, quizID, user string) ([]quiz.QuizAttempt, error) {
	if strings.TrimSpace(quizID) == "" {
		return nil, errors.New("quiz id is required")
	}

	path := "/api/quizzes/" + url.PathEscape(quizID) + "/attempts"
	if trimmed := strings.TrimSpace(user); trimmed != "" {
		query := url.Values{}
		query.Set("user", trimmed)
		path += "?" + query.Encode()
	}

	var payload attemptsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Attempts, nil
}

func (c *HTTPClient) ListCourseQuizzes(ctx context.Context, courseID, role string) ([]quiz.Quiz, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, errors.New("course id is required")
	}

	path := "/api/courses/" + url.PathEscape(courseID) + "/quizzes"
	if trimmed := strings.TrimSpace(role); trimmed != "" {
		query := url.Values{}
		query.Set("role", trimmed)
		path += "?" + query.Encode()
	}

	var payload quizzesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Quizzes, nil
}

func (c *HTTPClient) GetQuiz(ctx context.Context, quizID string) (quiz.Quiz, error) {
	if strings.TrimSpace(quizID) == "" {
		return quiz.Quiz{}, errors.New("quiz id is required")
	}

	var q quiz.Quiz
	if err := c.doJSON(ctx, http.MethodGet, "/api/quizzes/"+url.PathEscape(quizID), nil, &q); err != nil {
		return quiz.Quiz{}, err
	}
	return q, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
