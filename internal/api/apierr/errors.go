package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotHost             = "NOT_HOST"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodeSessionFinished     = "SESSION_FINISHED"
	CodeNotInSession        = "NOT_IN_SESSION"
	CodeNameTaken           = "NAME_TAKEN"
	CodeNoActiveQuestion    = "NO_ACTIVE_QUESTION"
	CodeAlreadyAnswered     = "ALREADY_ANSWERED"
	CodeInvalidQuestion     = "INVALID_QUESTION"
	CodeQuestionOutOfRange  = "QUESTION_OUT_OF_RANGE"
	CodeQuestionSetNotFound = "QUESTION_SET_NOT_FOUND"
	CodeNotEnoughQuestions  = "NOT_ENOUGH_QUESTIONS"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSessionFinished):
		return &httpError{http.StatusConflict, APIError{CodeSessionFinished, "Session is finished"}}
	case errors.Is(err, model.ErrNotInSession):
		return &httpError{http.StatusNotFound, APIError{CodeNotInSession, "Not in this session"}}
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, "Display name is already taken in this session"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrNoActiveQuestion):
		return &httpError{http.StatusConflict, APIError{CodeNoActiveQuestion, "No question is currently accepting answers"}}
	case errors.Is(err, model.ErrAlreadyAnswered):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAnswered, "Already answered this question"}}
	case errors.Is(err, model.ErrQuestionOutOfRange):
		return &httpError{http.StatusBadRequest, APIError{CodeQuestionOutOfRange, "Question index is out of range"}}
	case errors.Is(err, model.ErrInvalidQuestion):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidQuestion, "Invalid question"}}
	case errors.Is(err, model.ErrQuestionSetNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeQuestionSetNotFound, "Question set not found"}}
	case errors.Is(err, model.ErrNotEnoughQuestions):
		return &httpError{http.StatusBadRequest, APIError{CodeNotEnoughQuestions, "Not enough questions in the set"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
