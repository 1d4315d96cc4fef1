package handler

import (
	"net/http"

	"github.com/quizrally/quizrally-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest      = apierr.CodeInvalidRequest
	CodeUnauthorized        = apierr.CodeUnauthorized
	CodeNotHost             = apierr.CodeNotHost
	CodePlayerNotFound      = apierr.CodePlayerNotFound
	CodeSessionNotFound     = apierr.CodeSessionNotFound
	CodeSessionFinished     = apierr.CodeSessionFinished
	CodeNotInSession        = apierr.CodeNotInSession
	CodeNameTaken           = apierr.CodeNameTaken
	CodeNoActiveQuestion    = apierr.CodeNoActiveQuestion
	CodeAlreadyAnswered     = apierr.CodeAlreadyAnswered
	CodeInvalidQuestion     = apierr.CodeInvalidQuestion
	CodeQuestionOutOfRange  = apierr.CodeQuestionOutOfRange
	CodeQuestionSetNotFound = apierr.CodeQuestionSetNotFound
	CodeNotEnoughQuestions  = apierr.CodeNotEnoughQuestions
	CodeUsernameExists      = apierr.CodeUsernameExists
	CodeInvalidCredentials  = apierr.CodeInvalidCredentials
	CodeInternalError       = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
