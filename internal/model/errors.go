package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFinished  = errors.New("session is finished")
	ErrNotInSession     = errors.New("player is not in session")
	ErrNameTaken        = errors.New("display name is already taken")
	ErrNotHost          = errors.New("player is not the host")

	// Question errors
	ErrNoActiveQuestion    = errors.New("no active question")
	ErrAlreadyAnswered     = errors.New("player has already answered this question")
	ErrQuestionOutOfRange  = errors.New("question index out of range")
	ErrInvalidQuestion     = errors.New("invalid question data")
	ErrQuestionSetNotFound = errors.New("question set not found")
	ErrNotEnoughQuestions  = errors.New("not enough questions in set")
)
