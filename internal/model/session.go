package model

import (
	"strings"
	"time"
)

// SessionCode is a human-readable identifier for joining sessions
type SessionCode string

// SessionState represents the current phase of a session
type SessionState string

const (
	SessionStateLobby      SessionState = "lobby"       // No question served yet
	SessionStateInProgress SessionState = "in_progress" // Questions being served and answered
	SessionStateFinished   SessionState = "finished"    // All questions exhausted, terminal
)

// SessionPlayer represents a player's membership in a session
type SessionPlayer struct {
	Player   Player
	Score    int
	Answered bool // whether the player answered the current question
	JoinedAt time.Time
}

// Session represents one quiz game: a question bank, a player registry
// and the pointer into the bank
type Session struct {
	Code      SessionCode
	State     SessionState
	HostID    PlayerID
	Players   []SessionPlayer // join order, used for leaderboard tie-breaks
	Questions []Question      // fixed at creation, never reordered

	// CurrentQuestion points into Questions. It starts at 0 with the
	// first question pending in the lobby and is monotonically
	// non-decreasing; once it reaches len(Questions) the session is
	// finished.
	CurrentQuestion int

	// QuestionStartedAt is when the current question became active,
	// used to scale scores by response speed
	QuestionStartedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalQuestions returns the size of the question bank
func (s *Session) TotalQuestions() int {
	return len(s.Questions)
}

// GetPlayer returns the session player with the given ID, or nil if not found
func (s *Session) GetPlayer(playerID PlayerID) *SessionPlayer {
	for i := range s.Players {
		if s.Players[i].Player.ID == playerID {
			return &s.Players[i]
		}
	}
	return nil
}

// HasDisplayName reports whether a player with the given display name
// is already in the session. Comparison is case-insensitive.
func (s *Session) HasDisplayName(name string) bool {
	for i := range s.Players {
		if strings.EqualFold(s.Players[i].Player.DisplayName, name) {
			return true
		}
	}
	return false
}

// ActiveQuestion returns the question at the current pointer,
// or nil if no question is active
func (s *Session) ActiveQuestion() *Question {
	if s.State != SessionStateInProgress {
		return nil
	}
	if s.CurrentQuestion < 0 || s.CurrentQuestion >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestion]
}

// ResetAnswered clears every player's answered flag, called on advance
func (s *Session) ResetAnswered() {
	for i := range s.Players {
		s.Players[i].Answered = false
	}
}
