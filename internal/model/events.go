package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventPlayerJoined       EventType = "player_joined"
	EventQuestionAdvanced   EventType = "question_advanced"
	EventAnswerSubmitted    EventType = "answer_submitted"
	EventLeaderboardUpdated EventType = "leaderboard_updated"
	EventSessionFinished    EventType = "session_finished"
	EventSessionEnded       EventType = "session_ended"
)

// Event is the base structure for all events. Events are serialized
// straight onto the event stream, so these types carry JSON tags.
type Event struct {
	Type        EventType   `json:"type"`
	Timestamp   time.Time   `json:"timestamp"`
	SessionCode SessionCode `json:"session_code"`
	PlayerID    PlayerID    `json:"player_id,omitempty"` // The player who triggered or is affected
	Payload     any         `json:"payload,omitempty"`   // Type-specific data
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
	PlayerCount int      `json:"player_count"`
}

// QuestionAdvancedPayload contains data for question advanced events.
// The question body is not included; clients fetch it so the payload
// never leaks the correct index.
type QuestionAdvancedPayload struct {
	QuestionNumber int  `json:"question_number"` // 1-based
	TotalQuestions int  `json:"total_questions"`
	Finished       bool `json:"finished"`
}

// AnswerSubmittedPayload contains data for answer submitted events.
// Correctness is withheld until the question advances.
type AnswerSubmittedPayload struct {
	PlayerID      PlayerID `json:"player_id"`
	DisplayName   string   `json:"display_name"`
	AnsweredCount int      `json:"answered_count"`
	PlayerCount   int      `json:"player_count"`
}

// ScoreEntry is one row of a leaderboard snapshot
type ScoreEntry struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
	Score       int      `json:"score"`
}

// LeaderboardUpdatedPayload contains data for leaderboard events
type LeaderboardUpdatedPayload struct {
	Scores []ScoreEntry `json:"scores"`
}

// SessionFinishedPayload contains data for session finished events
type SessionFinishedPayload struct {
	Scores []ScoreEntry `json:"scores"`
	Winner PlayerID     `json:"winner,omitempty"` // Empty if tie or no players
}

// SessionEndedPayload contains data for host teardown events
type SessionEndedPayload struct {
	Reason string `json:"reason"`
}
