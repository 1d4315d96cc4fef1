package response

import (
	"time"

	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/services/auth"
	"github.com/quizrally/quizrally-go/internal/services/session"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player    Player    `json:"player"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponseFromToken creates an AuthResponse from an auth token
func AuthResponseFromToken(t *auth.Token) AuthResponse {
	return AuthResponse{
		Player:    PlayerFromModel(&t.Player),
		Token:     t.Value,
		ExpiresAt: t.ExpiresAt,
	}
}

// SessionPlayer represents a player within a session
type SessionPlayer struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"name"`
	Score       int    `json:"score"`
	Answered    bool   `json:"answered"`
}

// Session represents a quiz session in API responses.
// The question bank itself is never included; the host reviews
// questions through the dedicated question endpoint.
type Session struct {
	Code            string          `json:"code"`
	State           string          `json:"state"`
	HostID          string          `json:"host_id"`
	Players         []SessionPlayer `json:"players"`
	CurrentQuestion int             `json:"current_question"`
	TotalQuestions  int             `json:"total_questions"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SessionFromModel converts model.Session
func SessionFromModel(s *model.Session) Session {
	players := make([]SessionPlayer, len(s.Players))
	for i, p := range s.Players {
		players[i] = SessionPlayer{
			PlayerID:    string(p.Player.ID),
			DisplayName: p.Player.DisplayName,
			Score:       p.Score,
			Answered:    p.Answered,
		}
	}

	return Session{
		Code:            string(s.Code),
		State:           string(s.State),
		HostID:          string(s.HostID),
		Players:         players,
		CurrentQuestion: s.CurrentQuestion,
		TotalQuestions:  s.TotalQuestions(),
		CreatedAt:       s.CreatedAt,
	}
}

// Question is the player-facing shape of the current question.
// When the session is finished only the finished marker and totals
// are populated.
type Question struct {
	ID             string   `json:"id,omitempty"`
	Question       string   `json:"question,omitempty"`
	Options        []string `json:"options,omitempty"`
	TimeLimit      int      `json:"time_limit,omitempty"`
	QuestionNumber int      `json:"question_number,omitempty"`
	TotalQuestions int      `json:"total_questions"`
	Finished       bool     `json:"finished"`
}

// QuestionFromView converts a session.QuestionView
func QuestionFromView(v *session.QuestionView) Question {
	return Question{
		ID:             string(v.ID),
		Question:       v.Text,
		Options:        v.Options,
		TimeLimit:      v.TimeLimit,
		QuestionNumber: v.QuestionNumber,
		TotalQuestions: v.TotalQuestions,
		Finished:       v.Finished,
	}
}

// HostQuestion is the host-facing shape of a question, including the
// correct index
type HostQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	TimeLimit    int      `json:"time_limit"`
}

// HostQuestionFromModel converts model.Question
func HostQuestionFromModel(q *model.Question) HostQuestion {
	return HostQuestion{
		ID:           string(q.ID),
		Question:     q.Text,
		Options:      q.Options,
		CorrectIndex: q.CorrectIndex,
		TimeLimit:    q.TimeLimit,
	}
}

// Answer is the response after submitting an answer
type Answer struct {
	Correct       bool `json:"correct"`
	CorrectAnswer int  `json:"correct_answer"`
	Points        int  `json:"points"`
	NewScore      int  `json:"new_score"`
}

// AnswerFromResult converts a session.SubmitResult
func AnswerFromResult(r *session.SubmitResult) Answer {
	return Answer{
		Correct:       r.Correct,
		CorrectAnswer: r.CorrectIndex,
		Points:        r.Points,
		NewScore:      r.NewScore,
	}
}

// Scores is a leaderboard snapshot with the session's progress
type Scores struct {
	Scores          []model.ScoreEntry `json:"scores"`
	CurrentQuestion int                `json:"current_question"`
	TotalQuestions  int                `json:"total_questions"`
	State           string             `json:"state"`
}

// ScoresFromSnapshot converts a session.Scores
func ScoresFromSnapshot(s *session.Scores) Scores {
	entries := s.Entries
	if entries == nil {
		entries = []model.ScoreEntry{}
	}
	return Scores{
		Scores:          entries,
		CurrentQuestion: s.CurrentQuestion,
		TotalQuestions:  s.TotalQuestions,
		State:           string(s.State),
	}
}
