package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/quizrally/quizrally-go/internal/model"
)

// Broadcaster publishes session events to SSE clients as JSON
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// publish serializes the event and broadcasts it to the session's hub.
// A session without a hub has no listeners; the event is dropped.
func (b *Broadcaster) publish(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionCode)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("session", string(event.SessionCode)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}

// PlayerJoined broadcasts that a player has joined the session
func (b *Broadcaster) PlayerJoined(session *model.Session, player model.Player) {
	b.publish(model.Event{
		Type:        model.EventPlayerJoined,
		Timestamp:   time.Now().UTC(),
		SessionCode: session.Code,
		PlayerID:    player.ID,
		Payload: model.PlayerJoinedPayload{
			PlayerID:    player.ID,
			DisplayName: player.DisplayName,
			PlayerCount: len(session.Players),
		},
	})
}

// QuestionAdvanced broadcasts that the session has moved to a new
// question, or finished
func (b *Broadcaster) QuestionAdvanced(session *model.Session) {
	finished := session.State == model.SessionStateFinished
	number := session.CurrentQuestion + 1
	if finished {
		number = session.TotalQuestions()
	}
	b.publish(model.Event{
		Type:        model.EventQuestionAdvanced,
		Timestamp:   time.Now().UTC(),
		SessionCode: session.Code,
		Payload: model.QuestionAdvancedPayload{
			QuestionNumber: number,
			TotalQuestions: session.TotalQuestions(),
			Finished:       finished,
		},
	})
}

// AnswerSubmitted broadcasts that a player has answered the current
// question. Correctness is not included.
func (b *Broadcaster) AnswerSubmitted(session *model.Session, playerID model.PlayerID) {
	answered := 0
	for _, p := range session.Players {
		if p.Answered {
			answered++
		}
	}

	displayName := ""
	if p := session.GetPlayer(playerID); p != nil {
		displayName = p.Player.DisplayName
	}

	b.publish(model.Event{
		Type:        model.EventAnswerSubmitted,
		Timestamp:   time.Now().UTC(),
		SessionCode: session.Code,
		PlayerID:    playerID,
		Payload: model.AnswerSubmittedPayload{
			PlayerID:      playerID,
			DisplayName:   displayName,
			AnsweredCount: answered,
			PlayerCount:   len(session.Players),
		},
	})
}

// LeaderboardUpdated broadcasts a fresh leaderboard snapshot
func (b *Broadcaster) LeaderboardUpdated(sessionCode model.SessionCode, scores []model.ScoreEntry) {
	b.publish(model.Event{
		Type:        model.EventLeaderboardUpdated,
		Timestamp:   time.Now().UTC(),
		SessionCode: sessionCode,
		Payload: model.LeaderboardUpdatedPayload{
			Scores: scores,
		},
	})
}

// SessionFinished broadcasts the final leaderboard and winner
func (b *Broadcaster) SessionFinished(sessionCode model.SessionCode, scores []model.ScoreEntry, winner model.PlayerID) {
	b.publish(model.Event{
		Type:        model.EventSessionFinished,
		Timestamp:   time.Now().UTC(),
		SessionCode: sessionCode,
		Payload: model.SessionFinishedPayload{
			Scores: scores,
			Winner: winner,
		},
	})
}

// SessionEnded broadcasts that the host has torn the session down,
// then removes the hub
func (b *Broadcaster) SessionEnded(sessionCode model.SessionCode, reason string) {
	b.publish(model.Event{
		Type:        model.EventSessionEnded,
		Timestamp:   time.Now().UTC(),
		SessionCode: sessionCode,
		Payload: model.SessionEndedPayload{
			Reason: reason,
		},
	})
	b.hubManager.RemoveHub(sessionCode)
}
