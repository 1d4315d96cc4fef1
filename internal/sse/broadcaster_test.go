package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/testutil"
)

func testSession() *model.Session {
	return &model.Session{
		Code:   "TEST01",
		State:  model.SessionStateInProgress,
		HostID: "host",
		Players: []model.SessionPlayer{
			{Player: model.Player{ID: "alice", DisplayName: "Alice"}, Score: 1000, Answered: true},
			{Player: model.Player{ID: "bob", DisplayName: "Bob"}, Score: 500},
		},
		Questions: []model.Question{
			{ID: "q1", Text: "Q1", Options: []string{"a", "b"}, CorrectIndex: 0, TimeLimit: 30},
			{ID: "q2", Text: "Q2", Options: []string{"a", "b"}, CorrectIndex: 1, TimeLimit: 30},
		},
		CurrentQuestion: 1,
	}
}

// receiveEvent reads the next SSE frame from the client and decodes its
// data line as an event
func receiveEvent(t *testing.T, client *Client) model.Event {
	t.Helper()

	select {
	case msg := <-client.send:
		frame := string(msg)
		var data string
		for _, line := range strings.Split(frame, "\n") {
			if strings.HasPrefix(line, "data: ") {
				data += strings.TrimPrefix(line, "data: ")
			}
		}
		var event model.Event
		require.NoError(t, json.Unmarshal([]byte(data), &event))
		return event
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive event")
		return model.Event{}
	}
}

func newTestBroadcaster(t *testing.T) (*Broadcaster, *Client, *HubManager) {
	t.Helper()

	manager := NewHubManager(testutil.NopLogger())
	hub := manager.GetOrCreateHub("TEST01")
	client := NewClient(hub, "observer")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	return NewBroadcaster(manager, testutil.NopLogger()), client, manager
}

func TestBroadcaster_PlayerJoined(t *testing.T) {
	b, client, manager := newTestBroadcaster(t)
	defer manager.RemoveHub("TEST01")

	sess := testSession()
	b.PlayerJoined(sess, sess.Players[1].Player)

	event := receiveEvent(t, client)
	assert.Equal(t, model.EventPlayerJoined, event.Type)
	assert.Equal(t, model.SessionCode("TEST01"), event.SessionCode)
	assert.Equal(t, model.PlayerID("bob"), event.PlayerID)

	payload, err := json.Marshal(event.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"player_count":2`)
	assert.Contains(t, string(payload), `"display_name":"Bob"`)
}

func TestBroadcaster_QuestionAdvanced(t *testing.T) {
	b, client, manager := newTestBroadcaster(t)
	defer manager.RemoveHub("TEST01")

	b.QuestionAdvanced(testSession())

	event := receiveEvent(t, client)
	assert.Equal(t, model.EventQuestionAdvanced, event.Type)

	payload, err := json.Marshal(event.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"question_number":2`)
	assert.Contains(t, string(payload), `"total_questions":2`)
	assert.Contains(t, string(payload), `"finished":false`)
	// The correct index never appears on the event stream
	assert.NotContains(t, string(payload), "correct")
}

func TestBroadcaster_AnswerSubmitted(t *testing.T) {
	b, client, manager := newTestBroadcaster(t)
	defer manager.RemoveHub("TEST01")

	b.AnswerSubmitted(testSession(), "alice")

	event := receiveEvent(t, client)
	assert.Equal(t, model.EventAnswerSubmitted, event.Type)

	payload, err := json.Marshal(event.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"answered_count":1`)
	assert.Contains(t, string(payload), `"display_name":"Alice"`)
}

func TestBroadcaster_SessionFinished(t *testing.T) {
	b, client, manager := newTestBroadcaster(t)
	defer manager.RemoveHub("TEST01")

	scores := []model.ScoreEntry{
		{PlayerID: "alice", DisplayName: "Alice", Score: 1000},
		{PlayerID: "bob", DisplayName: "Bob", Score: 500},
	}
	b.SessionFinished("TEST01", scores, "alice")

	event := receiveEvent(t, client)
	assert.Equal(t, model.EventSessionFinished, event.Type)

	payload, err := json.Marshal(event.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"winner":"alice"`)
}

func TestBroadcaster_SessionEndedRemovesHub(t *testing.T) {
	b, client, manager := newTestBroadcaster(t)

	b.SessionEnded("TEST01", "ended by host")

	event := receiveEvent(t, client)
	assert.Equal(t, model.EventSessionEnded, event.Type)

	assert.Nil(t, manager.GetHub("TEST01"))
}

func TestBroadcaster_NoHubIsNoop(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(manager, testutil.NopLogger())

	// No hub exists for this session; publishing must not panic or
	// create one
	b.QuestionAdvanced(testSession())
	assert.Nil(t, manager.GetHub("TEST01"))
}
