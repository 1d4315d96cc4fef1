package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizrally/quizrally-go/internal/dependencies/mocks"
	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/services/question"
	"github.com/quizrally/quizrally-go/internal/services/scoring"
	"github.com/quizrally/quizrally-go/internal/storage/memory"
	"github.com/quizrally/quizrally-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context

	host model.Player
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()

	questionService := question.New(s.storage, question.NewStaticSource(), s.random)
	scoringService := scoring.New(scoring.DefaultConfig())

	s.controller = NewController(
		s.storage,
		questionService,
		scoringService,
		s.clock,
		s.random,
		testutil.NopLogger(),
	)
	s.ctx = context.Background()

	s.host = model.Player{ID: "host-1", DisplayName: "Host", IsGuest: true}
}

func twoQuestionBank() []model.Question {
	return []model.Question{
		{Text: "2+2?", Options: []string{"4", "5", "6", "7"}, CorrectIndex: 0, TimeLimit: 30},
		{Text: "3+3?", Options: []string{"5", "6", "7", "8"}, CorrectIndex: 1, TimeLimit: 30},
	}
}

// createSession makes a session with the given bank under a fresh code
func (s *ControllerSuite) createSession(code string, questions []model.Question) *model.Session {
	s.random.QueueString(code)
	session, err := s.controller.CreateSession(s.ctx, s.host, CreateOptions{Questions: questions})
	s.Require().NoError(err)
	return session
}

// join adds a player and returns it
func (s *ControllerSuite) join(code model.SessionCode, id, name string) model.Player {
	player := model.Player{ID: model.PlayerID(id), DisplayName: name, IsGuest: true}
	_, err := s.controller.JoinSession(s.ctx, code, player)
	s.Require().NoError(err)
	return player
}

// CreateSession tests

func (s *ControllerSuite) TestCreateSession() {
	session := s.createSession("ABC234", twoQuestionBank())

	s.Equal(model.SessionCode("ABC234"), session.Code)
	s.Equal(model.SessionStateLobby, session.State)
	s.Equal(model.PlayerID("host-1"), session.HostID)
	s.Equal(0, session.CurrentQuestion)
	s.Empty(session.Players)
	s.Require().Len(session.Questions, 2)
	s.NotEmpty(session.Questions[0].ID)
}

func (s *ControllerSuite) TestCreateSessionRerollsCollidingCode() {
	s.createSession("ABC234", twoQuestionBank())

	s.random.QueueString("ABC234", "XYZ789")
	session, err := s.controller.CreateSession(s.ctx, s.host, CreateOptions{Questions: twoQuestionBank()})
	s.Require().NoError(err)
	s.Equal(model.SessionCode("XYZ789"), session.Code)
}

func (s *ControllerSuite) TestCreateSessionDrawsFromDefaultSet() {
	s.random.QueueString("ABC234")
	session, err := s.controller.CreateSession(s.ctx, s.host, CreateOptions{})
	s.Require().NoError(err)
	s.Len(session.Questions, DefaultDrawCount)
}

func (s *ControllerSuite) TestCreateSessionRejectsInvalidQuestions() {
	s.random.QueueString("ABC234")
	_, err := s.controller.CreateSession(s.ctx, s.host, CreateOptions{
		Questions: []model.Question{
			{Text: "Pick", Options: []string{"only one"}, CorrectIndex: 0, TimeLimit: 30},
		},
	})
	s.ErrorIs(err, model.ErrInvalidQuestion)
}

func (s *ControllerSuite) TestCreateSessionRejectsOutOfRangeCorrectIndex() {
	s.random.QueueString("ABC234")
	_, err := s.controller.CreateSession(s.ctx, s.host, CreateOptions{
		Questions: []model.Question{
			{Text: "Pick", Options: []string{"a", "b"}, CorrectIndex: 5, TimeLimit: 30},
		},
	})
	s.ErrorIs(err, model.ErrInvalidQuestion)
}

// JoinSession tests

func (s *ControllerSuite) TestJoinSession() {
	s.createSession("ABC234", twoQuestionBank())

	session, err := s.controller.JoinSession(s.ctx, "ABC234", model.Player{ID: "p1", DisplayName: "Alice"})
	s.Require().NoError(err)
	s.Require().Len(session.Players, 1)
	s.Equal("Alice", session.Players[0].Player.DisplayName)
	s.Equal(0, session.Players[0].Score)
}

func (s *ControllerSuite) TestJoinSessionUnknownCode() {
	_, err := s.controller.JoinSession(s.ctx, "NOPE42", model.Player{ID: "p1", DisplayName: "Alice"})
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestJoinSessionDuplicateName() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "p1", "Alice")

	_, err := s.controller.JoinSession(s.ctx, "ABC234", model.Player{ID: "p2", DisplayName: "alice"})
	s.ErrorIs(err, model.ErrNameTaken)
}

func (s *ControllerSuite) TestJoinSessionSameIdentityIsNoop() {
	s.createSession("ABC234", twoQuestionBank())
	player := s.join("ABC234", "p1", "Alice")

	session, err := s.controller.JoinSession(s.ctx, "ABC234", player)
	s.Require().NoError(err)
	s.Len(session.Players, 1)
}

func (s *ControllerSuite) TestJoinSessionMidGame() {
	s.createSession("ABC234", twoQuestionBank())
	_, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)

	_, err = s.controller.JoinSession(s.ctx, "ABC234", model.Player{ID: "late", DisplayName: "Late"})
	s.NoError(err)
}

func (s *ControllerSuite) TestJoinSessionAfterFinish() {
	s.createSession("ABC234", twoQuestionBank())
	s.advanceTimes("ABC234", 2)

	_, err := s.controller.JoinSession(s.ctx, "ABC234", model.Player{ID: "late", DisplayName: "Late"})
	s.ErrorIs(err, model.ErrSessionFinished)
}

// CurrentQuestion tests

func (s *ControllerSuite) TestCurrentQuestionStartsLobbySession() {
	s.createSession("ABC234", twoQuestionBank())

	view, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(view.Finished)
	s.Equal("2+2?", view.Text)
	s.Equal([]string{"4", "5", "6", "7"}, view.Options)
	s.Equal(1, view.QuestionNumber)
	s.Equal(2, view.TotalQuestions)
	s.Equal(30, view.TimeLimit)

	session, err := s.controller.GetSession(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(model.SessionStateInProgress, session.State)
	s.Equal(0, session.CurrentQuestion)
}

func (s *ControllerSuite) TestCurrentQuestionAfterAdvance() {
	s.createSession("ABC234", twoQuestionBank())
	s.advanceTimes("ABC234", 1)

	view, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal("3+3?", view.Text)
	s.Equal(2, view.QuestionNumber)
}

func (s *ControllerSuite) TestCurrentQuestionFinishedMarker() {
	s.createSession("ABC234", twoQuestionBank())
	s.advanceTimes("ABC234", 2)

	view, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.True(view.Finished)
	s.Empty(view.Text)
	s.Empty(view.Options)
	s.Equal(2, view.TotalQuestions)
}

func (s *ControllerSuite) TestCurrentQuestionUnknownCode() {
	_, err := s.controller.CurrentQuestion(s.ctx, "NOPE42")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// AdvanceQuestion tests

func (s *ControllerSuite) advanceTimes(code model.SessionCode, n int) {
	for i := 0; i < n; i++ {
		_, err := s.controller.AdvanceQuestion(s.ctx, code, s.host.ID)
		s.Require().NoError(err)
	}
}

func (s *ControllerSuite) TestAdvanceQuestionNonHost() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "p1", "Alice")

	_, err := s.controller.AdvanceQuestion(s.ctx, "ABC234", "p1")
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ControllerSuite) TestAdvanceQuestionProgression() {
	s.createSession("ABC234", twoQuestionBank())

	session, err := s.controller.AdvanceQuestion(s.ctx, "ABC234", s.host.ID)
	s.Require().NoError(err)
	s.Equal(1, session.CurrentQuestion)
	s.Equal(model.SessionStateInProgress, session.State)

	session, err = s.controller.AdvanceQuestion(s.ctx, "ABC234", s.host.ID)
	s.Require().NoError(err)
	s.Equal(2, session.CurrentQuestion)
	s.Equal(model.SessionStateFinished, session.State)

	_, err = s.controller.AdvanceQuestion(s.ctx, "ABC234", s.host.ID)
	s.ErrorIs(err, model.ErrSessionFinished)
}

func (s *ControllerSuite) TestAdvanceResetsAnsweredFlags() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "p1", "Alice")
	_, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)

	_, err = s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
	s.Require().NoError(err)

	s.advanceTimes("ABC234", 1)

	result, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 1)
	s.Require().NoError(err)
	s.True(result.Correct)
}

// SubmitAnswer tests

func (s *ControllerSuite) startedSessionWithPlayer() model.Player {
	s.createSession("ABC234", twoQuestionBank())
	player := s.join("ABC234", "p1", "Alice")
	_, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)
	return player
}

func (s *ControllerSuite) TestSubmitCorrectAnswer() {
	s.startedSessionWithPlayer()

	result, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
	s.Require().NoError(err)
	s.True(result.Correct)
	s.Equal(0, result.CorrectIndex)
	s.Equal(1000, result.Points)
	s.Equal(1000, result.NewScore)
}

func (s *ControllerSuite) TestSubmitIncorrectAnswer() {
	s.startedSessionWithPlayer()

	result, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 2)
	s.Require().NoError(err)
	s.False(result.Correct)
	s.Equal(0, result.CorrectIndex)
	s.Equal(0, result.Points)
	s.Equal(0, result.NewScore)
}

func (s *ControllerSuite) TestSubmitSlowerAnswerScoresLess() {
	s.startedSessionWithPlayer()
	s.clock.Advance(15 * time.Second)

	result, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
	s.Require().NoError(err)
	s.True(result.Correct)
	s.Equal(550, result.Points)
}

func (s *ControllerSuite) TestSubmitDuplicateRejected() {
	s.startedSessionWithPlayer()

	first, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
	s.Require().NoError(err)

	_, err = s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
	s.ErrorIs(err, model.ErrAlreadyAnswered)

	scores, err := s.controller.GetScores(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Require().Len(scores.Entries, 1)
	s.Equal(first.NewScore, scores.Entries[0].Score)
}

func (s *ControllerSuite) TestSubmitIncorrectStillMarksAnswered() {
	s.startedSessionWithPlayer()

	_, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 3)
	s.Require().NoError(err)

	_, err = s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
	s.ErrorIs(err, model.ErrAlreadyAnswered)
}

func (s *ControllerSuite) TestSubmitUnknownPlayer() {
	s.createSession("ABC234", twoQuestionBank())
	_, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)

	_, err = s.controller.SubmitAnswer(s.ctx, "ABC234", "ghost", 0)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestSubmitInLobby() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "p1", "Alice")

	_, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
	s.ErrorIs(err, model.ErrNoActiveQuestion)
}

func (s *ControllerSuite) TestSubmitAfterFinish() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "p1", "Alice")
	s.advanceTimes("ABC234", 2)

	_, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
	s.ErrorIs(err, model.ErrSessionFinished)
}

// GetScores tests

func (s *ControllerSuite) TestScoresTwoRoundGame() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "alice", "Alice")
	s.join("ABC234", "bob", "Bob")
	_, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)

	// Round one: Alice correct, Bob wrong
	result, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "alice", 0)
	s.Require().NoError(err)
	s.True(result.Correct)
	s.Greater(result.NewScore, 0)

	result, err = s.controller.SubmitAnswer(s.ctx, "ABC234", "bob", 2)
	s.Require().NoError(err)
	s.False(result.Correct)
	s.Equal(0, result.NewScore)

	s.advanceTimes("ABC234", 1)

	// Round two: Alice correct again
	result, err = s.controller.SubmitAnswer(s.ctx, "ABC234", "alice", 1)
	s.Require().NoError(err)
	s.True(result.Correct)

	scores, err := s.controller.GetScores(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Require().Len(scores.Entries, 2)
	s.Equal(model.PlayerID("alice"), scores.Entries[0].PlayerID)
	s.Equal(model.PlayerID("bob"), scores.Entries[1].PlayerID)
	s.Greater(scores.Entries[0].Score, scores.Entries[1].Score)
	s.Equal(1, scores.CurrentQuestion)
	s.Equal(2, scores.TotalQuestions)
}

func (s *ControllerSuite) TestScoresTiesKeepJoinOrder() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "alice", "Alice")
	s.join("ABC234", "bob", "Bob")

	scores, err := s.controller.GetScores(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Require().Len(scores.Entries, 2)
	s.Equal(model.PlayerID("alice"), scores.Entries[0].PlayerID)
	s.Equal(model.PlayerID("bob"), scores.Entries[1].PlayerID)

	again, err := s.controller.GetScores(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(scores.Entries, again.Entries)
}

// Question (host review) tests

func (s *ControllerSuite) TestQuestionHostReview() {
	s.createSession("ABC234", twoQuestionBank())

	q, err := s.controller.Question(s.ctx, "ABC234", s.host.ID, 1)
	s.Require().NoError(err)
	s.Equal("3+3?", q.Text)
	s.Equal(1, q.CorrectIndex)
}

func (s *ControllerSuite) TestQuestionNonHost() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "p1", "Alice")

	_, err := s.controller.Question(s.ctx, "ABC234", "p1", 0)
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ControllerSuite) TestQuestionIndexOutOfRange() {
	s.createSession("ABC234", twoQuestionBank())

	_, err := s.controller.Question(s.ctx, "ABC234", s.host.ID, 2)
	s.ErrorIs(err, model.ErrQuestionOutOfRange)

	_, err = s.controller.Question(s.ctx, "ABC234", s.host.ID, -1)
	s.ErrorIs(err, model.ErrQuestionOutOfRange)
}

// EndSession tests

func (s *ControllerSuite) TestEndSession() {
	s.createSession("ABC234", twoQuestionBank())

	err := s.controller.EndSession(s.ctx, "ABC234", s.host.ID)
	s.Require().NoError(err)

	_, err = s.controller.GetSession(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestEndSessionNonHost() {
	s.createSession("ABC234", twoQuestionBank())
	s.join("ABC234", "p1", "Alice")

	err := s.controller.EndSession(s.ctx, "ABC234", "p1")
	s.ErrorIs(err, model.ErrNotHost)
}

// Concurrency tests

func (s *ControllerSuite) TestConcurrentDuplicateSubmissionsScoreOnce() {
	s.startedSessionWithPlayer()

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	duplicates := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.controller.SubmitAnswer(s.ctx, "ABC234", "p1", 0)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			default:
				s.ErrorIs(err, model.ErrAlreadyAnswered)
				duplicates++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(attempts-1, duplicates)

	scores, err := s.controller.GetScores(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Require().Len(scores.Entries, 1)
	s.Equal(1000, scores.Entries[0].Score)
}

func (s *ControllerSuite) TestConcurrentDistinctPlayersAllScored() {
	s.createSession("ABC234", twoQuestionBank())
	players := []string{"p1", "p2", "p3", "p4", "p5"}
	names := []string{"A", "B", "C", "D", "E"}
	for i, id := range players {
		s.join("ABC234", id, names[i])
	}
	_, err := s.controller.CurrentQuestion(s.ctx, "ABC234")
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for _, id := range players {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.controller.SubmitAnswer(s.ctx, "ABC234", model.PlayerID(id), 0)
			s.NoError(err)
		}(id)
	}
	wg.Wait()

	scores, err := s.controller.GetScores(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Require().Len(scores.Entries, len(players))
	for _, entry := range scores.Entries {
		s.Equal(1000, entry.Score)
	}
}
