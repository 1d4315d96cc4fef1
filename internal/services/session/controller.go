package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/quizrally/quizrally-go/internal/dependencies/clock"
	"github.com/quizrally/quizrally-go/internal/dependencies/random"
	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/services/question"
	"github.com/quizrally/quizrally-go/internal/services/scoring"
	"github.com/quizrally/quizrally-go/internal/storage"
)

const (
	// CodeLength is the length of generated session codes
	CodeLength = 6
	// CodeAlphabet is the characters used in session codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// DefaultDrawCount is how many questions a session draws when the
	// creator doesn't supply a bank
	DefaultDrawCount = 3
)

// CreateOptions configures a new session's question bank
type CreateOptions struct {
	// Questions is an explicit bank; takes precedence over SetName
	Questions []model.Question
	// SetName names the question set to draw from (default "general")
	SetName string
	// Count is how many questions to draw from the set
	Count int
}

// QuestionView is the player-facing shape of the current question.
// It never carries the correct index.
type QuestionView struct {
	ID             model.QuestionID
	Text           string
	Options        []string
	TimeLimit      int
	QuestionNumber int // 1-based
	TotalQuestions int
	Finished       bool
}

// SubmitResult is the outcome of an answer submission
type SubmitResult struct {
	Correct      bool
	CorrectIndex int
	Points       int
	NewScore     int
}

// Scores is a leaderboard snapshot with the session's progress
type Scores struct {
	Entries         []model.ScoreEntry
	CurrentQuestion int
	TotalQuestions  int
	State           model.SessionState
}

// Controller manages the session state machine: creation and lookup,
// joins, the question pointer and answer scoring
type Controller struct {
	storage         storage.Storage
	questionService question.ServiceInterface
	scoringService  scoring.ServiceInterface
	clock           clock.Clock
	random          random.Random
	logger          *slog.Logger

	// Per-session mutexes serialize mutations so the answered check and
	// the score commit are atomic with respect to concurrent submissions
	mu    sync.Mutex
	locks map[model.SessionCode]*sync.Mutex
}

// NewController creates a new SessionController
func NewController(
	storage storage.Storage,
	questionService question.ServiceInterface,
	scoringService scoring.ServiceInterface,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:         storage,
		questionService: questionService,
		scoringService:  scoringService,
		clock:           clock,
		random:          random,
		logger:          logger,
		locks:           make(map[model.SessionCode]*sync.Mutex),
	}
}

// sessionLock returns the mutex guarding the given session's mutations
func (c *Controller) sessionLock(code model.SessionCode) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[code]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[code] = lock
	}
	return lock
}

// releaseLock drops a deleted session's mutex
func (c *Controller) releaseLock(code model.SessionCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, code)
}

// CreateSession builds a question bank per the options and stores a new
// session in the lobby state with the given player as host
func (c *Controller) CreateSession(ctx context.Context, host model.Player, opts CreateOptions) (*model.Session, error) {
	var bank []model.Question
	var err error
	if len(opts.Questions) > 0 {
		bank, err = c.questionService.Build(opts.Questions)
	} else {
		setName := opts.SetName
		if setName == "" {
			setName = question.DefaultSetName
		}
		count := opts.Count
		if count <= 0 {
			count = DefaultDrawCount
		}
		bank, err = c.questionService.Draw(ctx, setName, count)
	}
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()

	// Generate unique session code
	var code model.SessionCode
	for {
		code = model.SessionCode(c.random.String(CodeLength, CodeAlphabet))
		exists, err := c.storage.SessionExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	session := &model.Session{
		Code:            code,
		State:           model.SessionStateLobby,
		HostID:          host.ID,
		Players:         []model.SessionPlayer{},
		Questions:       bank,
		CurrentQuestion: 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_code", string(code)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_code", string(code)),
		slog.String("host_id", string(host.ID)),
		slog.Int("question_count", len(bank)),
	)

	return session, nil
}

// GetSession retrieves a session by code
func (c *Controller) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	return c.storage.GetSession(ctx, code)
}

// JoinSession adds a player to a session. Joins are allowed in the lobby
// and mid-game; a finished session rejects them. Display names must be
// unique within the session. Joining twice with the same identity is a
// no-op returning the current session.
func (c *Controller) JoinSession(ctx context.Context, code model.SessionCode, player model.Player) (*model.Session, error) {
	lock := c.sessionLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.State == model.SessionStateFinished {
		return nil, model.ErrSessionFinished
	}

	if session.GetPlayer(player.ID) != nil {
		return session, nil
	}

	if session.HasDisplayName(player.DisplayName) {
		return nil, model.ErrNameTaken
	}

	session.Players = append(session.Players, model.SessionPlayer{
		Player:   player,
		Score:    0,
		Answered: false,
		JoinedAt: c.clock.Now(),
	})
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("player joined session",
		slog.String("session_code", string(code)),
		slog.String("player_id", string(player.ID)),
		slog.Int("player_count", len(session.Players)),
	)

	return session, nil
}

// CurrentQuestion returns the active question without the correct index.
// The first call on a lobby session starts the game. A finished session
// returns a view with only the finished marker set.
func (c *Controller) CurrentQuestion(ctx context.Context, code model.SessionCode) (*QuestionView, error) {
	lock := c.sessionLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.State == model.SessionStateLobby {
		if err := c.start(ctx, session); err != nil {
			return nil, err
		}
	}

	if session.State == model.SessionStateFinished {
		return &QuestionView{
			TotalQuestions: session.TotalQuestions(),
			Finished:       true,
		}, nil
	}

	q := session.ActiveQuestion()
	if q == nil {
		return nil, model.ErrNoActiveQuestion
	}

	return &QuestionView{
		ID:             q.ID,
		Text:           q.Text,
		Options:        q.Options,
		TimeLimit:      q.TimeLimit,
		QuestionNumber: session.CurrentQuestion + 1,
		TotalQuestions: session.TotalQuestions(),
	}, nil
}

// Question returns the full question at the given bank index, including
// the correct index. Host review only; never serve this to players.
func (c *Controller) Question(ctx context.Context, code model.SessionCode, requestingPlayer model.PlayerID, index int) (*model.Question, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.HostID != requestingPlayer {
		return nil, model.ErrNotHost
	}

	if index < 0 || index >= len(session.Questions) {
		return nil, model.ErrQuestionOutOfRange
	}

	q := session.Questions[index]
	return &q, nil
}

// AdvanceQuestion moves the question pointer forward. Host only.
// From the lobby it serves the first question; past the last question it
// finishes the session and resolves the winner.
func (c *Controller) AdvanceQuestion(ctx context.Context, code model.SessionCode, requestingPlayer model.PlayerID) (*model.Session, error) {
	lock := c.sessionLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.HostID != requestingPlayer {
		return nil, model.ErrNotHost
	}

	if session.State == model.SessionStateFinished {
		return nil, model.ErrSessionFinished
	}

	now := c.clock.Now()
	session.State = model.SessionStateInProgress
	session.CurrentQuestion++
	if session.CurrentQuestion >= session.TotalQuestions() {
		session.State = model.SessionStateFinished
	}
	session.ResetAnswered()
	session.QuestionStartedAt = now
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("question advanced",
		slog.String("session_code", string(session.Code)),
		slog.Int("current_question", session.CurrentQuestion),
		slog.String("state", string(session.State)),
	)

	return session, nil
}

// start serves the first question, moving a lobby session in progress.
// Callers hold the session lock.
func (c *Controller) start(ctx context.Context, session *model.Session) error {
	now := c.clock.Now()
	session.State = model.SessionStateInProgress
	session.QuestionStartedAt = now
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.logger.Info("session started",
		slog.String("session_code", string(session.Code)),
		slog.Int("player_count", len(session.Players)),
	)

	return nil
}

// SubmitAnswer scores a player's answer against the active question.
// At most one submission per player per question index is scored; the
// check and the score commit happen under the session lock so concurrent
// duplicates cannot double-credit.
func (c *Controller) SubmitAnswer(ctx context.Context, code model.SessionCode, playerID model.PlayerID, answerIndex int) (*SubmitResult, error) {
	lock := c.sessionLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.State == model.SessionStateFinished {
		return nil, model.ErrSessionFinished
	}

	q := session.ActiveQuestion()
	if q == nil {
		return nil, model.ErrNoActiveQuestion
	}

	player := session.GetPlayer(playerID)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}

	if player.Answered {
		return nil, model.ErrAlreadyAnswered
	}

	correct := answerIndex == q.CorrectIndex
	elapsed := c.clock.Now().Sub(session.QuestionStartedAt)
	points := c.scoringService.Points(correct, elapsed, q.TimeLimit)

	player.Answered = true
	player.Score += points
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("answer submitted",
		slog.String("session_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Bool("correct", correct),
		slog.Int("points", points),
	)

	return &SubmitResult{
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
		Points:       points,
		NewScore:     player.Score,
	}, nil
}

// GetScores returns a leaderboard snapshot sorted by descending score,
// ties broken by join order. The snapshot is taken under the session
// lock so it never observes a half-applied mutation.
func (c *Controller) GetScores(ctx context.Context, code model.SessionCode) (*Scores, error) {
	lock := c.sessionLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	return &Scores{
		Entries:         c.scoringService.Leaderboard(session),
		CurrentQuestion: session.CurrentQuestion,
		TotalQuestions:  session.TotalQuestions(),
		State:           session.State,
	}, nil
}

// EndSession tears a session down. Host only.
func (c *Controller) EndSession(ctx context.Context, code model.SessionCode, requestingPlayer model.PlayerID) error {
	lock := c.sessionLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return err
	}

	if session.HostID != requestingPlayer {
		return model.ErrNotHost
	}

	if err := c.storage.DeleteSession(ctx, code); err != nil {
		return err
	}

	c.releaseLock(code)

	c.logger.Info("session ended",
		slog.String("session_code", string(code)),
	)

	return nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, host model.Player, opts CreateOptions) (*model.Session, error)
	GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error)
	JoinSession(ctx context.Context, code model.SessionCode, player model.Player) (*model.Session, error)
	CurrentQuestion(ctx context.Context, code model.SessionCode) (*QuestionView, error)
	Question(ctx context.Context, code model.SessionCode, requestingPlayer model.PlayerID, index int) (*model.Question, error)
	AdvanceQuestion(ctx context.Context, code model.SessionCode, requestingPlayer model.PlayerID) (*model.Session, error)
	SubmitAnswer(ctx context.Context, code model.SessionCode, playerID model.PlayerID, answerIndex int) (*SubmitResult, error)
	GetScores(ctx context.Context, code model.SessionCode) (*Scores, error)
	EndSession(ctx context.Context, code model.SessionCode, requestingPlayer model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
