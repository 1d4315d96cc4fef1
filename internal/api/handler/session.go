package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/quizrally/quizrally-go/internal/api/middleware"
	"github.com/quizrally/quizrally-go/internal/api/request"
	"github.com/quizrally/quizrally-go/internal/api/response"
	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/services/scoring"
	"github.com/quizrally/quizrally-go/internal/services/session"
	"github.com/quizrally/quizrally-go/internal/sse"
)

// SessionHandler handles quiz session endpoints
type SessionHandler struct {
	sessionController session.ControllerInterface
	scoringService    scoring.ServiceInterface
	hubManager        *sse.HubManager
	broadcaster       *sse.Broadcaster
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionController session.ControllerInterface, scoringService scoring.ServiceInterface, hubManager *sse.HubManager, logger *slog.Logger) *SessionHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &SessionHandler{
		sessionController: sessionController,
		scoringService:    scoringService,
		hubManager:        hubManager,
		broadcaster:       broadcaster,
	}
}

// getBroadcaster returns the broadcaster if available
func (h *SessionHandler) getBroadcaster() *sse.Broadcaster {
	return h.broadcaster
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for a default drawn bank
		req = request.CreateSessionRequest{}
	}

	opts := session.CreateOptions{
		SetName: req.SetName,
		Count:   req.Count,
	}
	for _, q := range req.Questions {
		opts.Questions = append(opts.Questions, model.Question{
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			TimeLimit:    q.TimeLimit,
		})
	}

	sess, err := h.sessionController.CreateSession(r.Context(), *player, opts)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// Get handles GET /api/v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.sessionController.GetSession(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Join handles POST /api/v1/sessions/{code}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.sessionController.JoinSession(r.Context(), code, *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.PlayerJoined(sess, *player)
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// CurrentQuestion handles GET /api/v1/sessions/{code}/question
func (h *SessionHandler) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	view, err := h.sessionController.CurrentQuestion(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionFromView(view))
}

// GetQuestion handles GET /api/v1/sessions/{code}/questions/{index}
// Host review of any question in the bank, correct index included
func (h *SessionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)
	code := model.SessionCode(vars["code"])

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("index must be an integer"))
		return
	}

	question, err := h.sessionController.Question(r.Context(), code, player.ID, index)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HostQuestionFromModel(question))
}

// Advance handles POST /api/v1/sessions/{code}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.sessionController.AdvanceQuestion(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.QuestionAdvanced(sess)
		scores := h.scoringService.Leaderboard(sess)
		if sess.State == model.SessionStateFinished {
			winner := h.scoringService.DetermineWinner(scores)
			b.SessionFinished(sess.Code, scores, winner)
		} else {
			b.LeaderboardUpdated(sess.Code, scores)
		}
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// SubmitAnswer handles POST /api/v1/sessions/{code}/answer
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Answer == nil {
		WriteError(w, NewInvalidRequestError("answer is required"))
		return
	}

	result, err := h.sessionController.SubmitAnswer(r.Context(), code, player.ID, *req.Answer)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		if sess, err := h.sessionController.GetSession(r.Context(), code); err == nil {
			b.AnswerSubmitted(sess, player.ID)
		}
	}

	response.JSON(w, http.StatusOK, response.AnswerFromResult(result))
}

// GetScores handles GET /api/v1/sessions/{code}/scores
func (h *SessionHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	scores, err := h.sessionController.GetScores(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoresFromSnapshot(scores))
}

// End handles DELETE /api/v1/sessions/{code}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	if err := h.sessionController.EndSession(r.Context(), code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.SessionEnded(code, "ended by host")
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/sessions/{code}/events
// Streams session events over SSE
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	// The session must exist before a hub is created for it
	if _, err := h.sessionController.GetSession(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, player.ID)
}
