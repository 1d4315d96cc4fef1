package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quizrally/quizrally-go/internal/api/handler"
	"github.com/quizrally/quizrally-go/internal/api/middleware"
	"github.com/quizrally/quizrally-go/internal/services/auth"
	"github.com/quizrally/quizrally-go/internal/services/scoring"
	"github.com/quizrally/quizrally-go/internal/services/session"
	"github.com/quizrally/quizrally-go/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	SessionController session.ControllerInterface
	ScoringService    scoring.ServiceInterface
	HubManager        *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.ScoringService, cfg.HubManager, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Session routes (all require auth)
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{code}", sessionHandler.End).Methods(http.MethodDelete)
	sessions.HandleFunc("/{code}/join", sessionHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/question", sessionHandler.CurrentQuestion).Methods(http.MethodGet)
	sessions.HandleFunc("/{code}/questions/{index}", sessionHandler.GetQuestion).Methods(http.MethodGet)
	sessions.HandleFunc("/{code}/advance", sessionHandler.Advance).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/answer", sessionHandler.SubmitAnswer).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/scores", sessionHandler.GetScores).Methods(http.MethodGet)
	sessions.HandleFunc("/{code}/events", sessionHandler.Events).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
