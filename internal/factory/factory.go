package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/quizrally/quizrally-go/internal/dependencies/clock"
	"github.com/quizrally/quizrally-go/internal/dependencies/random"
	"github.com/quizrally/quizrally-go/internal/services/auth"
	"github.com/quizrally/quizrally-go/internal/services/question"
	"github.com/quizrally/quizrally-go/internal/services/scoring"
	"github.com/quizrally/quizrally-go/internal/services/session"
	"github.com/quizrally/quizrally-go/internal/sse"
	"github.com/quizrally/quizrally-go/internal/storage"
	"github.com/quizrally/quizrally-go/internal/storage/memory"
	redisstorage "github.com/quizrally/quizrally-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	QuestionService   *question.Service
	ScoringService    *scoring.Service
	SessionController *session.Controller
	AuthService       *auth.Service
	HubManager        *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// QuestionDir is a directory of question set files (optional)
	// If empty, the builtin question sets are used
	QuestionDir string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// ScoringConfig holds scoring parameters (optional)
	// If zero value, defaults to scoring.DefaultConfig()
	ScoringConfig scoring.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Question source: filesystem sets when a directory is configured,
	// builtin sets otherwise
	var source question.Source
	if cfg.QuestionDir != "" {
		source = question.NewFileSource(cfg.QuestionDir)
	} else {
		source = question.NewStaticSource()
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.TokenDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	scoringCfg := cfg.ScoringConfig
	if scoringCfg.BasePoints == 0 {
		scoringCfg = scoring.DefaultConfig()
	}

	return newWithDependencies(store, source, clk, rnd, authCfg, scoringCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, source question.Source, clk clock.Clock, rnd random.Random, authCfg auth.Config, scoringCfg scoring.Config, logger *slog.Logger) *App {
	// Create services
	questionService := question.New(store, source, rnd)
	scoringService := scoring.New(scoringCfg)
	sessionController := session.NewController(store, questionService, scoringService, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg)
	hubManager := sse.NewHubManager(logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		QuestionService:   questionService,
		ScoringService:    scoringService,
		SessionController: sessionController,
		AuthService:       authService,
		HubManager:        hubManager,
	}
}
