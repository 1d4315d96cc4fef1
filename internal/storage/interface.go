package storage

import (
	"context"

	"github.com/quizrally/quizrally-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error)
	DeleteSession(ctx context.Context, code model.SessionCode) error
	SessionExists(ctx context.Context, code model.SessionCode) (bool, error)

	// Question set operations
	SaveQuestionSet(ctx context.Context, set *model.QuestionSet) error
	GetQuestionSet(ctx context.Context, name string) (*model.QuestionSet, error)
}
