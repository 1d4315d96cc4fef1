package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizrally/quizrally-go/internal/dependencies/clock"
	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username already exists")
)

// Token represents an authenticated bearer token. Host authority over a
// quiz session derives from the PlayerID this token proves.
type Token struct {
	Value     string
	PlayerID  model.PlayerID
	Player    model.Player
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles authentication and token management
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	mu     sync.RWMutex
	tokens map[string]*Token

	tokenDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	TokenDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}
	return &Service{
		storage:       storage,
		clock:         clock,
		tokens:        make(map[string]*Token),
		tokenDuration: cfg.TokenDuration,
	}
}

// CreateGuestPlayer creates an anonymous player and token
func (s *Service) CreateGuestPlayer(ctx context.Context, displayName string) (*Token, error) {
	now := s.clock.Now()

	player := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	return s.issueToken(player)
}

// RegisterPlayer creates a registered player account and token
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Token, error) {
	// Check if username exists
	_, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	player := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: displayName,
		IsGuest:     false,
		CreatedAt:   now,
	}

	registeredPlayer := &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err := s.storage.SaveRegisteredPlayer(ctx, registeredPlayer); err != nil {
		return nil, err
	}

	return s.issueToken(player)
}

// Login authenticates a registered player and issues a token
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	rp, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, err
	}

	return s.issueToken(player)
}

// ValidateToken checks a bearer token and returns its record
func (s *Service) ValidateToken(value string) (*Token, error) {
	s.mu.RLock()
	token, ok := s.tokens[value]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidToken
	}

	if s.clock.Now().After(token.ExpiresAt) {
		s.mu.Lock()
		delete(s.tokens, value)
		s.mu.Unlock()
		return nil, ErrInvalidToken
	}

	return token, nil
}

// InvalidateToken removes a token
func (s *Service) InvalidateToken(value string) {
	s.mu.Lock()
	delete(s.tokens, value)
	s.mu.Unlock()
}

// GetPlayer returns the player for a bearer token
func (s *Service) GetPlayer(value string) (*model.Player, error) {
	token, err := s.ValidateToken(value)
	if err != nil {
		return nil, err
	}
	return &token.Player, nil
}

// issueToken mints a new token for a player
func (s *Service) issueToken(player *model.Player) (*Token, error) {
	now := s.clock.Now()

	token := &Token{
		Value:     generateTokenValue(),
		PlayerID:  player.ID,
		Player:    *player,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenDuration),
	}

	s.mu.Lock()
	s.tokens[token.Value] = token
	s.mu.Unlock()

	return token, nil
}

// generateTokenValue generates an opaque bearer token value
func generateTokenValue() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "tok_" + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredTokens removes expired tokens (call periodically)
func (s *Service) CleanExpiredTokens() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for value, token := range s.tokens {
		if now.After(token.ExpiresAt) {
			delete(s.tokens, value)
		}
	}
}
