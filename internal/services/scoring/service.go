package scoring

import (
	"sort"
	"time"

	"github.com/quizrally/quizrally-go/internal/model"
)

// Config holds the scoring policy parameters
type Config struct {
	// BasePoints is awarded for an instant correct answer
	BasePoints int
	// MinPoints is the floor for any correct answer, however slow
	MinPoints int
}

// DefaultConfig returns the standard scoring policy
func DefaultConfig() Config {
	return Config{
		BasePoints: 1000,
		MinPoints:  100,
	}
}

// Service computes answer points and leaderboard snapshots
type Service struct {
	cfg Config
}

// New creates a new ScoringService
func New(cfg Config) *Service {
	return &Service{
		cfg: cfg,
	}
}

// Points returns the points awarded for an answer.
// Incorrect answers score zero. Correct answers score BasePoints scaled
// down linearly with elapsed time against the question's time limit,
// never below MinPoints. The result is deterministic and monotonically
// non-increasing in elapsed time.
func (s *Service) Points(correct bool, elapsed time.Duration, timeLimit int) int {
	if !correct {
		return 0
	}
	limit := time.Duration(timeLimit) * time.Second
	if elapsed <= 0 {
		return s.cfg.BasePoints
	}
	if elapsed >= limit {
		return s.cfg.MinPoints
	}

	span := s.cfg.BasePoints - s.cfg.MinPoints
	remaining := limit - elapsed
	points := s.cfg.MinPoints + int(int64(span)*int64(remaining)/int64(limit))
	return points
}

// Leaderboard returns score entries for the session's players sorted by
// descending score. Ties keep join order; the sort is stable so repeated
// calls over unchanged state yield identical output.
func (s *Service) Leaderboard(session *model.Session) []model.ScoreEntry {
	entries := make([]model.ScoreEntry, 0, len(session.Players))
	for _, p := range session.Players {
		entries = append(entries, model.ScoreEntry{
			PlayerID:    p.Player.ID,
			DisplayName: p.Player.DisplayName,
			Score:       p.Score,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return entries
}

// DetermineWinner returns the winner's PlayerID, or empty string if tie
func (s *Service) DetermineWinner(entries []model.ScoreEntry) model.PlayerID {
	if len(entries) == 0 {
		return ""
	}

	topScore := entries[0].Score
	tieCount := 0
	for _, e := range entries {
		if e.Score == topScore {
			tieCount++
		}
	}

	if tieCount > 1 {
		return "" // Tie
	}

	return entries[0].PlayerID
}

// Interface for dependency injection
type ServiceInterface interface {
	Points(correct bool, elapsed time.Duration, timeLimit int) int
	Leaderboard(session *model.Session) []model.ScoreEntry
	DetermineWinner(entries []model.ScoreEntry) model.PlayerID
}

var _ ServiceInterface = (*Service)(nil)
