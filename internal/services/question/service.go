package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/quizrally/quizrally-go/internal/dependencies/random"
	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/storage"
)

// Service validates question banks and serves question sets,
// caching source loads in storage
type Service struct {
	storage storage.Storage
	source  Source
	random  random.Random

	// group deduplicates concurrent loads of the same set
	group singleflight.Group
}

// New creates a new QuestionService
func New(storage storage.Storage, source Source, random random.Random) *Service {
	return &Service{
		storage: storage,
		source:  source,
		random:  random,
	}
}

// GetSet returns the named question set, loading from the source and
// caching in storage on a miss. Concurrent misses for the same name
// collapse into one source load.
func (s *Service) GetSet(ctx context.Context, name string) (*model.QuestionSet, error) {
	set, err := s.storage.GetQuestionSet(ctx, name)
	if err == nil {
		return set, nil
	}
	if !errors.Is(err, model.ErrQuestionSetNotFound) {
		return nil, err
	}

	result, err, _ := s.group.Do(name, func() (any, error) {
		loaded, err := s.source.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		if err := s.storage.SaveQuestionSet(ctx, loaded); err != nil {
			return nil, err
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*model.QuestionSet), nil
}

// Draw picks count questions at random, without replacement, from the
// named set. The drawn order becomes the session's fixed question order.
func (s *Service) Draw(ctx context.Context, name string, count int) ([]model.Question, error) {
	set, err := s.GetSet(ctx, name)
	if err != nil {
		return nil, err
	}

	if count <= 0 {
		return nil, fmt.Errorf("%w: draw count must be positive, got %d", model.ErrInvalidQuestion, count)
	}
	if count > len(set.Questions) {
		return nil, fmt.Errorf("%w: want %d, set %q has %d", model.ErrNotEnoughQuestions, count, name, len(set.Questions))
	}

	// Partial Fisher-Yates over a copy of the pool
	pool := make([]model.Question, len(set.Questions))
	copy(pool, set.Questions)
	for i := 0; i < count; i++ {
		j := i + s.random.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return s.Build(pool[:count])
}

// Build validates a caller-supplied question list and returns the
// session's question bank. Questions without IDs get fresh ones.
// The input order is preserved.
func (s *Service) Build(questions []model.Question) ([]model.Question, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: session needs at least one question", model.ErrInvalidQuestion)
	}

	bank := make([]model.Question, len(questions))
	copy(bank, questions)
	for i := range bank {
		if bank[i].TimeLimit == 0 {
			bank[i].TimeLimit = DefaultTimeLimit
		}
		if err := bank[i].Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if bank[i].ID == "" {
			bank[i].ID = model.QuestionID(uuid.NewString())
		}
	}

	return bank, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	GetSet(ctx context.Context, name string) (*model.QuestionSet, error)
	Draw(ctx context.Context, name string, count int) ([]model.Question, error)
	Build(questions []model.Question) ([]model.Question, error)
}

var _ ServiceInterface = (*Service)(nil)
