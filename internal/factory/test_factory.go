package factory

import (
	"time"

	"github.com/quizrally/quizrally-go/internal/dependencies/mocks"
	"github.com/quizrally/quizrally-go/internal/services/auth"
	"github.com/quizrally/quizrally-go/internal/services/question"
	"github.com/quizrally/quizrally-go/internal/services/scoring"
	"github.com/quizrally/quizrally-go/internal/storage/memory"
	"github.com/quizrally/quizrally-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, question.NewStaticSource(), mockClock, mockRandom, auth.DefaultConfig(), scoring.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
