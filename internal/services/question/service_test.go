package question

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quizrally/quizrally-go/internal/dependencies/mocks"
	"github.com/quizrally/quizrally-go/internal/model"
	"github.com/quizrally/quizrally-go/internal/storage/memory"
)

// countingSource wraps a Source and counts Load calls
type countingSource struct {
	inner Source
	loads int
}

func (s *countingSource) Load(ctx context.Context, name string) (*model.QuestionSet, error) {
	s.loads++
	return s.inner.Load(ctx, name)
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	source  *countingSource
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.source = &countingSource{inner: NewStaticSource()}
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.source, s.random)
	s.ctx = context.Background()
}

// GetSet tests

func (s *ServiceSuite) TestGetSetLoadsAndCaches() {
	set, err := s.service.GetSet(s.ctx, DefaultSetName)
	s.Require().NoError(err)
	s.Equal(DefaultSetName, set.Name)
	s.NotEmpty(set.Questions)
	s.Equal(1, s.source.loads)

	// Second call hits the storage cache
	_, err = s.service.GetSet(s.ctx, DefaultSetName)
	s.Require().NoError(err)
	s.Equal(1, s.source.loads)
}

func (s *ServiceSuite) TestGetSetUnknownName() {
	_, err := s.service.GetSet(s.ctx, "missing")
	s.ErrorIs(err, model.ErrQuestionSetNotFound)
}

func (s *ServiceSuite) TestGetSetRejectsInvalidSource() {
	static := NewStaticSource()
	static.Register(&model.QuestionSet{
		Name: "broken",
		Questions: []model.Question{
			{ID: "b1", Text: "Pick one", Options: []string{"only"}, CorrectIndex: 0, TimeLimit: 30},
		},
	})
	s.source.inner = static

	_, err := s.service.GetSet(s.ctx, "broken")
	s.ErrorIs(err, model.ErrInvalidQuestion)
}

// Draw tests

func (s *ServiceSuite) TestDrawReturnsRequestedCount() {
	// Mock random returns 0 for every Intn, so the draw keeps pool order
	questions, err := s.service.Draw(s.ctx, DefaultSetName, 3)
	s.Require().NoError(err)
	s.Require().Len(questions, 3)
	s.Equal(model.QuestionID("gen-1"), questions[0].ID)
	s.Equal(model.QuestionID("gen-2"), questions[1].ID)
	s.Equal(model.QuestionID("gen-3"), questions[2].ID)
}

func (s *ServiceSuite) TestDrawShufflesWithRandom() {
	s.random.QueueIntn(2, 0, 0)

	questions, err := s.service.Draw(s.ctx, DefaultSetName, 3)
	s.Require().NoError(err)
	s.Require().Len(questions, 3)
	s.Equal(model.QuestionID("gen-3"), questions[0].ID)
}

func (s *ServiceSuite) TestDrawTooMany() {
	_, err := s.service.Draw(s.ctx, DefaultSetName, 100)
	s.ErrorIs(err, model.ErrNotEnoughQuestions)
}

func (s *ServiceSuite) TestDrawNonPositiveCount() {
	_, err := s.service.Draw(s.ctx, DefaultSetName, 0)
	s.ErrorIs(err, model.ErrInvalidQuestion)
}

// Build tests

func (s *ServiceSuite) TestBuildValidBank() {
	bank, err := s.service.Build([]model.Question{
		{Text: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1, TimeLimit: 20},
		{Text: "3+3?", Options: []string{"5", "6"}, CorrectIndex: 1},
	})
	s.Require().NoError(err)
	s.Require().Len(bank, 2)
	s.NotEmpty(bank[0].ID)
	s.NotEmpty(bank[1].ID)
	s.NotEqual(bank[0].ID, bank[1].ID)
	s.Equal(DefaultTimeLimit, bank[1].TimeLimit)
}

func (s *ServiceSuite) TestBuildEmptyBank() {
	_, err := s.service.Build(nil)
	s.ErrorIs(err, model.ErrInvalidQuestion)
}

func (s *ServiceSuite) TestBuildRejectsEmptyOptions() {
	_, err := s.service.Build([]model.Question{
		{Text: "Pick", Options: nil, CorrectIndex: 0},
	})
	s.ErrorIs(err, model.ErrInvalidQuestion)
}

func (s *ServiceSuite) TestBuildRejectsCorrectIndexOutOfRange() {
	_, err := s.service.Build([]model.Question{
		{Text: "Pick", Options: []string{"a", "b"}, CorrectIndex: 2},
	})
	s.ErrorIs(err, model.ErrInvalidQuestion)

	_, err = s.service.Build([]model.Question{
		{Text: "Pick", Options: []string{"a", "b"}, CorrectIndex: -1},
	})
	s.ErrorIs(err, model.ErrInvalidQuestion)
}

func (s *ServiceSuite) TestBuildDoesNotMutateInput() {
	input := []model.Question{
		{Text: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1},
	}
	_, err := s.service.Build(input)
	s.Require().NoError(err)
	s.Empty(input[0].ID)
}

// FileSource tests

func (s *ServiceSuite) TestFileSourceLoad() {
	dir := s.T().TempDir()
	data := `[
		{"id": "f1", "text": "2+2?", "options": ["3", "4"], "correct_index": 1, "time_limit": 20},
		{"id": "f2", "text": "3+3?", "options": ["5", "6"], "correct_index": 1}
	]`
	err := os.WriteFile(filepath.Join(dir, "maths.json"), []byte(data), 0o644)
	s.Require().NoError(err)

	source := NewFileSource(dir)
	set, err := source.Load(s.ctx, "maths")
	s.Require().NoError(err)
	s.Equal("maths", set.Name)
	s.Require().Len(set.Questions, 2)
	s.Equal(20, set.Questions[0].TimeLimit)
	s.Equal(DefaultTimeLimit, set.Questions[1].TimeLimit)
}

func (s *ServiceSuite) TestFileSourceMissingFile() {
	source := NewFileSource(s.T().TempDir())
	_, err := source.Load(s.ctx, "nope")
	s.ErrorIs(err, model.ErrQuestionSetNotFound)
}

func (s *ServiceSuite) TestFileSourceMalformedJSON() {
	dir := s.T().TempDir()
	err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0o644)
	s.Require().NoError(err)

	source := NewFileSource(dir)
	_, err = source.Load(s.ctx, "bad")
	s.ErrorIs(err, model.ErrInvalidQuestion)
}
