package question

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/quizrally/quizrally-go/internal/model"
)

// Source supplies question sets by name. Implementations include the
// built-in static set, JSON files on disk, and external generators;
// the service validates whatever a source returns before use.
type Source interface {
	Load(ctx context.Context, name string) (*model.QuestionSet, error)
}

// DefaultSetName is the set sessions draw from when none is specified
const DefaultSetName = "general"

// StaticSource serves question sets from memory
type StaticSource struct {
	mu   sync.RWMutex
	sets map[string]*model.QuestionSet
}

// NewStaticSource creates a StaticSource preloaded with the built-in
// general knowledge set
func NewStaticSource() *StaticSource {
	s := &StaticSource{
		sets: make(map[string]*model.QuestionSet),
	}
	s.Register(builtinGeneralSet())
	return s
}

// Register adds or replaces a set
func (s *StaticSource) Register(set *model.QuestionSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[set.Name] = set
}

// Load returns the named set
func (s *StaticSource) Load(ctx context.Context, name string) (*model.QuestionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[name]
	if !ok {
		return nil, model.ErrQuestionSetNotFound
	}
	return set, nil
}

var _ Source = (*StaticSource)(nil)

// FileSource loads question sets from JSON files in a directory,
// one file per set named <set>.json
type FileSource struct {
	dir string
}

// NewFileSource creates a FileSource rooted at the given directory
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// fileQuestion is the on-disk question shape
type fileQuestion struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	TimeLimit    int      `json:"time_limit"`
}

// Load reads and parses <dir>/<name>.json
func (s *FileSource) Load(ctx context.Context, name string) (*model.QuestionSet, error) {
	path := filepath.Join(s.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrQuestionSetNotFound
		}
		return nil, err
	}

	var fileQuestions []fileQuestion
	if err := json.Unmarshal(data, &fileQuestions); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", model.ErrInvalidQuestion, path, err)
	}

	set := &model.QuestionSet{Name: name}
	for _, fq := range fileQuestions {
		q := model.Question{
			ID:           model.QuestionID(fq.ID),
			Text:         fq.Text,
			Options:      fq.Options,
			CorrectIndex: fq.CorrectIndex,
			TimeLimit:    fq.TimeLimit,
		}
		if q.TimeLimit == 0 {
			q.TimeLimit = DefaultTimeLimit
		}
		set.Questions = append(set.Questions, q)
	}

	return set, nil
}

var _ Source = (*FileSource)(nil)

// DefaultTimeLimit is the answering window applied when a source
// doesn't specify one
const DefaultTimeLimit = 30

func builtinGeneralSet() *model.QuestionSet {
	return &model.QuestionSet{
		Name: DefaultSetName,
		Questions: []model.Question{
			{
				ID:           "gen-1",
				Text:         "What is the capital of France?",
				Options:      []string{"London", "Paris", "Berlin", "Madrid"},
				CorrectIndex: 1,
				TimeLimit:    DefaultTimeLimit,
			},
			{
				ID:           "gen-2",
				Text:         "Which planet is known as the Red Planet?",
				Options:      []string{"Venus", "Jupiter", "Mars", "Saturn"},
				CorrectIndex: 2,
				TimeLimit:    DefaultTimeLimit,
			},
			{
				ID:           "gen-3",
				Text:         "What is the largest ocean on Earth?",
				Options:      []string{"Atlantic", "Indian", "Arctic", "Pacific"},
				CorrectIndex: 3,
				TimeLimit:    DefaultTimeLimit,
			},
			{
				ID:           "gen-4",
				Text:         "Who painted the Mona Lisa?",
				Options:      []string{"Van Gogh", "Leonardo da Vinci", "Picasso", "Michelangelo"},
				CorrectIndex: 1,
				TimeLimit:    DefaultTimeLimit,
			},
			{
				ID:           "gen-5",
				Text:         "What is the chemical symbol for gold?",
				Options:      []string{"Go", "Gd", "Au", "Ag"},
				CorrectIndex: 2,
				TimeLimit:    DefaultTimeLimit,
			},
			{
				ID:           "gen-6",
				Text:         "How many continents are there?",
				Options:      []string{"Five", "Six", "Seven", "Eight"},
				CorrectIndex: 2,
				TimeLimit:    DefaultTimeLimit,
			},
			{
				ID:           "gen-7",
				Text:         "In which year did World War II end?",
				Options:      []string{"1943", "1944", "1945", "1946"},
				CorrectIndex: 2,
				TimeLimit:    DefaultTimeLimit,
			},
			{
				ID:           "gen-8",
				Text:         "What is the smallest prime number?",
				Options:      []string{"0", "1", "2", "3"},
				CorrectIndex: 2,
				TimeLimit:    DefaultTimeLimit,
			},
		},
	}
}
