package model

import "fmt"

// QuestionID uniquely identifies a question within a session
type QuestionID string

// Question is a single multiple-choice question
type Question struct {
	ID           QuestionID
	Text         string
	Options      []string
	CorrectIndex int // index into Options, never exposed before review
	TimeLimit    int // seconds allotted for answering
}

// Validate checks the structural invariants of a question
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("%w: empty question text", ErrInvalidQuestion)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question needs at least two options, got %d", ErrInvalidQuestion, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: correct index %d out of range for %d options", ErrInvalidQuestion, q.CorrectIndex, len(q.Options))
	}
	if q.TimeLimit <= 0 {
		return fmt.Errorf("%w: time limit must be positive, got %d", ErrInvalidQuestion, q.TimeLimit)
	}
	return nil
}

// QuestionSet is a named pool of questions sessions draw from
type QuestionSet struct {
	Name      string
	Questions []Question
}

// Validate checks every question in the set
func (s *QuestionSet) Validate() error {
	if len(s.Questions) == 0 {
		return fmt.Errorf("%w: question set %q is empty", ErrInvalidQuestion, s.Name)
	}
	for i := range s.Questions {
		if err := s.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
