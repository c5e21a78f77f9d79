package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuswell/psychtool/internal/model"
	"github.com/campuswell/psychtool/internal/repository"
	"github.com/campuswell/psychtool/internal/score"
)

// ErrBadInterpretation rejects an interpretation table with a key that does
// not parse as "lo-hi". Checked at write time so evaluation never sees a
// malformed table through this path.
var ErrBadInterpretation = errors.New("invalid points interpretation format")

// ErrInvalidInput rejects malformed write payloads (empty names, empty
// question batches). Mapped to a client error at the edge, like
// ErrBadInterpretation.
var ErrInvalidInput = errors.New("invalid input")

// TestService manages psychometric tests, their questions, and score
// evaluation.
type TestService interface {
	Create(ctx context.Context, t model.NewPsychTest) (*model.PsychTest, error)
	Get(ctx context.Context, id int64) (*model.PsychTest, error)
	List(ctx context.Context) ([]model.PsychTest, error)
	Update(ctx context.Context, id int64, upd model.UpdatePsychTest) (*model.PsychTest, error)

	AddQuestions(ctx context.Context, testID int64, texts []string) ([]model.Question, error)
	ListQuestions(ctx context.Context, testID int64) ([]model.Question, error)
	DeleteQuestion(ctx context.Context, testID, questionID int64) error

	// Evaluate maps a score onto the test's interpretation table. A score
	// outside every range reports matched=false with a nil error; a stored
	// key failing to parse reports errs.ErrConfigCorrupt.
	Evaluate(ctx context.Context, testID int64, sc int) (string, bool, error)
}

type TestServiceImpl struct {
	tests repository.TestRepository
}

// NewTestService constructs TestService with required dependencies.
func NewTestService(tests repository.TestRepository) *TestServiceImpl {
	return &TestServiceImpl{tests: tests}
}

func validateInterpretation(table map[string]string) error {
	for k := range table {
		if !score.IsValidRange(k) {
			return fmt.Errorf("%w: %q", ErrBadInterpretation, k)
		}
	}
	return nil
}

// Create validates the interpretation table and stores the test.
func (s *TestServiceImpl) Create(ctx context.Context, t model.NewPsychTest) (*model.PsychTest, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("%w: empty test name", ErrInvalidInput)
	}
	if err := validateInterpretation(t.PointsInterpretation); err != nil {
		return nil, err
	}
	return s.tests.Create(ctx, t)
}

// Get loads a test by id.
func (s *TestServiceImpl) Get(ctx context.Context, id int64) (*model.PsychTest, error) {
	return s.tests.Get(ctx, id)
}

// List returns all tests.
func (s *TestServiceImpl) List(ctx context.Context) ([]model.PsychTest, error) {
	return s.tests.List(ctx)
}

// Update validates any replacement interpretation table and applies the
// partial update.
func (s *TestServiceImpl) Update(ctx context.Context, id int64, upd model.UpdatePsychTest) (*model.PsychTest, error) {
	if upd.PointsInterpretation != nil {
		if err := validateInterpretation(upd.PointsInterpretation); err != nil {
			return nil, err
		}
	}
	return s.tests.Update(ctx, id, upd)
}

// AddQuestions appends a batch of questions to a test.
func (s *TestServiceImpl) AddQuestions(ctx context.Context, testID int64, texts []string) ([]model.Question, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty question batch", ErrInvalidInput)
	}
	qs := make([]model.NewQuestion, 0, len(texts))
	for _, txt := range texts {
		if txt == "" {
			return nil, fmt.Errorf("%w: empty question text", ErrInvalidInput)
		}
		qs = append(qs, model.NewQuestion{TestID: testID, Text: txt})
	}
	return s.tests.AddQuestions(ctx, qs)
}

// ListQuestions returns a test's questions.
func (s *TestServiceImpl) ListQuestions(ctx context.Context, testID int64) ([]model.Question, error) {
	return s.tests.ListQuestions(ctx, testID)
}

// DeleteQuestion removes one question of a test.
func (s *TestServiceImpl) DeleteQuestion(ctx context.Context, testID, questionID int64) error {
	return s.tests.DeleteQuestion(ctx, testID, questionID)
}

// Evaluate loads the test and runs the interpretation engine against its
// stored table.
func (s *TestServiceImpl) Evaluate(ctx context.Context, testID int64, sc int) (string, bool, error) {
	t, err := s.tests.Get(ctx, testID)
	if err != nil {
		return "", false, err
	}
	return score.Evaluate(sc, t.PointsInterpretation)
}
