package repository

import (
	"context"

	"github.com/campuswell/psychtool/internal/model"
)

// TestRepository stores psychometric tests and their questions.
type TestRepository interface {
	// Create inserts a new test.
	Create(ctx context.Context, t model.NewPsychTest) (*model.PsychTest, error)
	// Get loads a test by id.
	Get(ctx context.Context, id int64) (*model.PsychTest, error)
	// List returns all tests.
	List(ctx context.Context) ([]model.PsychTest, error)
	// Update applies a partial update; nil fields keep their stored values.
	Update(ctx context.Context, id int64, upd model.UpdatePsychTest) (*model.PsychTest, error)

	// AddQuestions inserts a batch of questions for one test.
	AddQuestions(ctx context.Context, qs []model.NewQuestion) ([]model.Question, error)
	// ListQuestions returns a test's questions.
	ListQuestions(ctx context.Context, testID int64) ([]model.Question, error)
	// DeleteQuestion removes one question of a test.
	DeleteQuestion(ctx context.Context, testID, questionID int64) error
}
