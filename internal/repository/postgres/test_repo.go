package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campuswell/psychtool/internal/errs"
	"github.com/campuswell/psychtool/internal/model"
)

// TestRepo implements TestRepository using PostgreSQL. Scoring tables live in
// jsonb columns; they are passed as pre-marshaled text and cast in SQL so a
// nil map maps to SQL NULL (and COALESCE keeps the stored value).
type TestRepo struct{ db *DB }

// NewTestRepo constructs a test repository.
func NewTestRepo(db *DB) *TestRepo { return &TestRepo{db: db} }

const testColumns = `id, name, description, instructions, logo, points_reference, points_interpretation`

func scanTest(row pgx.Row) (*model.PsychTest, error) {
	var t model.PsychTest
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Instructions, &t.Logo, &t.PointsReference, &t.PointsInterpretation)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func marshalMap[K int16 | string](m map[K]string) (*string, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// Create inserts a new test row.
func (r *TestRepo) Create(ctx context.Context, t model.NewPsychTest) (*model.PsychTest, error) {
	ref, err := marshalMap(t.PointsReference)
	if err != nil {
		return nil, err
	}
	interp, err := marshalMap(t.PointsInterpretation)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO tests (name, description, instructions, logo, points_reference, points_interpretation)
VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb)
RETURNING ` + testColumns
	row := r.db.Pool.QueryRow(ctx, q, t.Name, t.Description, t.Instructions, t.Logo, ref, interp)
	return scanTest(row)
}

// Get selects a test by id.
func (r *TestRepo) Get(ctx context.Context, id int64) (*model.PsychTest, error) {
	const q = `SELECT ` + testColumns + ` FROM tests WHERE id=$1`
	t, err := scanTest(r.db.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return t, nil
}

// List returns all tests.
func (r *TestRepo) List(ctx context.Context) ([]model.PsychTest, error) {
	const q = `SELECT ` + testColumns + ` FROM tests ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PsychTest, 0)
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update applies a partial update; nil fields keep their stored values.
func (r *TestRepo) Update(ctx context.Context, id int64, upd model.UpdatePsychTest) (*model.PsychTest, error) {
	ref, err := marshalMap(upd.PointsReference)
	if err != nil {
		return nil, err
	}
	interp, err := marshalMap(upd.PointsInterpretation)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE tests SET
  name = COALESCE($2, name),
  description = COALESCE($3, description),
  instructions = COALESCE($4, instructions),
  logo = COALESCE($5, logo),
  points_reference = COALESCE($6::jsonb, points_reference),
  points_interpretation = COALESCE($7::jsonb, points_interpretation)
WHERE id=$1
RETURNING ` + testColumns
	row := r.db.Pool.QueryRow(ctx, q, id, upd.Name, upd.Description, upd.Instructions, upd.Logo, ref, interp)
	t, err := scanTest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// AddQuestions inserts the batch in one transaction so a partial batch never
// lands.
func (r *TestRepo) AddQuestions(ctx context.Context, qs []model.NewQuestion) ([]model.Question, error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `INSERT INTO questions (test_id, text) VALUES ($1, $2) RETURNING id, test_id, text`
	out := make([]model.Question, 0, len(qs))
	for _, nq := range qs {
		var qu model.Question
		if err := tx.QueryRow(ctx, q, nq.TestID, nq.Text).Scan(&qu.ID, &qu.TestID, &qu.Text); err != nil {
			if isForeignKeyViolation(err) {
				return nil, errs.ErrNotFound
			}
			return nil, err
		}
		out = append(out, qu)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// ListQuestions returns a test's questions ordered by id.
func (r *TestRepo) ListQuestions(ctx context.Context, testID int64) ([]model.Question, error) {
	const q = `SELECT id, test_id, text FROM questions WHERE test_id=$1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Question, 0)
	for rows.Next() {
		var qu model.Question
		if err := rows.Scan(&qu.ID, &qu.TestID, &qu.Text); err != nil {
			return nil, err
		}
		out = append(out, qu)
	}
	return out, rows.Err()
}

// DeleteQuestion removes one question scoped to its test.
func (r *TestRepo) DeleteQuestion(ctx context.Context, testID, questionID int64) error {
	const q = `DELETE FROM questions WHERE id=$2 AND test_id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, testID, questionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// isForeignKeyViolation reports whether the error is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23503"
}
