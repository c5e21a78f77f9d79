package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campuswell/psychtool/internal/errs"
	"github.com/campuswell/psychtool/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, name, email, phone_number, provider_id, display_picture, created_at, is_admin`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var isAdmin *bool
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.ProviderID, &u.DisplayPicture, &u.CreatedAt, &isAdmin)
	if err != nil {
		return nil, err
	}
	u.Role = model.RoleFromFlag(isAdmin)
	return &u, nil
}

// Upsert atomically inserts or updates the row for u.ProviderID. The conflict
// target is the unique provider_id, so two concurrent logins for the same
// identity never create a duplicate row. is_admin and created_at are outside
// the update set.
func (r *UserRepo) Upsert(ctx context.Context, u model.NewUser) (*model.User, error) {
	const q = `
INSERT INTO users (name, email, phone_number, provider_id, display_picture)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (provider_id) DO UPDATE
SET name=EXCLUDED.name, email=EXCLUDED.email, phone_number=EXCLUDED.phone_number, display_picture=EXCLUDED.display_picture
RETURNING ` + userColumns
	row := r.db.Pool.QueryRow(ctx, q, u.Name, u.Email, u.PhoneNumber, u.ProviderID, u.DisplayPicture)
	return scanUser(row)
}

// GetByID selects a user by local id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	u, err := scanUser(r.db.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return u, nil
}

// SetRoleByEmail updates the admin flag for the user with the given email.
// email is not unique across provider accounts, so the update is wrapped in a
// transaction and rolled back if it would change more than one row.
func (r *UserRepo) SetRoleByEmail(ctx context.Context, email string, role model.Role) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `UPDATE users SET is_admin=$2 WHERE email=$1`
	tag, err := tx.Exec(ctx, q, email, role.IsAdmin())
	if err != nil {
		return err
	}
	switch n := tag.RowsAffected(); {
	case n == 0:
		return errs.ErrNotFound
	case n > 1:
		return fmt.Errorf("email %s matches %d users, refusing role change", email, n)
	}

	return tx.Commit(ctx)
}
