// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/campuswell/psychtool/internal/model"
)

// UserRepository is the user directory keyed by the provider identifier.
type UserRepository interface {
	// Upsert inserts or updates the user row for profile's provider id.
	// Mutable profile fields are overwritten; the admin flag and creation
	// timestamp are never touched by this path.
	Upsert(ctx context.Context, u model.NewUser) (*model.User, error)
	// GetByID loads a user by local id.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// SetRoleByEmail flips the admin flag; this is the out-of-band
	// administrative action and the only writer of the role.
	SetRoleByEmail(ctx context.Context, email string, role model.Role) error
}
