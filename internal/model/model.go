// Package model defines domain entities used by services and repositories.
package model

import "time"

// Role is the closed set of access tiers. Absence of elevation is a value,
// not a missing field.
type Role string

const (
	// RoleStandard is an ordinary authenticated user.
	RoleStandard Role = "standard"
	// RoleAdmin is an elevated user; settable only out-of-band, never via login.
	RoleAdmin Role = "admin"
)

// IsAdmin reports whether the role carries admin access.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// RoleFromFlag maps the nullable is_admin column onto the closed role set.
// NULL and false both mean standard.
func RoleFromFlag(isAdmin *bool) Role {
	if isAdmin != nil && *isAdmin {
		return RoleAdmin
	}
	return RoleStandard
}

// User is a local identity record backed by the external identity provider.
type User struct {
	ID             int64     `json:"id"`              // assigned by the directory, stable once created
	Name           string    `json:"name"`            // display name from the provider
	Email          string    `json:"email"`           // institutional email
	PhoneNumber    *string   `json:"phone_number"`    // optional
	ProviderID     int64     `json:"provider_id"`     // stable provider key, unique, upsert natural key
	DisplayPicture *string   `json:"display_picture"` // optional
	CreatedAt      time.Time `json:"-"`               // immutable, never serialized
	Role           Role      `json:"role"`
}

// NewUser carries the mutable profile fields written by the upsert path.
// The role and creation timestamp are never part of it.
type NewUser struct {
	Name           string
	Email          string
	PhoneNumber    *string
	ProviderID     int64
	DisplayPicture *string
}

// ProviderProfile is the fixed profile schema fetched from the identity provider.
type ProviderProfile struct {
	UserID         int64  // provider's stable identifier
	FullName       string
	DisplayPicture string
	Email          string
	PhoneNumber    string
}

// NewUserFromProfile maps provider profile data onto the local schema.
// Empty phone/picture strings normalize to absent, not empty-string.
func NewUserFromProfile(p ProviderProfile) NewUser {
	u := NewUser{
		Name:       p.FullName,
		Email:      p.Email,
		ProviderID: p.UserID,
	}
	if p.PhoneNumber != "" {
		u.PhoneNumber = &p.PhoneNumber
	}
	if p.DisplayPicture != "" {
		u.DisplayPicture = &p.DisplayPicture
	}
	return u
}

// PsychTest is a psychometric test with its scoring tables.
type PsychTest struct {
	ID                   int64             `json:"id"`
	Name                 string            `json:"name"`
	Description          *string           `json:"description"`
	Instructions         *string           `json:"instructions"`
	Logo                 *string           `json:"logo"`
	PointsReference      map[int16]string  `json:"points_reference"`
	PointsInterpretation map[string]string `json:"points_interpretation"` // "lo-hi" -> text
}

// NewPsychTest is the payload for creating a test.
type NewPsychTest struct {
	Name                 string
	Description          *string
	Instructions         *string
	Logo                 *string
	PointsReference      map[int16]string
	PointsInterpretation map[string]string
}

// UpdatePsychTest is a partial update; nil fields are left untouched.
type UpdatePsychTest struct {
	Name                 *string
	Description          *string
	Instructions         *string
	Logo                 *string
	PointsReference      map[int16]string
	PointsInterpretation map[string]string
}

// Question is a single test question.
type Question struct {
	ID     int64  `json:"id"`
	TestID int64  `json:"test_id"`
	Text   string `json:"text"`
}

// NewQuestion is the payload for adding a question to a test.
type NewQuestion struct {
	TestID int64
	Text   string
}
