// Package service contains application services for authentication and tests.
package service

import (
	"context"

	"github.com/campuswell/psychtool/internal/errs"
	"github.com/campuswell/psychtool/internal/limiter"
	"github.com/campuswell/psychtool/internal/model"
	"github.com/campuswell/psychtool/internal/repository"
	"github.com/campuswell/psychtool/internal/session"
)

// ProviderClient abstracts the identity provider calls used by the login path.
type ProviderClient interface {
	// ExchangeCode trades an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (string, error)
	// FetchProfile loads the provider's profile payload for a token.
	FetchProfile(ctx context.Context, accessToken string) (model.ProviderProfile, error)
}

// AuthService defines the login path and session-backed user resolution.
type AuthService interface {
	// Login exchanges the code, upserts the user and issues a session
	// credential. Rate-limited per client address.
	Login(ctx context.Context, code, ip string) (*model.User, string, error)
	// GetUser resolves a user by the id embedded in a verified session.
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

type AuthServiceImpl struct {
	provider ProviderClient
	users    repository.UserRepository
	sessions *session.Manager
	lim      limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(provider ProviderClient, users repository.UserRepository, sessions *session.Manager, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{provider: provider, users: users, sessions: sessions, lim: lim}
}

// Login runs the full login path: code exchange, profile fetch, directory
// upsert, session issuance. The role is never derived from provider data;
// the upsert leaves it untouched. A rejected exchange counts as a limiter
// failure so a caller cycling through bad codes gets locked out.
func (s *AuthServiceImpl) Login(ctx context.Context, code, ip string) (*model.User, string, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, ipHash)
	if err != nil {
		return nil, "", err
	}
	if !allowed {
		return nil, "", errs.ErrRateLimited
	}

	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		if blocked, _, ferr := s.lim.Failure(ctx, ipHash); ferr == nil && blocked {
			return nil, "", errs.ErrRateLimited
		}
		return nil, "", err
	}

	profile, err := s.provider.FetchProfile(ctx, token)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Upsert(ctx, model.NewUserFromProfile(profile))
	if err != nil {
		return nil, "", err
	}

	cred, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	// Reset limiter counters (best-effort).
	_ = s.lim.Success(ctx, ipHash)

	return user, cred, nil
}

// GetUser loads a user by local id.
func (s *AuthServiceImpl) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}
