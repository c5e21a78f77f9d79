// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing, invalid or expired session,
	// or insufficient role.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrExchangeFailed indicates the identity provider rejected the
	// authorization code exchange.
	ErrExchangeFailed = errors.New("provider rejected exchange")

	// ErrProviderUnreachable indicates a transport or schema fault while
	// talking to the identity provider.
	ErrProviderUnreachable = errors.New("provider profile fetch failed")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrConfigCorrupt indicates stored data failed to parse at evaluation
	// time (internal-consistency fault, not attributable to the caller).
	ErrConfigCorrupt = errors.New("config corrupt")
)
