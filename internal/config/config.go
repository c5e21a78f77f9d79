// Package config loads process-wide configuration from the environment.
// Everything here is read once at startup and passed down by constructor
// injection; nothing reads the environment after Load returns.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds runtime settings for the psychtool server.
type Config struct {
	ListenAddr string // bind address for the HTTP server

	DatabaseDSN string // PostgreSQL DSN (pgx)

	// Identity provider settings for the OAuth code exchange.
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURI  string
	OAuthGrantType    string
	OAuthTokenURL     string // provider token endpoint
	OAuthProfileURL   string // provider profile endpoint

	SessionSecret string // HMAC secret for signing session JWTs (HS256)

	MediaDir string // root directory for stored uploads (test logos)
}

// Load reads the configuration from the environment. Every key except
// LISTEN_ADDR is required; missing keys are reported together so an operator
// can fix the whole set in one pass.
func Load() (*Config, error) {
	var missing []string
	get := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		ListenAddr:        os.Getenv("LISTEN_ADDR"),
		DatabaseDSN:       get("DATABASE_DSN"),
		OAuthClientID:     get("OAUTH_CLIENT_ID"),
		OAuthClientSecret: get("OAUTH_CLIENT_SECRET"),
		OAuthRedirectURI:  get("OAUTH_REDIRECT_URI"),
		OAuthGrantType:    get("OAUTH_GRANT_TYPE"),
		OAuthTokenURL:     get("OAUTH_TOKEN_URL"),
		OAuthProfileURL:   get("OAUTH_PROFILE_URL"),
		SessionSecret:     get("SESSION_SECRET"),
		MediaDir:          get("MEDIA_FILES_DIR"),
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
