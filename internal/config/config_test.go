package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setAll(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"DATABASE_DSN":        "postgres://u:p@localhost:5432/psychtool?sslmode=disable",
		"OAUTH_CLIENT_ID":     "cid",
		"OAUTH_CLIENT_SECRET": "csecret",
		"OAUTH_REDIRECT_URI":  "https://app.example.org/callback",
		"OAUTH_GRANT_TYPE":    "authorization_code",
		"OAUTH_TOKEN_URL":     "https://idp.example.org/oauth/token",
		"OAUTH_PROFILE_URL":   "https://idp.example.org/api/profile",
		"SESSION_SECRET":      "s3cret",
		"MEDIA_FILES_DIR":     "/var/lib/psychtool/media",
	} {
		t.Setenv(k, v)
	}
}

func TestLoad_AllSet(t *testing.T) {
	setAll(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "cid", cfg.OAuthClientID)
	require.Equal(t, "s3cret", cfg.SessionSecret)
	require.Equal(t, ":8080", cfg.ListenAddr, "default listen address")

	t.Setenv("LISTEN_ADDR", ":9090")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
}

func TestLoad_MissingKeysReportedTogether(t *testing.T) {
	setAll(t)
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("MEDIA_FILES_DIR", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_SECRET")
	require.Contains(t, err.Error(), "MEDIA_FILES_DIR")
}
