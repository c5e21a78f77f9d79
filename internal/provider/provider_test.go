package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuswell/psychtool/internal/config"
	"github.com/campuswell/psychtool/internal/errs"
)

func testConfig(tokenURL, profileURL string) *config.Config {
	return &config.Config{
		OAuthClientID:     "cid",
		OAuthClientSecret: "csecret",
		OAuthRedirectURI:  "https://app.example.org/callback",
		OAuthGrantType:    "authorization_code",
		OAuthTokenURL:     tokenURL,
		OAuthProfileURL:   profileURL,
	}
}

func TestExchangeCode_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "the-code", r.PostForm.Get("code"))
		require.Equal(t, "cid", r.PostForm.Get("client_id"))
		require.Equal(t, "csecret", r.PostForm.Get("client_secret"))
		require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		require.Equal(t, "https://app.example.org/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	tok, err := c.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	require.Equal(t, "tok-123", tok)
}

func TestExchangeCode_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	_, err := c.ExchangeCode(context.Background(), "stale-code")
	require.ErrorIs(t, err, errs.ErrExchangeFailed)
}

func TestExchangeCode_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	_, err := c.ExchangeCode(context.Background(), "the-code")
	require.ErrorIs(t, err, errs.ErrExchangeFailed)
}

func TestFetchProfile_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"userId": 9001,
			"person": {"fullName": "Alice Doe", "displayPicture": "https://cdn.example.org/a.png"},
			"contactInformation": {"instituteWebmailAddress": "alice@example.org", "primaryPhoneNumber": ""}
		}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	p, err := c.FetchProfile(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, int64(9001), p.UserID)
	require.Equal(t, "Alice Doe", p.FullName)
	require.Equal(t, "alice@example.org", p.Email)
	require.Empty(t, p.PhoneNumber)
}

func TestFetchProfile_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	_, err := c.FetchProfile(context.Background(), "tok-123")
	require.ErrorIs(t, err, errs.ErrProviderUnreachable)
}

func TestFetchProfile_SchemaMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	_, err := c.FetchProfile(context.Background(), "tok-123")
	require.ErrorIs(t, err, errs.ErrProviderUnreachable)
}

func TestFetchProfile_Unreachable(t *testing.T) {
	// Point at a closed server.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	_, err := c.FetchProfile(context.Background(), "tok-123")
	require.ErrorIs(t, err, errs.ErrProviderUnreachable)
}
