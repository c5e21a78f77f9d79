// Package provider implements the client for the external identity provider:
// authorization-code exchange and profile fetch.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/campuswell/psychtool/internal/config"
	"github.com/campuswell/psychtool/internal/errs"
	"github.com/campuswell/psychtool/internal/model"
)

// requestTimeout bounds both provider calls; a hung provider fails the one
// request instead of blocking it indefinitely.
const requestTimeout = 10 * time.Second

// Client exchanges authorization codes and fetches profile payloads.
// Credentials are read-only after construction.
type Client struct {
	oauth      oauth2.Config
	grantType  string
	profileURL string
	hc         *http.Client
}

// NewClient constructs a provider client from static configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		oauth: oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURI,
			Endpoint: oauth2.Endpoint{
				TokenURL: cfg.OAuthTokenURL,
				// Provider expects credentials in the form body, not basic auth.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		grantType:  cfg.OAuthGrantType,
		profileURL: cfg.OAuthProfileURL,
		hc:         &http.Client{Timeout: requestTimeout},
	}
}

// ExchangeCode posts the authorization code with the configured client
// credentials, redirect URI and grant type to the token endpoint. Any
// provider rejection or malformed token payload reports ErrExchangeFailed.
// Codes are single-use, so there is no retry.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.hc)
	tok, err := c.oauth.Exchange(ctx, code, oauth2.SetAuthURLParam("grant_type", c.grantType))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		return "", errs.ErrExchangeFailed
	}
	return tok.AccessToken, nil
}

// profilePayload is the provider's fixed profile schema.
type profilePayload struct {
	UserID int64 `json:"userId"`
	Person struct {
		FullName       string `json:"fullName"`
		DisplayPicture string `json:"displayPicture"`
	} `json:"person"`
	ContactInformation struct {
		InstituteWebmailAddress string `json:"instituteWebmailAddress"`
		PrimaryPhoneNumber      string `json:"primaryPhoneNumber"`
	} `json:"contactInformation"`
}

// FetchProfile presents the access token as a bearer credential to the
// profile endpoint and decodes the fixed schema. Transport errors, non-2xx
// statuses and schema mismatches all report ErrProviderUnreachable. Every
// login performs a fresh fetch; nothing is cached.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (model.ProviderProfile, error) {
	hc := &http.Client{
		Timeout: requestTimeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}),
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return model.ProviderProfile{}, fmt.Errorf("%w: %v", errs.ErrProviderUnreachable, err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return model.ProviderProfile{}, fmt.Errorf("%w: %v", errs.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ProviderProfile{}, fmt.Errorf("%w: status %d", errs.ErrProviderUnreachable, resp.StatusCode)
	}

	var p profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return model.ProviderProfile{}, fmt.Errorf("%w: %v", errs.ErrProviderUnreachable, err)
	}
	if p.UserID == 0 {
		return model.ProviderProfile{}, fmt.Errorf("%w: payload missing user id", errs.ErrProviderUnreachable)
	}

	return model.ProviderProfile{
		UserID:         p.UserID,
		FullName:       p.Person.FullName,
		DisplayPicture: p.Person.DisplayPicture,
		Email:          p.ContactInformation.InstituteWebmailAddress,
		PhoneNumber:    p.ContactInformation.PrimaryPhoneNumber,
	}, nil
}
