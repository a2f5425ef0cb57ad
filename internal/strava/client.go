// Package strava talks to the external fitness provider: OAuth token exchange
// and bearer-authenticated activity history fetches.
package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// Config carries provider credentials and endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string        // e.g. https://www.strava.com
	RedirectURL  string        // this application's callback URL
	Window       time.Duration // trailing window of history to fetch
	PageSize     int           // upper bound of items per fetch, no further pagination
}

// Client issues requests against the provider's OAuth and activity endpoints.
type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time
}

// NewClient constructs a Client. A nil httpClient falls back to a default with
// a 30s timeout; no other timeout is applied to provider calls.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient, now: time.Now}
}

// oauthConfig builds the x/oauth2 config used for the consent redirect.
func (c *Client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  c.cfg.RedirectURL,
		Scopes:       []string{"read,activity:read_all"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.cfg.BaseURL + "/oauth/authorize",
			TokenURL: c.cfg.BaseURL + "/oauth/token",
		},
	}
}

// AuthCodeURL returns the provider consent URL to redirect the browser to.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauthConfig().AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "auto"))
}

// TokenResponse is the provider's token-endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// ExchangeCode swaps a consent-flow authorization code for bearer credentials
// with a single server-to-server POST. A non-2xx provider status yields an
// *UpstreamAuthError.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
		"code":          code,
		"grant_type":    "authorization_code",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/oauth/token", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamAuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &token, nil
}

// ListActivities fetches the trailing window of the athlete's activities using
// the bearer token. The window boundary is computed from wall-clock time at
// call time; at most PageSize items are requested and no pagination beyond
// that is attempted. A non-2xx provider status yields an *UpstreamFetchError.
func (c *Client) ListActivities(ctx context.Context, accessToken string) ([]Activity, error) {
	after := c.now().Add(-c.cfg.Window).Unix()

	query := url.Values{}
	query.Set("after", strconv.FormatInt(after, 10))
	query.Set("per_page", strconv.Itoa(c.cfg.PageSize))

	endpoint := c.cfg.BaseURL + "/api/v3/athlete/activities?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("activity fetch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamFetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raws []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode activity list: %w", err)
	}
	return ParseActivities(raws)
}
