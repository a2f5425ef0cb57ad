package strava

import "fmt"

// UpstreamAuthError indicates the provider rejected a token exchange.
type UpstreamAuthError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("strava token exchange failed with status %d", e.StatusCode)
}

// UpstreamFetchError indicates the provider rejected an activity fetch.
type UpstreamFetchError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("strava activity fetch failed with status %d", e.StatusCode)
}
