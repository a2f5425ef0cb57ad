package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cyclopex/Performia-sub001/internal/auth"
	"github.com/cyclopex/Performia-sub001/internal/importer"
	"github.com/cyclopex/Performia-sub001/internal/strava"
)

func TestStravaImportSuccess(t *testing.T) {
	repo := &memWorkoutRepo{}
	handler := newTestHandler(repo)

	body := `{
		"accessToken": "at-123",
		"activities": [
			{"id": 42, "name": "Morning Run", "type": "Run", "start_date": "2024-01-01T06:00:00Z", "moving_time": 1800, "distance": 5000},
			{"id": 43, "name": "Evening Hike", "type": "Hiking", "start_date": "2024-01-02T18:00:00Z", "moving_time": 2730}
		]
	}`
	req := authedRequest(http.MethodPost, "/v1/strava/import", body, auth.ScopeWorkoutsWrite)

	rr := httptest.NewRecorder()
	handler.stravaImport(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ImportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success true")
	}
	if resp.Imported != 2 {
		t.Fatalf("expected 2 imported got %d", resp.Imported)
	}
	if len(resp.Activities) != 2 {
		t.Fatalf("expected 2 activities got %d", len(resp.Activities))
	}

	run := resp.Activities[0]
	if run.Type != "RUNNING" || run.DurationMin != 30 || run.DistanceKm == nil || *run.DistanceKm != 5.0 {
		t.Fatalf("unexpected normalized run: %+v", run)
	}
	if !run.Date.Equal(time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", run.Date)
	}

	hike := resp.Activities[1]
	if hike.Type != "OTHER" {
		t.Fatalf("expected unknown type to degrade to OTHER got %s", hike.Type)
	}
	if hike.DurationMin != 46 {
		t.Fatalf("expected 2730s to round to 46min got %d", hike.DurationMin)
	}
	if hike.DistanceKm != nil {
		t.Fatalf("expected absent distance to stay absent")
	}
	if hike.ExternalID != "43" {
		t.Fatalf("expected external id 43 got %s", hike.ExternalID)
	}

	if len(repo.items) != 2 {
		t.Fatalf("expected 2 persisted workouts got %d", len(repo.items))
	}
	if repo.items[0].Source != "strava" {
		t.Fatalf("expected source strava got %s", repo.items[0].Source)
	}
}

func TestStravaImportMissingToken(t *testing.T) {
	handler := newTestHandler(&memWorkoutRepo{})

	body := `{"activities": []}`
	req := authedRequest(http.MethodPost, "/v1/strava/import", body, auth.ScopeWorkoutsWrite)

	rr := httptest.NewRecorder()
	handler.stravaImport(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestStravaImportRequiresAuth(t *testing.T) {
	handler := newTestHandler(&memWorkoutRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/strava/import", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.stravaImport(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestStravaImportContinuesPastFailedItems(t *testing.T) {
	// The repo rejects every insert; the batch still completes with imported: 0.
	repo := &memWorkoutRepo{failMsg: "insert failed"}
	handler := newTestHandler(repo)

	body := `{
		"accessToken": "at-123",
		"activities": [
			{"id": 1, "type": "Run", "start_date": "2024-01-01T06:00:00Z", "moving_time": 600},
			{"id": 2, "type": "Run", "start_date": "2024-01-02T06:00:00Z", "moving_time": 600}
		]
	}`
	req := authedRequest(http.MethodPost, "/v1/strava/import", body, auth.ScopeWorkoutsWrite)

	rr := httptest.NewRecorder()
	handler.stravaImport(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ImportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Imported != 0 {
		t.Fatalf("expected 0 imported got %d", resp.Imported)
	}
}

func TestStravaActivitiesMissingToken(t *testing.T) {
	handler := newTestHandler(&memWorkoutRepo{})

	req := authedRequest(http.MethodGet, "/v1/strava/activities", "", auth.ScopeWorkoutsRead)
	rr := httptest.NewRecorder()
	handler.stravaActivities(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestStravaCallbackProviderError(t *testing.T) {
	handler := newTestHandler(&memWorkoutRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/strava/callback?error=access_denied", nil)
	rr := httptest.NewRecorder()
	handler.stravaCallback(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", rr.Code)
	}
	location := rr.Header().Get("Location")
	if !strings.HasPrefix(location, "http://localhost:5173/profile?") {
		t.Fatalf("unexpected redirect target %s", location)
	}
	if !strings.Contains(location, "strava_error=access_denied") {
		t.Fatalf("expected error flag in %s", location)
	}
}

func TestStravaCallbackSuccessRedirectsWithTokens(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","refresh_token":"rt-456","expires_at":1735689600}`))
	}))
	defer provider.Close()

	client := strava.NewClient(strava.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      provider.URL,
		Window:       720 * time.Hour,
		PageSize:     200,
	}, provider.Client())

	repo := &memWorkoutRepo{}
	service := newTestHandler(repo).service
	handler := NewHandler(service, client, importer.New(service), "http://localhost:5173")

	req := httptest.NewRequest(http.MethodGet, "/v1/strava/callback?code=auth-code", nil)
	rr := httptest.NewRecorder()
	handler.stravaCallback(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", rr.Code)
	}

	location, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("invalid redirect location: %v", err)
	}
	query := location.Query()
	if query.Get("strava_success") != "true" {
		t.Fatalf("expected success flag in %s", location)
	}
	if query.Get("access_token") != "at-123" || query.Get("refresh_token") != "rt-456" {
		t.Fatalf("expected token material in redirect, got %s", location)
	}
}

func TestStravaCallbackExchangeFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad Request"}`, http.StatusBadRequest)
	}))
	defer provider.Close()

	client := strava.NewClient(strava.Config{
		ClientID: "client-id",
		BaseURL:  provider.URL,
		Window:   720 * time.Hour,
		PageSize: 200,
	}, provider.Client())

	repo := &memWorkoutRepo{}
	service := newTestHandler(repo).service
	handler := NewHandler(service, client, importer.New(service), "http://localhost:5173")

	req := httptest.NewRequest(http.MethodGet, "/v1/strava/callback?code=bad-code", nil)
	rr := httptest.NewRecorder()
	handler.stravaCallback(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Location"), "strava_error=token_exchange_failed") {
		t.Fatalf("expected exchange failure flag, got %s", rr.Header().Get("Location"))
	}
}
