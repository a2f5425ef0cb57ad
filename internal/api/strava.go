package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/cyclopex/Performia-sub001/internal/auth"
)

// stravaConnect sends the browser to the provider's consent page. The state
// parameter is generated for the consent URL but not verified on callback:
// the server keeps no session to tie it to, matching the client-side token
// custody model below.
func (h *Handler) stravaConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}
	http.Redirect(w, r, h.strava.AuthCodeURL(uuid.NewString()), http.StatusFound)
}

// stravaCallback is the OAuth redirect target. It is reached by browser
// navigation, not by the application's own client, so failures redirect to a
// user-facing error state instead of returning JSON. On success the token
// material is handed back via redirect query parameters; the server keeps
// nothing.
func (h *Handler) stravaCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	query := r.URL.Query()
	if providerErr := query.Get("error"); providerErr != "" {
		h.redirectToProfile(w, r, url.Values{"strava_error": {providerErr}})
		return
	}

	code := query.Get("code")
	if code == "" {
		h.redirectToProfile(w, r, url.Values{"strava_error": {"missing_code"}})
		return
	}

	token, err := h.strava.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Printf("token exchange failed: %v", err)
		h.redirectToProfile(w, r, url.Values{"strava_error": {"token_exchange_failed"}})
		return
	}

	h.redirectToProfile(w, r, url.Values{
		"strava_success": {"true"},
		"access_token":   {token.AccessToken},
		"refresh_token":  {token.RefreshToken},
		"expires_at":     {strconv.FormatInt(token.ExpiresAt, 10)},
	})
}

func (h *Handler) redirectToProfile(w http.ResponseWriter, r *http.Request, params url.Values) {
	http.Redirect(w, r, h.appBaseURL+"/profile?"+params.Encode(), http.StatusFound)
}

// stravaActivities proxies a fetch of the trailing activity window from the provider.
func (h *Handler) stravaActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}
	if _, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite); !ok {
		return
	}

	accessToken := r.URL.Query().Get("access_token")
	if accessToken == "" {
		writeError(w, http.StatusBadRequest, "missing access_token parameter")
		return
	}

	activities, err := h.strava.ListActivities(r.Context(), accessToken)
	if err != nil {
		h.logger.Printf("activity fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch activities")
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

// ImportRequest is the payload for POST /v1/strava/import. The activities are
// kept raw so each record can be validated independently and retained verbatim.
type ImportRequest struct {
	AccessToken string            `json:"accessToken"`
	Activities  []json.RawMessage `json:"activities"`
}

// Validate ensures request correctness.
func (r ImportRequest) Validate() error {
	if r.AccessToken == "" {
		return errors.New("accessToken is required")
	}
	if r.Activities == nil {
		return errors.New("activities is required")
	}
	return nil
}

// ImportResponse reports the outcome of a batch import. Skipped items are not
// itemised; callers only see the success count.
type ImportResponse struct {
	Success    bool          `json:"success"`
	Imported   int           `json:"imported"`
	Activities []WorkoutView `json:"activities"`
}

// stravaImport persists a batch of external activities as workouts owned by
// the authenticated user.
func (h *Handler) stravaImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	req, ok := decodeBody[ImportRequest](w, r)
	if !ok {
		return
	}

	result, err := h.importer.Import(r.Context(), claims.Subject, req.Activities)
	if err != nil {
		h.logger.Printf("import failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]WorkoutView, 0, len(result.Workouts))
	for _, workout := range result.Workouts {
		views = append(views, toWorkoutView(workout))
	}

	writeJSON(w, http.StatusOK, ImportResponse{
		Success:    true,
		Imported:   result.Imported,
		Activities: views,
	})
}
