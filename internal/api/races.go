package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cyclopex/Performia-sub001/internal/auth"
	"github.com/cyclopex/Performia-sub001/internal/domain"
	"github.com/cyclopex/Performia-sub001/internal/persistence"
)

func (h *Handler) races(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createRace(w, r)
	case http.MethodGet:
		h.listRaces(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) raceByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/races/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing race id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getRace(w, r, id)
	case http.MethodPut:
		h.updateRace(w, r, id)
	case http.MethodDelete:
		h.deleteRace(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

// RaceRequest is the payload for POST and PUT on races.
type RaceRequest struct {
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	DistanceKm float64   `json:"distance_km"`
	FinishSec  int       `json:"finish_sec"`
	Location   string    `json:"location"`
	Notes      string    `json:"notes"`
}

// Validate ensures request correctness.
func (r RaceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if r.DistanceKm <= 0 {
		return errors.New("distance_km must be > 0")
	}
	if r.FinishSec <= 0 {
		return errors.New("finish_sec must be > 0")
	}
	return nil
}

func (r RaceRequest) toInput(userID string) domain.CreateRaceInput {
	return domain.CreateRaceInput{
		UserID:     userID,
		Name:       r.Name,
		Date:       r.Date,
		DistanceKm: r.DistanceKm,
		FinishSec:  r.FinishSec,
		Location:   r.Location,
		Notes:      r.Notes,
	}
}

func (h *Handler) createRace(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	req, ok := decodeBody[RaceRequest](w, r)
	if !ok {
		return
	}

	race, err := h.service.CreateRace(r.Context(), req.toInput(claims.Subject))
	if err != nil {
		h.logger.Printf("create race failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toRaceView(*race))
}

func (h *Handler) getRace(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	race, err := h.service.GetRace(r.Context(), claims.Subject, id)
	if err != nil {
		if errors.Is(err, domain.ErrRaceNotFound) {
			writeError(w, http.StatusNotFound, "race result not found")
			return
		}
		h.logger.Printf("get race failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toRaceView(*race))
}

// ListRacesResponse packages list results.
type ListRacesResponse struct {
	Items      []RaceView `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func (h *Handler) listRaces(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	races, next, err := h.service.ListRaces(r.Context(), claims.Subject, cursor, parseLimit(r))
	if err != nil {
		h.logger.Printf("list races failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]RaceView, 0, len(races))
	for _, race := range races {
		items = append(items, toRaceView(race))
	}

	writeJSON(w, http.StatusOK, ListRacesResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) updateRace(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	req, ok := decodeBody[RaceRequest](w, r)
	if !ok {
		return
	}

	race, err := h.service.UpdateRace(r.Context(), id, req.toInput(claims.Subject))
	if err != nil {
		if errors.Is(err, domain.ErrRaceNotFound) {
			writeError(w, http.StatusNotFound, "race result not found")
			return
		}
		h.logger.Printf("update race failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toRaceView(*race))
}

func (h *Handler) deleteRace(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteRace(r.Context(), claims.Subject, id); err != nil {
		if errors.Is(err, domain.ErrRaceNotFound) {
			writeError(w, http.StatusNotFound, "race result not found")
			return
		}
		h.logger.Printf("delete race failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
