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

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createWorkout(w, r)
	case http.MethodGet:
		h.listWorkouts(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing workout id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getWorkout(w, r, id)
	case http.MethodPut:
		h.updateWorkout(w, r, id)
	case http.MethodDelete:
		h.deleteWorkout(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

// WorkoutRequest is the payload for POST and PUT on workouts.
type WorkoutRequest struct {
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	DurationMin int       `json:"duration_min"`
	DistanceKm  *float64  `json:"distance_km"`
	RPE         *int      `json:"rpe"`
	Notes       string    `json:"notes"`
}

// Validate ensures request correctness.
func (r WorkoutRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if !domain.WorkoutType(r.Type).Valid() {
		return errors.New("type must be one of the known workout types")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if r.DurationMin <= 0 {
		return errors.New("duration_min must be > 0")
	}
	if r.RPE != nil && (*r.RPE < 1 || *r.RPE > 10) {
		return errors.New("rpe must be between 1 and 10")
	}
	if r.DistanceKm != nil && *r.DistanceKm < 0 {
		return errors.New("distance_km must be >= 0")
	}
	return nil
}

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	req, ok := decodeBody[WorkoutRequest](w, r)
	if !ok {
		return
	}

	workout, err := h.service.CreateWorkout(r.Context(), domain.CreateWorkoutInput{
		UserID:      claims.Subject,
		Title:       req.Title,
		Type:        domain.WorkoutType(req.Type),
		Date:        req.Date,
		DurationMin: req.DurationMin,
		DistanceKm:  req.DistanceKm,
		RPE:         req.RPE,
		Notes:       req.Notes,
		Source:      domain.SourceManual,
	})
	if err != nil {
		h.logger.Printf("create workout failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toWorkoutView(*workout))
}

func (h *Handler) getWorkout(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	workout, err := h.service.GetWorkout(r.Context(), claims.Subject, id)
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusNotFound, "workout not found")
			return
		}
		h.logger.Printf("get workout failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toWorkoutView(*workout))
}

// ListWorkoutsResponse packages list results.
type ListWorkoutsResponse struct {
	Items      []WorkoutView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	workouts, next, err := h.service.ListWorkouts(r.Context(), claims.Subject, cursor, parseLimit(r))
	if err != nil {
		h.logger.Printf("list workouts failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]WorkoutView, 0, len(workouts))
	for _, workout := range workouts {
		items = append(items, toWorkoutView(workout))
	}

	writeJSON(w, http.StatusOK, ListWorkoutsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) updateWorkout(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	req, ok := decodeBody[WorkoutRequest](w, r)
	if !ok {
		return
	}

	workout, err := h.service.UpdateWorkout(r.Context(), domain.UpdateWorkoutInput{
		UserID:      claims.Subject,
		WorkoutID:   id,
		Title:       req.Title,
		Type:        domain.WorkoutType(req.Type),
		Date:        req.Date,
		DurationMin: req.DurationMin,
		DistanceKm:  req.DistanceKm,
		RPE:         req.RPE,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusNotFound, "workout not found")
			return
		}
		h.logger.Printf("update workout failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toWorkoutView(*workout))
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteWorkout(r.Context(), claims.Subject, id); err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusNotFound, "workout not found")
			return
		}
		h.logger.Printf("delete workout failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
