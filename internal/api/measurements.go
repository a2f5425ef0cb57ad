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

func (h *Handler) measurements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createMeasurement(w, r)
	case http.MethodGet:
		h.listMeasurements(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) measurementByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/measurements/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing measurement id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getMeasurement(w, r, id)
	case http.MethodPut:
		h.updateMeasurement(w, r, id)
	case http.MethodDelete:
		h.deleteMeasurement(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

// MeasurementRequest is the payload for POST and PUT on measurements.
type MeasurementRequest struct {
	TakenAt    time.Time `json:"taken_at"`
	WeightKg   *float64  `json:"weight_kg"`
	BodyFatPct *float64  `json:"body_fat_pct"`
	ChestCm    *float64  `json:"chest_cm"`
	WaistCm    *float64  `json:"waist_cm"`
	HipsCm     *float64  `json:"hips_cm"`
	Notes      string    `json:"notes"`
}

// Validate ensures request correctness. At least one reading must be present;
// a measurement with only a timestamp records nothing.
func (r MeasurementRequest) Validate() error {
	if r.TakenAt.IsZero() {
		return errors.New("taken_at is required")
	}
	if r.WeightKg == nil && r.BodyFatPct == nil && r.ChestCm == nil && r.WaistCm == nil && r.HipsCm == nil {
		return errors.New("at least one reading is required")
	}
	for _, reading := range []*float64{r.WeightKg, r.BodyFatPct, r.ChestCm, r.WaistCm, r.HipsCm} {
		if reading != nil && *reading <= 0 {
			return errors.New("readings must be > 0")
		}
	}
	if r.BodyFatPct != nil && *r.BodyFatPct >= 100 {
		return errors.New("body_fat_pct must be < 100")
	}
	return nil
}

func (r MeasurementRequest) toInput(userID string) domain.CreateMeasurementInput {
	return domain.CreateMeasurementInput{
		UserID:     userID,
		TakenAt:    r.TakenAt,
		WeightKg:   r.WeightKg,
		BodyFatPct: r.BodyFatPct,
		ChestCm:    r.ChestCm,
		WaistCm:    r.WaistCm,
		HipsCm:     r.HipsCm,
		Notes:      r.Notes,
	}
}

func (h *Handler) createMeasurement(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	req, ok := decodeBody[MeasurementRequest](w, r)
	if !ok {
		return
	}

	measurement, err := h.service.CreateMeasurement(r.Context(), req.toInput(claims.Subject))
	if err != nil {
		h.logger.Printf("create measurement failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toMeasurementView(*measurement))
}

func (h *Handler) getMeasurement(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	measurement, err := h.service.GetMeasurement(r.Context(), claims.Subject, id)
	if err != nil {
		if errors.Is(err, domain.ErrMeasurementNotFound) {
			writeError(w, http.StatusNotFound, "measurement not found")
			return
		}
		h.logger.Printf("get measurement failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toMeasurementView(*measurement))
}

// ListMeasurementsResponse packages list results.
type ListMeasurementsResponse struct {
	Items      []MeasurementView `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func (h *Handler) listMeasurements(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	measurements, next, err := h.service.ListMeasurements(r.Context(), claims.Subject, cursor, parseLimit(r))
	if err != nil {
		h.logger.Printf("list measurements failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]MeasurementView, 0, len(measurements))
	for _, measurement := range measurements {
		items = append(items, toMeasurementView(measurement))
	}

	writeJSON(w, http.StatusOK, ListMeasurementsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) updateMeasurement(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	req, ok := decodeBody[MeasurementRequest](w, r)
	if !ok {
		return
	}

	measurement, err := h.service.UpdateMeasurement(r.Context(), id, req.toInput(claims.Subject))
	if err != nil {
		if errors.Is(err, domain.ErrMeasurementNotFound) {
			writeError(w, http.StatusNotFound, "measurement not found")
			return
		}
		h.logger.Printf("update measurement failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toMeasurementView(*measurement))
}

func (h *Handler) deleteMeasurement(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteMeasurement(r.Context(), claims.Subject, id); err != nil {
		if errors.Is(err, domain.ErrMeasurementNotFound) {
			writeError(w, http.StatusNotFound, "measurement not found")
			return
		}
		h.logger.Printf("delete measurement failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
