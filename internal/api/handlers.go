// Package api exposes HTTP handlers for the fittrack API.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cyclopex/Performia-sub001/internal/domain"
	"github.com/cyclopex/Performia-sub001/internal/importer"
	"github.com/cyclopex/Performia-sub001/internal/strava"
)

// Handler coordinates HTTP requests with the domain service and the import pipeline.
type Handler struct {
	service    *domain.Service
	strava     *strava.Client
	importer   *importer.Importer
	appBaseURL string
	logger     *log.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, stravaClient *strava.Client, imp *importer.Importer, appBaseURL string) *Handler {
	return &Handler{
		service:    service,
		strava:     stravaClient,
		importer:   imp,
		appBaseURL: appBaseURL,
		logger:     log.New(log.Writer(), "[api] ", log.LstdFlags),
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/v1/workouts/", h.workoutByID)
	mux.HandleFunc("/v1/races", h.races)
	mux.HandleFunc("/v1/races/", h.raceByID)
	mux.HandleFunc("/v1/measurements", h.measurements)
	mux.HandleFunc("/v1/measurements/", h.measurementByID)
	mux.HandleFunc("/v1/strava/connect", h.stravaConnect)
	mux.HandleFunc("/v1/strava/callback", h.stravaCallback)
	mux.HandleFunc("/v1/strava/activities", h.stravaActivities)
	mux.HandleFunc("/v1/strava/import", h.stravaImport)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseLimit(r *http.Request) int {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}
	return limit
}

// WorkoutView exposes full details about a workout.
type WorkoutView struct {
	WorkoutID   string          `json:"workout_id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Type        string          `json:"type"`
	Date        time.Time       `json:"date"`
	DurationMin int             `json:"duration_min"`
	DistanceKm  *float64        `json:"distance_km,omitempty"`
	RPE         *int            `json:"rpe,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Source      string          `json:"source"`
	ExternalID  string          `json:"external_id,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toWorkoutView(workout domain.Workout) WorkoutView {
	return WorkoutView{
		WorkoutID:   workout.ID,
		UserID:      workout.UserID,
		Title:       workout.Title,
		Type:        string(workout.Type),
		Date:        workout.Date,
		DurationMin: workout.DurationMin,
		DistanceKm:  workout.DistanceKm,
		RPE:         workout.RPE,
		Notes:       workout.Notes,
		Source:      workout.Source,
		ExternalID:  workout.ExternalID,
		Raw:         workout.Raw,
		CreatedAt:   workout.CreatedAt,
		UpdatedAt:   workout.UpdatedAt,
	}
}

// RaceView exposes full details about a race result.
type RaceView struct {
	RaceID     string    `json:"race_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	DistanceKm float64   `json:"distance_km"`
	FinishSec  int       `json:"finish_sec"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toRaceView(race domain.RaceResult) RaceView {
	return RaceView{
		RaceID:     race.ID,
		UserID:     race.UserID,
		Name:       race.Name,
		Date:       race.Date,
		DistanceKm: race.DistanceKm,
		FinishSec:  race.FinishSec,
		Location:   race.Location,
		Notes:      race.Notes,
		CreatedAt:  race.CreatedAt,
		UpdatedAt:  race.UpdatedAt,
	}
}

// MeasurementView exposes full details about a measurement.
type MeasurementView struct {
	MeasurementID string    `json:"measurement_id"`
	UserID        string    `json:"user_id"`
	TakenAt       time.Time `json:"taken_at"`
	WeightKg      *float64  `json:"weight_kg,omitempty"`
	BodyFatPct    *float64  `json:"body_fat_pct,omitempty"`
	ChestCm       *float64  `json:"chest_cm,omitempty"`
	WaistCm       *float64  `json:"waist_cm,omitempty"`
	HipsCm        *float64  `json:"hips_cm,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toMeasurementView(measurement domain.Measurement) MeasurementView {
	return MeasurementView{
		MeasurementID: measurement.ID,
		UserID:        measurement.UserID,
		TakenAt:       measurement.TakenAt,
		WeightKg:      measurement.WeightKg,
		BodyFatPct:    measurement.BodyFatPct,
		ChestCm:       measurement.ChestCm,
		WaistCm:       measurement.WaistCm,
		HipsCm:        measurement.HipsCm,
		Notes:         measurement.Notes,
		CreatedAt:     measurement.CreatedAt,
		UpdatedAt:     measurement.UpdatedAt,
	}
}
