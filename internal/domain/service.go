// Package domain defines the business logic for the fittrack API.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrWorkoutNotFound is returned when a workout cannot be located.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrRaceNotFound is returned when a race result cannot be located.
	ErrRaceNotFound = errors.New("race result not found")
	// ErrMeasurementNotFound is returned when a measurement cannot be located.
	ErrMeasurementNotFound = errors.New("measurement not found")
)

// Cursor models the pagination token for list endpoints.
type Cursor struct {
	Date time.Time
	ID   string
}

// WorkoutRepository captures workout persistence operations.
type WorkoutRepository interface {
	Create(ctx context.Context, workout Workout) error
	Get(ctx context.Context, userID, workoutID string) (*Workout, error)
	ListByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Workout, *Cursor, error)
	Update(ctx context.Context, workout Workout) (bool, error)
	Delete(ctx context.Context, userID, workoutID string) (bool, error)
}

// RaceRepository captures race-result persistence operations.
type RaceRepository interface {
	Create(ctx context.Context, race RaceResult) error
	Get(ctx context.Context, userID, raceID string) (*RaceResult, error)
	ListByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]RaceResult, *Cursor, error)
	Update(ctx context.Context, race RaceResult) (bool, error)
	Delete(ctx context.Context, userID, raceID string) (bool, error)
}

// MeasurementRepository captures measurement persistence operations.
type MeasurementRepository interface {
	Create(ctx context.Context, measurement Measurement) error
	Get(ctx context.Context, userID, measurementID string) (*Measurement, error)
	ListByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Measurement, *Cursor, error)
	Update(ctx context.Context, measurement Measurement) (bool, error)
	Delete(ctx context.Context, userID, measurementID string) (bool, error)
}

// Service orchestrates record workflows for a single authenticated user at a time.
type Service struct {
	workouts     WorkoutRepository
	races        RaceRepository
	measurements MeasurementRepository
}

// NewService constructs a Service.
func NewService(workouts WorkoutRepository, races RaceRepository, measurements MeasurementRepository) *Service {
	return &Service{workouts: workouts, races: races, measurements: measurements}
}

// CreateWorkoutInput captures the payload from the API layer or the importer.
type CreateWorkoutInput struct {
	UserID      string
	Title       string
	Type        WorkoutType
	Date        time.Time
	DurationMin int
	DistanceKm  *float64
	RPE         *int
	Notes       string
	Source      string
	ExternalID  string
	Raw         []byte
}

// CreateWorkout persists a new workout owned by the input's user.
func (s *Service) CreateWorkout(ctx context.Context, input CreateWorkoutInput) (*Workout, error) {
	now := time.Now().UTC()
	workout := Workout{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       input.Title,
		Type:        input.Type,
		Date:        input.Date.UTC(),
		DurationMin: input.DurationMin,
		DistanceKm:  input.DistanceKm,
		RPE:         input.RPE,
		Notes:       input.Notes,
		Source:      input.Source,
		ExternalID:  input.ExternalID,
		Raw:         input.Raw,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if workout.Source == "" {
		workout.Source = SourceManual
	}

	if err := s.workouts.Create(ctx, workout); err != nil {
		return nil, err
	}
	return &workout, nil
}

// GetWorkout fetches a workout owned by the user.
func (s *Service) GetWorkout(ctx context.Context, userID, workoutID string) (*Workout, error) {
	workout, err := s.workouts.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

// ListWorkouts fetches the user's workouts with cursor pagination.
func (s *Service) ListWorkouts(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Workout, *Cursor, error) {
	return s.workouts.ListByUser(ctx, userID, cursor, limit)
}

// UpdateWorkoutInput carries replacement values for an existing workout.
type UpdateWorkoutInput struct {
	UserID      string
	WorkoutID   string
	Title       string
	Type        WorkoutType
	Date        time.Time
	DurationMin int
	DistanceKm  *float64
	RPE         *int
	Notes       string
}

// UpdateWorkout replaces the mutable fields of a workout owned by the user.
func (s *Service) UpdateWorkout(ctx context.Context, input UpdateWorkoutInput) (*Workout, error) {
	existing, err := s.GetWorkout(ctx, input.UserID, input.WorkoutID)
	if err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.Type = input.Type
	existing.Date = input.Date.UTC()
	existing.DurationMin = input.DurationMin
	existing.DistanceKm = input.DistanceKm
	existing.RPE = input.RPE
	existing.Notes = input.Notes
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.workouts.Update(ctx, *existing)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrWorkoutNotFound
	}
	return existing, nil
}

// DeleteWorkout removes a workout owned by the user.
func (s *Service) DeleteWorkout(ctx context.Context, userID, workoutID string) error {
	deleted, err := s.workouts.Delete(ctx, userID, workoutID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWorkoutNotFound
	}
	return nil
}

// CreateRaceInput captures the payload for a new race result.
type CreateRaceInput struct {
	UserID     string
	Name       string
	Date       time.Time
	DistanceKm float64
	FinishSec  int
	Location   string
	Notes      string
}

// CreateRace persists a new race result owned by the input's user.
func (s *Service) CreateRace(ctx context.Context, input CreateRaceInput) (*RaceResult, error) {
	now := time.Now().UTC()
	race := RaceResult{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		Name:       input.Name,
		Date:       input.Date.UTC(),
		DistanceKm: input.DistanceKm,
		FinishSec:  input.FinishSec,
		Location:   input.Location,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.races.Create(ctx, race); err != nil {
		return nil, err
	}
	return &race, nil
}

// GetRace fetches a race result owned by the user.
func (s *Service) GetRace(ctx context.Context, userID, raceID string) (*RaceResult, error) {
	race, err := s.races.Get(ctx, userID, raceID)
	if err != nil {
		return nil, err
	}
	if race == nil {
		return nil, ErrRaceNotFound
	}
	return race, nil
}

// ListRaces fetches the user's race results with cursor pagination.
func (s *Service) ListRaces(ctx context.Context, userID string, cursor *Cursor, limit int) ([]RaceResult, *Cursor, error) {
	return s.races.ListByUser(ctx, userID, cursor, limit)
}

// UpdateRace replaces the mutable fields of a race result owned by the user.
func (s *Service) UpdateRace(ctx context.Context, raceID string, input CreateRaceInput) (*RaceResult, error) {
	existing, err := s.GetRace(ctx, input.UserID, raceID)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Date = input.Date.UTC()
	existing.DistanceKm = input.DistanceKm
	existing.FinishSec = input.FinishSec
	existing.Location = input.Location
	existing.Notes = input.Notes
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.races.Update(ctx, *existing)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrRaceNotFound
	}
	return existing, nil
}

// DeleteRace removes a race result owned by the user.
func (s *Service) DeleteRace(ctx context.Context, userID, raceID string) error {
	deleted, err := s.races.Delete(ctx, userID, raceID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRaceNotFound
	}
	return nil
}

// CreateMeasurementInput captures the payload for a new measurement.
type CreateMeasurementInput struct {
	UserID     string
	TakenAt    time.Time
	WeightKg   *float64
	BodyFatPct *float64
	ChestCm    *float64
	WaistCm    *float64
	HipsCm     *float64
	Notes      string
}

// CreateMeasurement persists a new measurement owned by the input's user.
func (s *Service) CreateMeasurement(ctx context.Context, input CreateMeasurementInput) (*Measurement, error) {
	now := time.Now().UTC()
	measurement := Measurement{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		TakenAt:    input.TakenAt.UTC(),
		WeightKg:   input.WeightKg,
		BodyFatPct: input.BodyFatPct,
		ChestCm:    input.ChestCm,
		WaistCm:    input.WaistCm,
		HipsCm:     input.HipsCm,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.measurements.Create(ctx, measurement); err != nil {
		return nil, err
	}
	return &measurement, nil
}

// GetMeasurement fetches a measurement owned by the user.
func (s *Service) GetMeasurement(ctx context.Context, userID, measurementID string) (*Measurement, error) {
	measurement, err := s.measurements.Get(ctx, userID, measurementID)
	if err != nil {
		return nil, err
	}
	if measurement == nil {
		return nil, ErrMeasurementNotFound
	}
	return measurement, nil
}

// ListMeasurements fetches the user's measurements with cursor pagination.
func (s *Service) ListMeasurements(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Measurement, *Cursor, error) {
	return s.measurements.ListByUser(ctx, userID, cursor, limit)
}

// UpdateMeasurement replaces the mutable fields of a measurement owned by the user.
func (s *Service) UpdateMeasurement(ctx context.Context, measurementID string, input CreateMeasurementInput) (*Measurement, error) {
	existing, err := s.GetMeasurement(ctx, input.UserID, measurementID)
	if err != nil {
		return nil, err
	}

	existing.TakenAt = input.TakenAt.UTC()
	existing.WeightKg = input.WeightKg
	existing.BodyFatPct = input.BodyFatPct
	existing.ChestCm = input.ChestCm
	existing.WaistCm = input.WaistCm
	existing.HipsCm = input.HipsCm
	existing.Notes = input.Notes
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.measurements.Update(ctx, *existing)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrMeasurementNotFound
	}
	return existing, nil
}

// DeleteMeasurement removes a measurement owned by the user.
func (s *Service) DeleteMeasurement(ctx context.Context, userID, measurementID string) error {
	deleted, err := s.measurements.Delete(ctx, userID, measurementID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMeasurementNotFound
	}
	return nil
}
