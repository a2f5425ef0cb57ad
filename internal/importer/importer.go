// Package importer normalizes external provider activities and writes them
// into the user's workout history.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/cyclopex/Performia-sub001/internal/domain"
	"github.com/cyclopex/Performia-sub001/internal/observability"
	"github.com/cyclopex/Performia-sub001/internal/strava"
)

// WorkoutCreator is the slice of the domain service the importer needs.
type WorkoutCreator interface {
	CreateWorkout(ctx context.Context, input domain.CreateWorkoutInput) (*domain.Workout, error)
}

// Option configures optional behaviour for the Importer.
type Option func(*Importer)

// WithLogger overrides the logger used to report per-item failures.
func WithLogger(logger *log.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// Importer converts external activities into workouts owned by the importing
// user. Imports are best-effort batches, not transactions: items are processed
// strictly in order and a failed item is logged and skipped without aborting
// the rest.
type Importer struct {
	creator WorkoutCreator
	logger  *log.Logger
}

// New constructs an Importer.
func New(creator WorkoutCreator, opts ...Option) *Importer {
	i := &Importer{
		creator: creator,
		logger:  log.New(log.Writer(), "[import] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Result summarises a batch import.
type Result struct {
	Imported int
	Workouts []domain.Workout
}

// Import normalizes and persists each raw provider record as a new workout
// owned by userID. Records failing minimal shape validation (no id, no start
// time) are skipped, as are records whose persistence fails; neither aborts
// the batch, and the caller only learns the count of successes.
func (i *Importer) Import(ctx context.Context, userID string, raws []json.RawMessage) (*Result, error) {
	result := &Result{Workouts: make([]domain.Workout, 0, len(raws))}

	for idx, raw := range raws {
		activity, err := strava.ParseActivity(raw)
		if err != nil {
			i.logger.Printf("skipping malformed activity at index %d: %v", idx, err)
			observability.RecordImportFailure()
			continue
		}

		workout, err := i.creator.CreateWorkout(ctx, buildWorkout(userID, activity))
		if err != nil {
			i.logger.Printf("failed to persist activity %d for user %s: %v", activity.ID, userID, err)
			observability.RecordImportFailure()
			continue
		}

		result.Imported++
		result.Workouts = append(result.Workouts, *workout)
		observability.RecordImportSuccess()
	}

	return result, nil
}

// buildWorkout maps one validated external activity onto a workout input.
// There is no lookup against previously imported external ids here: re-running
// an import creates duplicate records. The external id is stored so a dedup
// check can be added once the intended contract is confirmed.
func buildWorkout(userID string, activity strava.Activity) domain.CreateWorkoutInput {
	return domain.CreateWorkoutInput{
		UserID:      userID,
		Title:       titleFor(activity),
		Type:        MapActivityType(activity.Type),
		Date:        activity.StartDate,
		DurationMin: DurationMinutes(activity.MovingTime),
		DistanceKm:  DistanceKm(activity.Distance),
		Notes:       activity.Description,
		Source:      domain.SourceStrava,
		ExternalID:  strconv.FormatInt(activity.ID, 10),
		Raw:         activity.Raw,
	}
}

func titleFor(activity strava.Activity) string {
	if activity.Name != "" {
		return activity.Name
	}
	return fmt.Sprintf("Strava activity %s", activity.StartDate.Format("2006-01-02"))
}
