package domain

import (
	"encoding/json"
	"time"
)

// WorkoutType is the application's closed set of workout categories. External
// providers use an open vocabulary; anything unrecognized degrades to WorkoutOther.
type WorkoutType string

const (
	WorkoutRunning     WorkoutType = "RUNNING"
	WorkoutCycling     WorkoutType = "CYCLING"
	WorkoutSwimming    WorkoutType = "SWIMMING"
	WorkoutStrength    WorkoutType = "STRENGTH"
	WorkoutGeneric     WorkoutType = "WORKOUT"
	WorkoutYoga        WorkoutType = "YOGA"
	WorkoutPilates     WorkoutType = "PILATES"
	WorkoutCrossfit    WorkoutType = "CROSSFIT"
	WorkoutMartialArts WorkoutType = "MARTIAL_ARTS"
	WorkoutClimbing    WorkoutType = "CLIMBING"
	WorkoutOther       WorkoutType = "OTHER"
)

// WorkoutTypes lists every member of the closed enumeration.
var WorkoutTypes = []WorkoutType{
	WorkoutRunning,
	WorkoutCycling,
	WorkoutSwimming,
	WorkoutStrength,
	WorkoutGeneric,
	WorkoutYoga,
	WorkoutPilates,
	WorkoutCrossfit,
	WorkoutMartialArts,
	WorkoutClimbing,
	WorkoutOther,
}

// Valid reports whether t is a member of the closed enumeration.
func (t WorkoutType) Valid() bool {
	for _, known := range WorkoutTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Workout sources.
const (
	SourceManual = "manual"
	SourceStrava = "strava"
)

// Workout is the canonical workout record stored in Postgres. A workout has
// exactly one owning user. Imported workouts carry the external source id and
// the raw provider record verbatim; manually recorded ones leave both empty.
type Workout struct {
	ID          string
	UserID      string
	Title       string
	Type        WorkoutType
	Date        time.Time
	DurationMin int
	DistanceKm  *float64 // nil when the source recorded no distance, distinct from zero
	RPE         *int     // 1-10 subjective intensity, optional
	Notes       string
	Source      string
	ExternalID  string
	Raw         json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
