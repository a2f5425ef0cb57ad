package importer

import (
	"math"

	"github.com/cyclopex/Performia-sub001/internal/domain"
)

// typeTable maps provider activity-type labels onto the closed workout
// enumeration. Matching is exact; no case folding, no fuzzy matching. The
// provider taxonomy is open-ended, so anything absent here collapses to OTHER
// instead of leaking new types into the application.
var typeTable = map[string]domain.WorkoutType{
	"Run":                           domain.WorkoutRunning,
	"TrailRun":                      domain.WorkoutRunning,
	"VirtualRun":                    domain.WorkoutRunning,
	"Ride":                          domain.WorkoutCycling,
	"VirtualRide":                   domain.WorkoutCycling,
	"MountainBikeRide":              domain.WorkoutCycling,
	"GravelRide":                    domain.WorkoutCycling,
	"EBikeRide":                     domain.WorkoutCycling,
	"Swim":                          domain.WorkoutSwimming,
	"WeightTraining":                domain.WorkoutStrength,
	"Workout":                       domain.WorkoutGeneric,
	"HighIntensityIntervalTraining": domain.WorkoutGeneric,
	"Yoga":                          domain.WorkoutYoga,
	"Pilates":                       domain.WorkoutPilates,
	"Crossfit":                      domain.WorkoutCrossfit,
	"MartialArts":                   domain.WorkoutMartialArts,
	"RockClimbing":                  domain.WorkoutClimbing,
}

// MapActivityType resolves a provider type label to a canonical workout type.
// Total over all strings: unknown labels yield WorkoutOther.
func MapActivityType(label string) domain.WorkoutType {
	if mapped, ok := typeTable[label]; ok {
		return mapped
	}
	return domain.WorkoutOther
}

// DurationMinutes converts moving time in seconds to whole minutes, rounding
// half away from zero (2730s -> 46min).
func DurationMinutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60))
}

// DistanceKm converts a distance in meters to kilometers. An absent distance
// stays absent; it is not a zero-length activity.
func DistanceKm(meters *float64) *float64 {
	if meters == nil {
		return nil
	}
	km := *meters / 1000
	return &km
}
