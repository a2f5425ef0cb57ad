package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	importSuccessCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "importer",
		Name:      "activities_imported_total",
		Help:      "Count of external activities successfully persisted as workouts.",
	})
	importFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "importer",
		Name:      "activities_failed_total",
		Help:      "Count of external activities skipped due to validation or persistence failure.",
	})
	workoutPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "persistence",
		Name:      "last_workout_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(importSuccessCounter, importFailureCounter, workoutPersistGauge)
}

// RecordImportSuccess increments the imported-activity counter.
func RecordImportSuccess() {
	importSuccessCounter.Inc()
}

// RecordImportFailure increments the skipped-activity counter.
func RecordImportFailure() {
	importFailureCounter.Inc()
}

// RecordWorkoutPersisted updates the persistence watermark gauge.
func RecordWorkoutPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	workoutPersistGauge.Set(float64(ts.Unix()))
}
