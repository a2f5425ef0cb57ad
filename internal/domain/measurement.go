package domain

import "time"

// Measurement is a dated set of anthropometric readings. Every field beyond the
// timestamp is optional; an absent reading is nil, never zero.
type Measurement struct {
	ID         string
	UserID     string
	TakenAt    time.Time
	WeightKg   *float64
	BodyFatPct *float64
	ChestCm    *float64
	WaistCm    *float64
	HipsCm     *float64
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
