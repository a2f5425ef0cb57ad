package domain

import "time"

// RaceResult records a finished race for a user.
type RaceResult struct {
	ID         string
	UserID     string
	Name       string
	Date       time.Time
	DistanceKm float64
	FinishSec  int // total finish time in seconds
	Location   string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
