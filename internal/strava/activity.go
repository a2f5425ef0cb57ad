package strava

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidActivity is returned when a provider record fails minimal shape
// validation. The provider payload is loosely typed; records are parsed into a
// strict struct at the boundary and rejected here rather than propagated.
var ErrInvalidActivity = errors.New("activity missing id or start time")

// Activity is a single activity record as returned by the provider's
// athlete/activities endpoint. Raw retains the verbatim source JSON.
type Activity struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	StartDate   time.Time `json:"start_date"`
	MovingTime  int       `json:"moving_time"` // seconds
	ElapsedTime int       `json:"elapsed_time"`
	Distance    *float64  `json:"distance,omitempty"` // meters, absent when the provider recorded none
	Calories    *float64  `json:"calories,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location_city,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// ParseActivity decodes a raw provider record, keeping the original bytes.
func ParseActivity(raw json.RawMessage) (Activity, error) {
	var activity Activity
	if err := json.Unmarshal(raw, &activity); err != nil {
		return Activity{}, err
	}
	if activity.ID == 0 || activity.StartDate.IsZero() {
		return Activity{}, ErrInvalidActivity
	}
	activity.Raw = append(json.RawMessage(nil), raw...)
	return activity, nil
}

// ParseActivities decodes a list of raw provider records. Decoding is strict
// per item; the first malformed record fails the whole list so callers can
// distinguish a bad payload from a bad item (the importer re-validates
// per item instead).
func ParseActivities(raws []json.RawMessage) ([]Activity, error) {
	out := make([]Activity, 0, len(raws))
	for _, raw := range raws {
		activity, err := ParseActivity(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, activity)
	}
	return out, nil
}
