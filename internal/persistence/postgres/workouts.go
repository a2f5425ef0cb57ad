// Package postgres provides pgx-backed persistence for user records.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyclopex/Performia-sub001/internal/domain"
	"github.com/cyclopex/Performia-sub001/internal/observability"
)

// WorkoutRepository provides Postgres-backed persistence for workouts.
type WorkoutRepository struct {
	pool *pgxpool.Pool
}

// NewWorkoutRepository constructs a WorkoutRepository.
func NewWorkoutRepository(pool *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{pool: pool}
}

const workoutColumns = `workout_id, user_id, title, workout_type, workout_date, duration_min, distance_km, rpe, notes, source, external_id, raw, created_at, updated_at`

// Create persists the workout as a new row. Each write is a single independent
// insert; no uniqueness check runs against external_id.
func (r *WorkoutRepository) Create(ctx context.Context, workout domain.Workout) error {
	const stmt = `INSERT INTO workouts (workout_id, user_id, title, workout_type, workout_date, duration_min, distance_km, rpe, notes, source, external_id, raw, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := r.pool.Exec(ctx, stmt,
		workout.ID,
		workout.UserID,
		workout.Title,
		string(workout.Type),
		workout.Date,
		workout.DurationMin,
		workout.DistanceKm,
		workout.RPE,
		workout.Notes,
		workout.Source,
		nullIfEmpty(workout.ExternalID),
		workout.Raw,
		workout.CreatedAt,
		workout.UpdatedAt,
	)
	if err != nil {
		return err
	}
	observability.RecordWorkoutPersisted(workout.UpdatedAt)
	return nil
}

// Get retrieves a workout by ID, scoped to the owning user.
func (r *WorkoutRepository) Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	const query = `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id=$1 AND workout_id=$2`

	row := r.pool.QueryRow(ctx, query, userID, workoutID)
	workout, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return workout, nil
}

// ListByUser returns the user's workouts ordered by date descending.
func (r *WorkoutRepository) ListByUser(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.Workout, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id=$1`

	if cursor != nil {
		query += ` AND (workout_date, workout_id) < ($3, $4)`
		args = append(args, cursor.Date, cursor.ID)
	}

	query += ` ORDER BY workout_date DESC, workout_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.Workout, 0, limit)
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, *workout)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{Date: last.Date, ID: last.ID}
	}
	return results, nextCursor, nil
}

// Update replaces the mutable columns of a workout owned by the user.
func (r *WorkoutRepository) Update(ctx context.Context, workout domain.Workout) (bool, error) {
	const stmt = `UPDATE workouts SET title=$3, workout_type=$4, workout_date=$5, duration_min=$6, distance_km=$7, rpe=$8, notes=$9, updated_at=$10
        WHERE user_id=$1 AND workout_id=$2`

	tag, err := r.pool.Exec(ctx, stmt,
		workout.UserID,
		workout.ID,
		workout.Title,
		string(workout.Type),
		workout.Date,
		workout.DurationMin,
		workout.DistanceKm,
		workout.RPE,
		workout.Notes,
		workout.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a workout owned by the user.
func (r *WorkoutRepository) Delete(ctx context.Context, userID, workoutID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE user_id=$1 AND workout_id=$2`, userID, workoutID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanWorkout(row pgx.Row) (*domain.Workout, error) {
	var workout domain.Workout
	var workoutType string
	var externalID *string
	if err := row.Scan(
		&workout.ID,
		&workout.UserID,
		&workout.Title,
		&workoutType,
		&workout.Date,
		&workout.DurationMin,
		&workout.DistanceKm,
		&workout.RPE,
		&workout.Notes,
		&workout.Source,
		&externalID,
		&workout.Raw,
		&workout.CreatedAt,
		&workout.UpdatedAt,
	); err != nil {
		return nil, err
	}
	workout.Type = domain.WorkoutType(workoutType)
	if externalID != nil {
		workout.ExternalID = *externalID
	}
	return &workout, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
