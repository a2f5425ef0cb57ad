package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyclopex/Performia-sub001/internal/domain"
)

// RaceRepository provides Postgres-backed persistence for race results.
type RaceRepository struct {
	pool *pgxpool.Pool
}

// NewRaceRepository constructs a RaceRepository.
func NewRaceRepository(pool *pgxpool.Pool) *RaceRepository {
	return &RaceRepository{pool: pool}
}

const raceColumns = `race_id, user_id, name, race_date, distance_km, finish_sec, location, notes, created_at, updated_at`

// Create persists the race result as a new row.
func (r *RaceRepository) Create(ctx context.Context, race domain.RaceResult) error {
	const stmt = `INSERT INTO races (race_id, user_id, name, race_date, distance_km, finish_sec, location, notes, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := r.pool.Exec(ctx, stmt,
		race.ID,
		race.UserID,
		race.Name,
		race.Date,
		race.DistanceKm,
		race.FinishSec,
		race.Location,
		race.Notes,
		race.CreatedAt,
		race.UpdatedAt,
	)
	return err
}

// Get retrieves a race result by ID, scoped to the owning user.
func (r *RaceRepository) Get(ctx context.Context, userID, raceID string) (*domain.RaceResult, error) {
	const query = `SELECT ` + raceColumns + ` FROM races WHERE user_id=$1 AND race_id=$2`

	row := r.pool.QueryRow(ctx, query, userID, raceID)
	race, err := scanRace(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return race, nil
}

// ListByUser returns the user's race results ordered by date descending.
func (r *RaceRepository) ListByUser(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.RaceResult, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT ` + raceColumns + ` FROM races WHERE user_id=$1`

	if cursor != nil {
		query += ` AND (race_date, race_id) < ($3, $4)`
		args = append(args, cursor.Date, cursor.ID)
	}

	query += ` ORDER BY race_date DESC, race_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.RaceResult, 0, limit)
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, *race)
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

// Update replaces the mutable columns of a race result owned by the user.
func (r *RaceRepository) Update(ctx context.Context, race domain.RaceResult) (bool, error) {
	const stmt = `UPDATE races SET name=$3, race_date=$4, distance_km=$5, finish_sec=$6, location=$7, notes=$8, updated_at=$9
        WHERE user_id=$1 AND race_id=$2`

	tag, err := r.pool.Exec(ctx, stmt,
		race.UserID,
		race.ID,
		race.Name,
		race.Date,
		race.DistanceKm,
		race.FinishSec,
		race.Location,
		race.Notes,
		race.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a race result owned by the user.
func (r *RaceRepository) Delete(ctx context.Context, userID, raceID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM races WHERE user_id=$1 AND race_id=$2`, userID, raceID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanRace(row pgx.Row) (*domain.RaceResult, error) {
	var race domain.RaceResult
	if err := row.Scan(
		&race.ID,
		&race.UserID,
		&race.Name,
		&race.Date,
		&race.DistanceKm,
		&race.FinishSec,
		&race.Location,
		&race.Notes,
		&race.CreatedAt,
		&race.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &race, nil
}
