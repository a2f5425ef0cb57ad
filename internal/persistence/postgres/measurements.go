package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyclopex/Performia-sub001/internal/domain"
)

// MeasurementRepository provides Postgres-backed persistence for anthropometric measurements.
type MeasurementRepository struct {
	pool *pgxpool.Pool
}

// NewMeasurementRepository constructs a MeasurementRepository.
func NewMeasurementRepository(pool *pgxpool.Pool) *MeasurementRepository {
	return &MeasurementRepository{pool: pool}
}

const measurementColumns = `measurement_id, user_id, taken_at, weight_kg, body_fat_pct, chest_cm, waist_cm, hips_cm, notes, created_at, updated_at`

// Create persists the measurement as a new row.
func (r *MeasurementRepository) Create(ctx context.Context, measurement domain.Measurement) error {
	const stmt = `INSERT INTO measurements (measurement_id, user_id, taken_at, weight_kg, body_fat_pct, chest_cm, waist_cm, hips_cm, notes, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := r.pool.Exec(ctx, stmt,
		measurement.ID,
		measurement.UserID,
		measurement.TakenAt,
		measurement.WeightKg,
		measurement.BodyFatPct,
		measurement.ChestCm,
		measurement.WaistCm,
		measurement.HipsCm,
		measurement.Notes,
		measurement.CreatedAt,
		measurement.UpdatedAt,
	)
	return err
}

// Get retrieves a measurement by ID, scoped to the owning user.
func (r *MeasurementRepository) Get(ctx context.Context, userID, measurementID string) (*domain.Measurement, error) {
	const query = `SELECT ` + measurementColumns + ` FROM measurements WHERE user_id=$1 AND measurement_id=$2`

	row := r.pool.QueryRow(ctx, query, userID, measurementID)
	measurement, err := scanMeasurement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return measurement, nil
}

// ListByUser returns the user's measurements ordered by date descending.
func (r *MeasurementRepository) ListByUser(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.Measurement, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT ` + measurementColumns + ` FROM measurements WHERE user_id=$1`

	if cursor != nil {
		query += ` AND (taken_at, measurement_id) < ($3, $4)`
		args = append(args, cursor.Date, cursor.ID)
	}

	query += ` ORDER BY taken_at DESC, measurement_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.Measurement, 0, limit)
	for rows.Next() {
		measurement, err := scanMeasurement(rows)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, *measurement)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{Date: last.TakenAt, ID: last.ID}
	}
	return results, nextCursor, nil
}

// Update replaces the mutable columns of a measurement owned by the user.
func (r *MeasurementRepository) Update(ctx context.Context, measurement domain.Measurement) (bool, error) {
	const stmt = `UPDATE measurements SET taken_at=$3, weight_kg=$4, body_fat_pct=$5, chest_cm=$6, waist_cm=$7, hips_cm=$8, notes=$9, updated_at=$10
        WHERE user_id=$1 AND measurement_id=$2`

	tag, err := r.pool.Exec(ctx, stmt,
		measurement.UserID,
		measurement.ID,
		measurement.TakenAt,
		measurement.WeightKg,
		measurement.BodyFatPct,
		measurement.ChestCm,
		measurement.WaistCm,
		measurement.HipsCm,
		measurement.Notes,
		measurement.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a measurement owned by the user.
func (r *MeasurementRepository) Delete(ctx context.Context, userID, measurementID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM measurements WHERE user_id=$1 AND measurement_id=$2`, userID, measurementID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanMeasurement(row pgx.Row) (*domain.Measurement, error) {
	var measurement domain.Measurement
	if err := row.Scan(
		&measurement.ID,
		&measurement.UserID,
		&measurement.TakenAt,
		&measurement.WeightKg,
		&measurement.BodyFatPct,
		&measurement.ChestCm,
		&measurement.WaistCm,
		&measurement.HipsCm,
		&measurement.Notes,
		&measurement.CreatedAt,
		&measurement.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &measurement, nil
}
