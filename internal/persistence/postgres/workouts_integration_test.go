//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/cyclopex/Performia-sub001/internal/domain"
)

func TestWorkoutRepositoryScopesToOwner(t *testing.T) {
	ctx := context.Background()

	pool := setupDatabase(t, ctx)
	repo := NewWorkoutRepository(pool)

	distance := 9.2
	workout := domain.Workout{
		ID:          uuid.NewString(),
		UserID:      uuid.NewString(),
		Title:       "Tempo run",
		Type:        domain.WorkoutRunning,
		Date:        time.Now().UTC().Truncate(time.Microsecond),
		DurationMin: 40,
		DistanceKm:  &distance,
		Source:      domain.SourceManual,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	require.NoError(t, repo.Create(ctx, workout))

	stored, err := repo.Get(ctx, workout.UserID, workout.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, workout.Title, stored.Title)
	require.Equal(t, domain.WorkoutRunning, stored.Type)
	require.NotNil(t, stored.DistanceKm)
	require.Equal(t, distance, *stored.DistanceKm)

	otherUser, err := repo.Get(ctx, uuid.NewString(), workout.ID)
	require.NoError(t, err)
	require.Nil(t, otherUser, "workouts must not leak across users")
}

func TestWorkoutRepositoryKeysetPagination(t *testing.T) {
	ctx := context.Background()

	pool := setupDatabase(t, ctx)
	repo := NewWorkoutRepository(pool)

	userID := uuid.NewString()
	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		workout := domain.Workout{
			ID:          uuid.NewString(),
			UserID:      userID,
			Title:       "Session",
			Type:        domain.WorkoutCycling,
			Date:        base.AddDate(0, 0, i),
			DurationMin: 60,
			Source:      domain.SourceManual,
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		require.NoError(t, repo.Create(ctx, workout))
	}

	first, cursor, err := repo.ListByUser(ctx, userID, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, cursor)
	require.True(t, first[0].Date.After(first[1].Date))

	second, _, err := repo.ListByUser(ctx, userID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.True(t, first[1].Date.After(second[0].Date))
}

func TestWorkoutRepositoryAllowsDuplicateExternalIDs(t *testing.T) {
	ctx := context.Background()

	pool := setupDatabase(t, ctx)
	repo := NewWorkoutRepository(pool)

	userID := uuid.NewString()
	for i := 0; i < 2; i++ {
		workout := domain.Workout{
			ID:          uuid.NewString(),
			UserID:      userID,
			Title:       "Imported ride",
			Type:        domain.WorkoutCycling,
			Date:        time.Now().UTC(),
			DurationMin: 45,
			Source:      domain.SourceStrava,
			ExternalID:  "9876543210",
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		require.NoError(t, repo.Create(ctx, workout))
	}

	stored, _, err := repo.ListByUser(ctx, userID, nil, 10)
	require.NoError(t, err)
	require.Len(t, stored, 2)
}

func TestWorkoutRepositoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	pool := setupDatabase(t, ctx)
	repo := NewWorkoutRepository(pool)

	workout := domain.Workout{
		ID:          uuid.NewString(),
		UserID:      uuid.NewString(),
		Title:       "Easy swim",
		Type:        domain.WorkoutSwimming,
		Date:        time.Now().UTC(),
		DurationMin: 30,
		Source:      domain.SourceManual,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, workout))

	workout.Title = "Threshold swim"
	workout.DurationMin = 45
	workout.UpdatedAt = time.Now().UTC()

	updated, err := repo.Update(ctx, workout)
	require.NoError(t, err)
	require.True(t, updated)

	notOwner := workout
	notOwner.UserID = uuid.NewString()
	updated, err = repo.Update(ctx, notOwner)
	require.NoError(t, err)
	require.False(t, updated)

	deleted, err := repo.Delete(ctx, workout.UserID, workout.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.Delete(ctx, workout.UserID, workout.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func setupDatabase(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("fittrack"),
		postgrescontainer.WithUsername("fittrack"),
		postgrescontainer.WithPassword("fittrack"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
