package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/vpn-dashboard/internal/migrations"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции проекта.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	return storage
}

// TestDataFactory создаёт тестовые записи напрямую в БД.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

func (f *TestDataFactory) CreateUser(t *testing.T, userID int64) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO users (user_id) VALUES ($1)`, userID)
	require.NoError(t, err)
}

// SaveUser создаёт пользователя со всеми полями или перезаписывает существующего.
func (f *TestDataFactory) SaveUser(t *testing.T, user models.User) {
	t.Helper()
	dateArg := func(d *models.Date) any {
		if d == nil {
			return nil
		}
		return d.Time
	}
	_, err := f.storage.DB.Exec(`INSERT INTO users (user_id, user_name, end_date, end_trial_period)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET user_name = EXCLUDED.user_name,
		    end_date = EXCLUDED.end_date,
		    end_trial_period = EXCLUDED.end_trial_period`,
		user.UserID, user.UserName, dateArg(user.EndDate), dateArg(user.EndTrialPeriod))
	require.NoError(t, err)
}

func (f *TestDataFactory) CreateLink(t *testing.T, address string, userID *int64) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO links (link_address, user_id) VALUES ($1, $2) RETURNING id`,
		address, nullableUserID(userID)).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) CountFree(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.storage.DB.QueryRow(`SELECT COUNT(*) FROM links WHERE user_id IS NULL`).Scan(&n))
	return n
}

func ptr[T any](v T) *T {
	return &v
}
