package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicyid/spicyid/internal/config"
	"github.com/spicyid/spicyid/internal/database"
	"github.com/spicyid/spicyid/internal/models"
)

func skipIfNoPostgres(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_POSTGRES") != "true" {
		t.Skip("Skipping: TEST_POSTGRES not set. Run with docker-compose up -d")
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func testDBConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Host:            getEnvOrDefault("DB_HOST", "localhost"),
		Port:            5432,
		User:            getEnvOrDefault("DB_USER", "spicyid"),
		Password:        getEnvOrDefault("DB_PASSWORD", "spicyid_dev_password"),
		DBName:          getEnvOrDefault("DB_NAME", "spicyid"),
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

func setupTestDB(t *testing.T) (*PostgresRecordRepository, func()) {
	t.Helper()
	skipIfNoPostgres(t)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, testDBConfig())
	require.NoError(t, err)

	migrator, err := database.NewMigrator(pool)
	require.NoError(t, err)
	_, err = migrator.Up(ctx)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, "TRUNCATE records RESTART IDENTITY")
	require.NoError(t, err)

	cleanup := func() {
		_, _ = pool.Exec(ctx, "TRUNCATE records RESTART IDENTITY")
		pool.Close()
	}
	return NewPostgresRecordRepository(pool), cleanup
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, isDuplicateKeyError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isDuplicateKeyError(errors.New("duplicate key value violates unique constraint")))
	assert.False(t, isDuplicateKeyError(nil))
}

func TestJSONArg(t *testing.T) {
	assert.Nil(t, jsonArg(nil))
	assert.Nil(t, jsonArg([]byte{}))
	assert.Equal(t, `{"a":1}`, jsonArg([]byte(`{"a":1}`)))
}

func TestPostgresRecordRepository_CRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	rec, err := repo.Create(ctx, &models.RecordCreate{Name: "first", Data: json.RawMessage(`{"k":"v"}`)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.JSONEq(t, `{"k":"v"}`, string(rec.Data))

	explicit, err := repo.Create(ctx, &models.RecordCreate{ID: 123456789, Name: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), explicit.ID)
	assert.Nil(t, explicit.Data)

	_, err = repo.Create(ctx, &models.RecordCreate{ID: 123456789, Name: "dup"})
	assert.ErrorIs(t, err, models.ErrRecordExists)

	got, err := repo.GetByID(ctx, 123456789)
	require.NoError(t, err)
	assert.Equal(t, "explicit", got.Name)

	page, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].ID)

	page, err = repo.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)

	require.NoError(t, repo.Delete(ctx, 123456789))
	assert.ErrorIs(t, repo.Delete(ctx, 123456789), models.ErrRecordNotFound)

	_, err = repo.GetByID(ctx, 123456789)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)

	assert.NoError(t, repo.HealthCheck(ctx))
}

func TestPostgresRecordRepository_CreatePastMaxIDRollsBack(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := repo.Create(ctx, &models.RecordCreate{MaxID: 1, Name: "fits"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.RecordCreate{MaxID: 1, Name: "overflow"})
	assert.ErrorIs(t, err, models.ErrIDSpaceExhausted)

	page, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "fits", page[0].Name)
}
