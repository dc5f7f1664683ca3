// Package repository handles data persistence.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spicyid/spicyid/internal/database"
	"github.com/spicyid/spicyid/internal/metrics"
	"github.com/spicyid/spicyid/internal/models"
)

// MaxListLimit caps a single List page.
const MaxListLimit = 100

// RecordRepository defines the interface for record persistence operations.
// Records are addressed by their internal integer id only; rendering and
// parsing public ids happens above this layer.
type RecordRepository interface {
	// Create stores a new record. A zero create.ID lets the store allocate one.
	Create(ctx context.Context, create *models.RecordCreate) (*models.Record, error)

	// GetByID retrieves a record by its id.
	GetByID(ctx context.Context, id int64) (*models.Record, error)

	// Delete removes a record by its id.
	Delete(ctx context.Context, id int64) error

	// List returns up to limit records with id greater than afterID, ascending.
	List(ctx context.Context, afterID int64, limit int) ([]*models.Record, error)

	// HealthCheck verifies the repository is healthy.
	HealthCheck(ctx context.Context) error
}

// PostgresRecordRepository implements RecordRepository using PostgreSQL.
type PostgresRecordRepository struct {
	pool *database.Pool
}

// NewPostgresRecordRepository creates a new PostgreSQL-backed record repository.
func NewPostgresRecordRepository(pool *database.Pool) *PostgresRecordRepository {
	return &PostgresRecordRepository{pool: pool}
}

const recordColumns = `id, name, data, created_at`

// Create stores a new record. The insert runs in a transaction so an
// allocated id past create.MaxID is rolled back rather than committed.
func (r *PostgresRecordRepository) Create(ctx context.Context, create *models.RecordCreate) (*models.Record, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}
	defer observe("create_record", time.Now())

	var rec *models.Record
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var row pgx.Row
		if create.ID == 0 {
			row = tx.QueryRow(ctx,
				`INSERT INTO records (name, data) VALUES ($1, $2) RETURNING `+recordColumns,
				create.Name, jsonArg(create.Data))
		} else {
			row = tx.QueryRow(ctx,
				`INSERT INTO records (id, name, data) VALUES ($1, $2, $3) RETURNING `+recordColumns,
				create.ID, create.Name, jsonArg(create.Data))
		}

		var err error
		rec, err = scanRecord(row)
		if err != nil {
			return err
		}
		if !create.Admits(rec.ID) {
			return fmt.Errorf("%w: next id %d exceeds %d", models.ErrIDSpaceExhausted, rec.ID, create.MaxID)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrIDSpaceExhausted):
			return nil, err
		case isDuplicateKeyError(err):
			return nil, fmt.Errorf("%w: id %d", models.ErrRecordExists, create.ID)
		}
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return rec, nil
}

// GetByID retrieves a record by its id.
func (r *PostgresRecordRepository) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	defer observe("get_record", time.Now())

	row := r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM records WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// Delete removes a record by its id.
func (r *PostgresRecordRepository) Delete(ctx context.Context, id int64) error {
	defer observe("delete_record", time.Now())

	result, err := r.pool.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// List returns records after afterID in id order.
func (r *PostgresRecordRepository) List(ctx context.Context, afterID int64, limit int) ([]*models.Record, error) {
	defer observe("list_records", time.Now())

	rows, err := r.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id > $1 ORDER BY id LIMIT $2`,
		afterID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := []*models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// HealthCheck verifies the database connection is healthy.
func (r *PostgresRecordRepository) HealthCheck(ctx context.Context) error {
	return r.pool.HealthCheck(ctx)
}

func scanRecord(row pgx.Row) (*models.Record, error) {
	var rec models.Record
	var data []byte
	if err := row.Scan(&rec.ID, &rec.Name, &data, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		rec.Data = data
	}
	return &rec, nil
}

// jsonArg maps empty data to SQL NULL.
func jsonArg(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}

// isDuplicateKeyError reports a unique_violation (SQLSTATE 23505).
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
