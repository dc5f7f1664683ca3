package repository

import (
	"context"

	"github.com/spicyid/spicyid/internal/cache"
	"github.com/spicyid/spicyid/internal/metrics"
	"github.com/spicyid/spicyid/internal/models"
)

// CachedRecordRepository wraps a RecordRepository with read-through,
// write-through caching. Cache failures never fail the call.
type CachedRecordRepository struct {
	repo  RecordRepository
	cache cache.RecordCacher
}

var _ RecordRepository = (*CachedRecordRepository)(nil)

// NewCachedRecordRepository creates a new cached record repository.
func NewCachedRecordRepository(repo RecordRepository, recordCache cache.RecordCacher) *CachedRecordRepository {
	return &CachedRecordRepository{repo: repo, cache: recordCache}
}

// Create stores the record and caches it.
func (c *CachedRecordRepository) Create(ctx context.Context, create *models.RecordCreate) (*models.Record, error) {
	rec, err := c.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, toCached(rec))
	return rec, nil
}

// GetByID checks the cache first, then falls back to the wrapped repository.
func (c *CachedRecordRepository) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	if cached, err := c.cache.Get(ctx, id); err == nil {
		metrics.RecordCacheHit()
		return fromCached(cached), nil
	}
	metrics.RecordCacheMiss()

	rec, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, toCached(rec))
	return rec, nil
}

// Delete evicts the record, deletes it from the wrapped repository and
// evicts again so a read racing the delete cannot leave it cached.
func (c *CachedRecordRepository) Delete(ctx context.Context, id int64) error {
	_ = c.cache.Delete(ctx, id)
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = c.cache.Delete(ctx, id)
	return nil
}

// List is served by the wrapped repository.
func (c *CachedRecordRepository) List(ctx context.Context, afterID int64, limit int) ([]*models.Record, error) {
	return c.repo.List(ctx, afterID, limit)
}

// HealthCheck checks both cache and repository health.
func (c *CachedRecordRepository) HealthCheck(ctx context.Context) error {
	if err := c.cache.Ping(ctx); err != nil {
		return err
	}
	return c.repo.HealthCheck(ctx)
}

func toCached(rec *models.Record) *cache.CachedRecord {
	return &cache.CachedRecord{
		ID:        rec.ID,
		Name:      rec.Name,
		Data:      rec.Data,
		CreatedAt: rec.CreatedAt,
	}
}

func fromCached(cached *cache.CachedRecord) *models.Record {
	return &models.Record{
		ID:        cached.ID,
		Name:      cached.Name,
		Data:      cached.Data,
		CreatedAt: cached.CreatedAt,
	}
}
