package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/spicyid/spicyid/internal/models"
)

// MemoryRecordRepository is an in-process RecordRepository used when no
// database is configured.
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records map[int64]*models.Record
	nextID  int64
	now     func() time.Time
}

// NewMemoryRecordRepository creates an empty in-memory repository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{
		records: make(map[int64]*models.Record),
		nextID:  1,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a copy of the record. Allocation skips ids already taken
// by explicit inserts and fails without storing anything once the next id
// would pass create.MaxID.
func (r *MemoryRecordRepository) Create(_ context.Context, create *models.RecordCreate) (*models.Record, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := create.ID
	if id == 0 {
		for r.records[r.nextID] != nil {
			if r.nextID == math.MaxInt64 {
				return nil, fmt.Errorf("failed to create record: id space exhausted")
			}
			r.nextID++
		}
		id = r.nextID
		if !create.Admits(id) {
			return nil, fmt.Errorf("%w: next id %d exceeds %d", models.ErrIDSpaceExhausted, id, create.MaxID)
		}
	}
	if _, ok := r.records[id]; ok {
		return nil, fmt.Errorf("%w: id %d", models.ErrRecordExists, id)
	}

	rec := &models.Record{
		ID:        id,
		Name:      create.Name,
		Data:      append([]byte(nil), create.Data...),
		CreatedAt: r.now(),
	}
	if len(create.Data) == 0 {
		rec.Data = nil
	}
	r.records[id] = rec
	if id == r.nextID && id < math.MaxInt64 {
		r.nextID++
	}

	out := *rec
	return &out, nil
}

// GetByID retrieves a copy of the record.
func (r *MemoryRecordRepository) GetByID(_ context.Context, id int64) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	out := *rec
	return &out, nil
}

// Delete removes the record.
func (r *MemoryRecordRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

// List returns records after afterID in id order.
func (r *MemoryRecordRepository) List(_ context.Context, afterID int64, limit int) ([]*models.Record, error) {
	limit = clampLimit(limit)

	r.mu.RLock()
	ids := make([]int64, 0, len(r.records))
	for id := range r.records {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}

	records := make([]*models.Record, 0, len(ids))
	for _, id := range ids {
		out := *r.records[id]
		records = append(records, &out)
	}
	r.mu.RUnlock()

	return records, nil
}

// HealthCheck always succeeds.
func (r *MemoryRecordRepository) HealthCheck(context.Context) error {
	return nil
}

// Len returns the number of stored records.
func (r *MemoryRecordRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
