package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spicyid/spicyid/internal/metrics"
	"github.com/spicyid/spicyid/internal/models"
	"github.com/spicyid/spicyid/internal/repository"
	"github.com/spicyid/spicyid/pkg/spicyid"
)

// Page size bounds for List.
const (
	DefaultPageSize = 20
	MaxPageSize     = repository.MaxListLimit
)

// CreateRecordRequest represents the input for creating a record.
// ID is optional and may be an integer, a json.Number or an encoded id.
type CreateRecordRequest struct {
	ID   any
	Name string
	Data json.RawMessage
}

// RecordPage is one page of a List call. Next is the cursor for the
// following page, empty on the last one.
type RecordPage struct {
	Records []*models.Record `json:"records"`
	Next    string           `json:"next,omitempty"`
}

// RecordService defines the interface for record operations addressed by
// public id.
type RecordService interface {
	Create(ctx context.Context, req CreateRecordRequest) (*models.Record, error)
	Get(ctx context.Context, publicID string) (*models.Record, error)
	Delete(ctx context.Context, publicID string) error
	List(ctx context.Context, after string, limit int) (*RecordPage, error)
}

// RecordServiceImpl implements RecordService.
type RecordServiceImpl struct {
	repo  repository.RecordRepository
	field *spicyid.Field
}

// NewRecordService creates a new RecordService instance.
func NewRecordService(repo repository.RecordRepository, field *spicyid.Field) *RecordServiceImpl {
	return &RecordServiceImpl{repo: repo, field: field}
}

// Create stores a record. The id is taken from the request when given,
// otherwise from the field's default, otherwise from the repository.
// A default id that is already taken surfaces as models.ErrRecordExists.
func (s *RecordServiceImpl) Create(ctx context.Context, req CreateRecordRequest) (*models.Record, error) {
	switch {
	case req.ID != nil:
		id, err := s.field.Coerce(req.ID)
		if err != nil {
			return nil, err
		}
		if err := s.assignable(id); err != nil {
			return nil, err
		}
		return s.insert(ctx, id, req, metrics.AllocationExplicit)
	case !s.field.HasDefault():
		return s.insert(ctx, 0, req, metrics.AllocationSequence)
	}

	id, err := s.field.NextDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}
	if err := s.assignable(id); err != nil {
		return nil, err
	}
	return s.insert(ctx, id, req, metrics.AllocationDefault)
}

// assignable rejects ids a caller or default may not claim. Zero is
// reserved for repository allocation.
func (s *RecordServiceImpl) assignable(id int64) error {
	if id <= 0 || !s.field.InRange(id) {
		return fmt.Errorf("%w: %d not in [1, %d]", spicyid.ErrOutOfRange, id, s.field.MaxValue())
	}
	return nil
}

func (s *RecordServiceImpl) insert(ctx context.Context, id int64, req CreateRecordRequest, allocation string) (*models.Record, error) {
	rec, err := s.repo.Create(ctx, &models.RecordCreate{
		ID:    id,
		MaxID: s.field.MaxValue(),
		Name:  req.Name,
		Data:  req.Data,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCreated(allocation)
	s.render(rec)
	return rec, nil
}

// Get retrieves a record by its public id. Well-formed ids outside the
// field's domain cannot exist and are reported as not found.
func (s *RecordServiceImpl) Get(ctx context.Context, publicID string) (*models.Record, error) {
	id, err := s.lookup(publicID)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.render(rec)
	return rec, nil
}

// Delete removes a record by its public id.
func (s *RecordServiceImpl) Delete(ctx context.Context, publicID string) error {
	id, err := s.lookup(publicID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List returns records after the record identified by the after cursor.
// An empty cursor starts from the beginning. Stored ids the field cannot
// render are skipped.
func (s *RecordServiceImpl) List(ctx context.Context, after string, limit int) (*RecordPage, error) {
	var afterID int64
	if after != "" {
		id, err := decode(s.field, after)
		if err != nil {
			return nil, err
		}
		afterID = id
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	records, err := s.repo.List(ctx, afterID, limit)
	if err != nil {
		return nil, err
	}

	// Rows past MaxValue sort last and have no public id.
	page := &RecordPage{Records: make([]*models.Record, 0, len(records))}
	for _, rec := range records {
		if !s.field.InRange(rec.ID) {
			continue
		}
		s.render(rec)
		page.Records = append(page.Records, rec)
	}
	if len(page.Records) == limit {
		page.Next = page.Records[limit-1].PublicID
	}
	return page, nil
}

func (s *RecordServiceImpl) lookup(publicID string) (int64, error) {
	id, err := decode(s.field, publicID)
	if errors.Is(err, spicyid.ErrOutOfRange) {
		return 0, models.ErrRecordNotFound
	}
	return id, err
}

func (s *RecordServiceImpl) render(rec *models.Record) {
	rec.PublicID = s.field.Encode(rec.ID)
	metrics.RecordEncode()
}
