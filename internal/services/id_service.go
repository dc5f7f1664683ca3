// Package services contains business logic.
package services

import (
	"fmt"

	"github.com/spicyid/spicyid/internal/metrics"
	"github.com/spicyid/spicyid/pkg/spicyid"
)

// FieldInfo describes the active identifier field.
type FieldInfo struct {
	Prefix    string `json:"prefix"`
	Separator string `json:"separator"`
	Encoding  string `json:"encoding"`
	Alphabet  string `json:"alphabet"`
	Bits      int    `json:"bits"`
	Pad       bool   `json:"pad"`
	Randomize bool   `json:"randomize"`
	Width     int    `json:"width"`
	MaxValue  int64  `json:"max_value"`
	Pattern   string `json:"pattern"`
}

// IDService exposes the identifier codec.
type IDService interface {
	Encode(n int64) (string, error)
	Decode(s string) (int64, error)
	Valid(s string) bool
	Info() FieldInfo
}

// IDServiceImpl implements IDService over a spicyid.Field.
type IDServiceImpl struct {
	field *spicyid.Field
}

// NewIDService creates a new IDService.
func NewIDService(field *spicyid.Field) *IDServiceImpl {
	return &IDServiceImpl{field: field}
}

// Encode renders n, rejecting values outside the field's domain.
func (s *IDServiceImpl) Encode(n int64) (string, error) {
	if !s.field.InRange(n) {
		return "", outOfRange(s.field, n)
	}
	metrics.RecordEncode()
	return s.field.Encode(n), nil
}

// Decode parses an identifier and checks it fits the field's domain.
func (s *IDServiceImpl) Decode(str string) (int64, error) {
	return decode(s.field, str)
}

// Valid reports whether str is a well-formed identifier for this field.
func (s *IDServiceImpl) Valid(str string) bool {
	return s.field.Valid(str)
}

// Info returns the field description.
func (s *IDServiceImpl) Info() FieldInfo {
	return FieldInfo{
		Prefix:    s.field.Prefix(),
		Separator: s.field.Separator(),
		Encoding:  string(s.field.Encoding()),
		Alphabet:  s.field.Converter().Digits(),
		Bits:      s.field.Bits(),
		Pad:       s.field.Pad(),
		Randomize: s.field.Randomize(),
		Width:     s.field.Width(),
		MaxValue:  s.field.MaxValue(),
		Pattern:   s.field.Pattern(),
	}
}

// decode parses str and records the outcome.
func decode(field *spicyid.Field, str string) (int64, error) {
	n, err := field.Decode(str)
	if err != nil {
		metrics.RecordDecode(metrics.OutcomeMalformed)
		return 0, err
	}
	if !field.InRange(n) {
		metrics.RecordDecode(metrics.OutcomeOutOfRange)
		return 0, outOfRange(field, n)
	}
	metrics.RecordDecode(metrics.OutcomeOK)
	return n, nil
}

func outOfRange(field *spicyid.Field, n int64) error {
	return fmt.Errorf("%w: %d not in [0, %d]", spicyid.ErrOutOfRange, n, field.MaxValue())
}
