// Package models contains domain models and entities.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength bounds Record.Name in runes.
const MaxNameLength = 255

// Record is a stored entity whose primary key is rendered as a spicy ID.
// ID is the stored integer; PublicID is its encoded form and the only one
// exposed over the wire.
type Record struct {
	ID        int64           `json:"-"`
	PublicID  string          `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordCreate represents the data needed to create a new record.
// A zero ID leaves allocation to the storage layer. A positive MaxID bounds
// both explicit and allocated ids; zero leaves them unbounded.
type RecordCreate struct {
	ID    int64
	MaxID int64
	Name  string
	Data  json.RawMessage
}

// Validation and lookup errors.
var (
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrNameTooLong    = errors.New("name must be at most 255 characters")
	ErrInvalidData    = errors.New("data must be valid JSON")
	ErrNegativeID     = errors.New("id cannot be negative")
	ErrRecordNotFound = errors.New("record not found")
	ErrRecordExists   = errors.New("record already exists")

	ErrIDSpaceExhausted = errors.New("id space exhausted")
)

// Validate validates the RecordCreate data.
func (c *RecordCreate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if c.ID < 0 || c.MaxID < 0 {
		return ErrNegativeID
	}
	if !c.Admits(c.ID) {
		return fmt.Errorf("%w: id %d exceeds %d", ErrIDSpaceExhausted, c.ID, c.MaxID)
	}
	if len(c.Data) > 0 && !json.Valid(c.Data) {
		return ErrInvalidData
	}
	return nil
}

// Admits reports whether id fits under MaxID.
func (c *RecordCreate) Admits(id int64) bool {
	return c.MaxID == 0 || id <= c.MaxID
}
