package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCreate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		create  RecordCreate
		wantErr error
	}{
		{
			name:   "valid without id",
			create: RecordCreate{Name: "first"},
		},
		{
			name:   "valid with id and data",
			create: RecordCreate{ID: 123456789, Name: "custom", Data: json.RawMessage(`{"k":1}`)},
		},
		{
			name:    "empty name",
			create:  RecordCreate{Name: ""},
			wantErr: ErrEmptyName,
		},
		{
			name:    "whitespace name",
			create:  RecordCreate{Name: "   "},
			wantErr: ErrEmptyName,
		},
		{
			name:    "name too long",
			create:  RecordCreate{Name: strings.Repeat("x", MaxNameLength+1)},
			wantErr: ErrNameTooLong,
		},
		{
			name:   "multibyte name at limit",
			create: RecordCreate{Name: strings.Repeat("é", MaxNameLength)},
		},
		{
			name:    "negative id",
			create:  RecordCreate{ID: -1, Name: "neg"},
			wantErr: ErrNegativeID,
		},
		{
			name:   "explicit id at max",
			create: RecordCreate{ID: 32767, MaxID: 32767, Name: "top"},
		},
		{
			name:    "explicit id past max",
			create:  RecordCreate{ID: 32768, MaxID: 32767, Name: "over"},
			wantErr: ErrIDSpaceExhausted,
		},
		{
			name:    "negative max",
			create:  RecordCreate{MaxID: -1, Name: "neg"},
			wantErr: ErrNegativeID,
		},
		{
			name:    "invalid json data",
			create:  RecordCreate{Name: "bad", Data: json.RawMessage(`{"k":`)},
			wantErr: ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.create.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecord_JSONHidesInternalID(t *testing.T) {
	rec := Record{
		ID:        123456789,
		PublicID:  "ex_8M0kX",
		Name:      "custom",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "ex_8M0kX", out["id"])
	assert.Equal(t, "custom", out["name"])
	assert.NotContains(t, string(data), "123456789")
	_, hasData := out["data"]
	assert.False(t, hasData)
}
