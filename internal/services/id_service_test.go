package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicyid/spicyid/pkg/spicyid"
)

func TestIDService_Encode(t *testing.T) {
	svc := NewIDService(spicyid.MustNew(spicyid.Config{Prefix: "ex", Pad: true}))

	got, err := svc.Encode(123456789)
	require.NoError(t, err)
	assert.Equal(t, "ex_0000008M0kX", got)

	got, err = svc.Encode(math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, "ex_AzL8n0Y58m7", got)

	_, err = svc.Encode(-1)
	assert.ErrorIs(t, err, spicyid.ErrOutOfRange)
}

func TestIDService_EncodeNarrowField(t *testing.T) {
	svc := NewIDService(spicyid.MustNew(spicyid.Config{Prefix: "ex", Bits: 16}))

	got, err := svc.Encode(math.MaxInt16)
	require.NoError(t, err)
	assert.Equal(t, "ex_8WV", got)

	_, err = svc.Encode(math.MaxInt16 + 1)
	assert.ErrorIs(t, err, spicyid.ErrOutOfRange)
}

func TestIDService_Decode(t *testing.T) {
	svc := NewIDService(spicyid.MustNew(spicyid.Config{Prefix: "ex", Bits: 32}))

	n, err := svc.Decode("ex_8M0kX")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), n)

	_, err = svc.Decode("ex_08M0kX")
	assert.ErrorIs(t, err, spicyid.ErrMalformedID)

	_, err = svc.Decode("ex_zzzzzz")
	assert.ErrorIs(t, err, spicyid.ErrOutOfRange)
}

func TestIDService_Valid(t *testing.T) {
	svc := NewIDService(spicyid.MustNew(spicyid.Config{Prefix: "ex", Encoding: spicyid.EncodingHex}))

	assert.True(t, svc.Valid("ex_deadbeef"))
	assert.False(t, svc.Valid("ex_DEADBEEF"))
	assert.False(t, svc.Valid("bloop"))
}

func TestIDService_Info(t *testing.T) {
	svc := NewIDService(spicyid.MustNew(spicyid.Config{Prefix: "ex", Encoding: spicyid.EncodingHex, Pad: true}))

	assert.Equal(t, FieldInfo{
		Prefix:    "ex",
		Separator: "_",
		Encoding:  "hex",
		Alphabet:  "0123456789abcdef",
		Bits:      64,
		Pad:       true,
		Width:     16,
		MaxValue:  math.MaxInt64,
		Pattern:   "(ex_)([0123456789abcdef]{16})",
	}, svc.Info())
}
