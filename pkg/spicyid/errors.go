package spicyid

import "errors"

// Errors reported by the identifier codec.
var (
	// ErrInvalidConfig is returned by New when a field configuration is unusable.
	ErrInvalidConfig = errors.New("invalid spicy id configuration")

	// ErrMalformedID is returned when a string does not satisfy the field's pattern.
	ErrMalformedID = errors.New("malformed spicy id")

	// ErrOutOfRange marks integers outside the field's bit-width domain.
	// The codec never returns it; storage layers use it with Field.InRange.
	ErrOutOfRange = errors.New("spicy id out of range")
)
