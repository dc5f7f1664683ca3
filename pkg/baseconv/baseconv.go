// Package baseconv converts integers to and from positional numeral strings
// over arbitrary alphabets.
package baseconv

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Standard alphabets. The first symbol of each is the zero digit.
const (
	HexAlphabet    = "0123456789abcdef"
	Base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	Base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// DefaultSign prefixes negative values.
const DefaultSign = '-'

// Converter errors.
var (
	// ErrAlphabetTooShort is returned when an alphabet has fewer than two symbols.
	ErrAlphabetTooShort = errors.New("alphabet must contain at least two symbols")

	// ErrDuplicateSymbol is returned when an alphabet repeats a symbol.
	ErrDuplicateSymbol = errors.New("alphabet contains a duplicate symbol")

	// ErrSignInAlphabet is returned when the sign symbol is also a digit.
	ErrSignInAlphabet = errors.New("sign character found in converter base digits")

	// ErrEmptyString is returned when decoding an empty string.
	ErrEmptyString = errors.New("cannot decode empty string")

	// ErrInvalidCharacter is returned when decoding encounters a symbol outside the alphabet.
	ErrInvalidCharacter = errors.New("invalid character for alphabet")

	// ErrOverflow is returned when a decoded value does not fit in an int64.
	ErrOverflow = errors.New("value overflows int64")
)

// Standard converters, all using DefaultSign.
var (
	Hex    = MustNew(HexAlphabet, DefaultSign)
	Base58 = MustNew(Base58Alphabet, DefaultSign)
	Base62 = MustNew(Base62Alphabet, DefaultSign)
)

// Converter encodes int64 values in the base given by its alphabet.
// A Converter is immutable and safe for concurrent use.
type Converter struct {
	digits []rune
	values map[rune]uint64
	sign   rune
}

// New creates a Converter for the given alphabet and sign symbol.
func New(digits string, sign rune) (*Converter, error) {
	runes := []rune(digits)
	if len(runes) < 2 {
		return nil, ErrAlphabetTooShort
	}

	values := make(map[rune]uint64, len(runes))
	for i, r := range runes {
		if _, dup := values[r]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSymbol, r)
		}
		values[r] = uint64(i)
	}
	if _, clash := values[sign]; clash {
		return nil, fmt.Errorf("%w: %q", ErrSignInAlphabet, sign)
	}

	return &Converter{
		digits: runes,
		values: values,
		sign:   sign,
	}, nil
}

// MustNew is like New but panics on an invalid alphabet.
func MustNew(digits string, sign rune) *Converter {
	c, err := New(digits, sign)
	if err != nil {
		panic(err)
	}
	return c
}

// Base returns the number of symbols in the alphabet.
func (c *Converter) Base() int {
	return len(c.digits)
}

// Digits returns the alphabet.
func (c *Converter) Digits() string {
	return string(c.digits)
}

// Zero returns the zero digit, which doubles as the pad character.
func (c *Converter) Zero() rune {
	return c.digits[0]
}

// Sign returns the symbol used to mark negative values.
func (c *Converter) Sign() rune {
	return c.sign
}

// String returns a short description such as "base7(cjdhel3)".
func (c *Converter) String() string {
	return fmt.Sprintf("base%d(%s)", len(c.digits), string(c.digits))
}

// Encode converts n to its representation in the converter's base.
// Zero encodes to a single zero digit.
func (c *Converter) Encode(n int64) string {
	if n == 0 {
		return string(c.digits[0])
	}

	neg := n < 0
	u := uint64(n)
	if neg {
		// Two's complement negation also covers math.MinInt64.
		u = uint64(-n)
	}

	base := uint64(len(c.digits))
	buf := make([]rune, 0, 64)
	for u > 0 {
		buf = append(buf, c.digits[u%base])
		u /= base
	}
	if neg {
		buf = append(buf, c.sign)
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Decode converts s back to an integer. A leading sign symbol negates the result.
func (c *Converter) Decode(s string) (int64, error) {
	neg := false
	if rest, ok := strings.CutPrefix(s, string(c.sign)); ok {
		neg = true
		s = rest
	}
	if s == "" {
		return 0, ErrEmptyString
	}

	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}

	base := uint64(len(c.digits))
	var acc uint64
	for _, r := range s {
		d, ok := c.values[r]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCharacter, r)
		}
		if acc > (limit-d)/base {
			return 0, ErrOverflow
		}
		acc = acc*base + d
	}

	if neg {
		// #nosec G115 -- acc <= 1<<63, negation wraps correctly at the boundary
		return -int64(acc), nil
	}
	// #nosec G115 -- acc <= math.MaxInt64
	return int64(acc), nil
}

// Width returns the number of digits needed to represent max, i.e.
// the smallest w with base^w >= max. It returns 0 for max <= 1.
func (c *Converter) Width(max int64) int {
	if max <= 1 {
		return 0
	}
	target := uint64(max)
	base := uint64(len(c.digits))
	w := 0
	for p := uint64(1); p < target; w++ {
		if p > math.MaxUint64/base {
			return w + 1
		}
		p *= base
	}
	return w
}
