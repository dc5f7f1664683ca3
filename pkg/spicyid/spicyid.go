// Package spicyid renders integer primary keys as prefixed strings such as
// "ex_8M0kX" and parses them back.
//
// A Field is built once from a Config and is immutable afterwards; it is safe
// for concurrent use. Storage layers keep the plain integer and call
// Encode/Decode at their boundary.
package spicyid

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/spicyid/spicyid/pkg/baseconv"
)

// Encoding selects the alphabet used for the digit payload.
type Encoding string

// Supported encodings.
const (
	EncodingHex    Encoding = "hex"
	EncodingBase58 Encoding = "b58"
	EncodingBase62 Encoding = "b62"
)

// Defaults applied to zero-valued Config fields.
const (
	DefaultSeparator = "_"
	DefaultEncoding  = EncodingBase62
	DefaultBits      = 64
)

var convertersByEncoding = map[Encoding]*baseconv.Converter{
	EncodingHex:    baseconv.Hex,
	EncodingBase58: baseconv.Base58,
	EncodingBase62: baseconv.Base62,
}

var legalPrefix = regexp.MustCompile(`^[a-zA-Z][0-9a-zA-Z]*$`)

// Codec is the narrow adapter storage layers depend on.
type Codec interface {
	Encode(n int64) string
	Decode(s string) (int64, error)
}

var _ Codec = (*Field)(nil)

// Config describes an identifier field.
type Config struct {
	// Prefix is an ASCII letter followed by ASCII letters or digits.
	Prefix string
	// Separator sits between prefix and payload. Empty means DefaultSeparator.
	Separator string
	// Encoding picks the alphabet. Empty means DefaultEncoding.
	Encoding Encoding
	// Bits is the signed integer width of the storage column: 16, 32 or 64.
	// Zero means DefaultBits.
	Bits int
	// Pad left-pads every payload to the full width with the zero digit.
	Pad bool
	// Randomize draws new values uniformly from [1, MaxValue) instead of
	// relying on the storage layer's sequence.
	Randomize bool
	// Default optionally supplies new values. Mutually exclusive with Randomize.
	Default func() (int64, error)
	// Rand overrides the randomness used by Randomize. Nil means CryptoRandom.
	Rand RandomSource
}

// Field encodes and decodes identifiers for one Config.
type Field struct {
	cfg      Config
	conv     *baseconv.Converter
	maxValue int64
	width    int
	pattern  string
	re       *regexp.Regexp
}

// New validates cfg and compiles the field.
func New(cfg Config) (*Field, error) {
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}
	if cfg.Bits == 0 {
		cfg.Bits = DefaultBits
	}

	conv, ok := convertersByEncoding[cfg.Encoding]
	if !ok {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrInvalidConfig, cfg.Encoding)
	}
	if !legalPrefix.MatchString(cfg.Prefix) {
		return nil, fmt.Errorf("%w: prefix: only ascii numbers and letters allowed, must start with a letter", ErrInvalidConfig)
	}
	if !isASCII(cfg.Separator) {
		return nil, fmt.Errorf("%w: sep must be ascii", ErrInvalidConfig)
	}
	if cfg.Bits != 16 && cfg.Bits != 32 && cfg.Bits != 64 {
		return nil, fmt.Errorf("%w: bits must be 16, 32 or 64, got %d", ErrInvalidConfig, cfg.Bits)
	}
	if cfg.Randomize && cfg.Default != nil {
		return nil, fmt.Errorf("%w: cannot provide both randomize and default", ErrInvalidConfig)
	}
	if cfg.Randomize && cfg.Rand == nil {
		cfg.Rand = CryptoRandom{}
	}

	maxValue := int64(math.MaxInt64)
	if cfg.Bits < 64 {
		maxValue = int64(1)<<(cfg.Bits-1) - 1
	}
	width := conv.Width(maxValue)
	pattern := buildPattern(cfg.Prefix+cfg.Separator, conv, cfg.Pad, width)

	return &Field{
		cfg:      cfg,
		conv:     conv,
		maxValue: maxValue,
		width:    width,
		pattern:  pattern,
		re:       regexp.MustCompile("^" + pattern + "$"),
	}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(cfg Config) *Field {
	f, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return f
}

// buildPattern returns the unanchored pattern for a preamble and payload policy.
// Group 1 captures the preamble, group 2 the payload.
func buildPattern(preamble string, conv *baseconv.Converter, pad bool, width int) string {
	digits := conv.Digits()
	all := charClass(digits)
	escaped := regexp.QuoteMeta(preamble)

	if pad {
		return fmt.Sprintf("(%s)(%s{%d})", escaped, all, width)
	}

	// Leading zero digits are ambiguous, except for zero itself.
	zero := regexp.QuoteMeta(string(conv.Zero()))
	nonZero := charClass(strings.TrimPrefix(digits, string(conv.Zero())))
	return fmt.Sprintf("(%s)(%s|%s%s{0,%d})", escaped, zero, nonZero, all, width-1)
}

func charClass(digits string) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range digits {
		if r < unicode.MaxASCII && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte(']')
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// Encode renders n as prefix, separator and payload. n is expected to be in
// [0, MaxValue] and callers should check InRange first. Negative values carry
// the converter's sign and never pass Decode. Values above MaxValue either
// overflow the padded width and fail Decode, or decode to a value InRange
// rejects.
func (f *Field) Encode(n int64) string {
	payload := f.conv.Encode(n)
	if f.cfg.Pad && len(payload) < f.width {
		payload = strings.Repeat(string(f.conv.Zero()), f.width-len(payload)) + payload
	}
	return f.cfg.Prefix + f.cfg.Separator + payload
}

// Decode parses an encoded identifier. Strings that do not match the field's
// pattern yield an error wrapping ErrMalformedID.
func (f *Field) Decode(s string) (int64, error) {
	m := f.re.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q does not match %s", ErrMalformedID, s, f.re)
	}
	n, err := f.conv.Decode(m[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedID, s, err)
	}
	return n, nil
}

// Valid reports whether s decodes without error.
func (f *Field) Valid(s string) bool {
	_, err := f.Decode(s)
	return err == nil
}

// InRange reports whether n fits the field's bit-width domain [0, MaxValue].
func (f *Field) InRange(n int64) bool {
	return n >= 0 && n <= f.maxValue
}

// Coerce turns a caller-supplied value into the stored integer. It accepts
// Go integer types, json.Number and encoded identifiers.
func (f *Field) Coerce(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case json.Number:
		n, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedID, x)
		}
		return n, nil
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrMalformedID, x)
		}
		return int64(x), nil
	case string:
		return f.Decode(x)
	default:
		return 0, fmt.Errorf("%w: unsupported value of type %T", ErrMalformedID, v)
	}
}

// HasDefault reports whether the field generates its own values.
func (f *Field) HasDefault() bool {
	return f.cfg.Randomize || f.cfg.Default != nil
}

// NextDefault produces a new value from the configured default. With
// Randomize it draws uniformly from [1, MaxValue). Without any default it
// returns 0, leaving allocation to the storage layer.
func (f *Field) NextDefault() (int64, error) {
	switch {
	case f.cfg.Randomize:
		n, err := f.cfg.Rand.Int63n(f.maxValue - 1)
		if err != nil {
			return 0, fmt.Errorf("failed to draw random id: %w", err)
		}
		return n + 1, nil
	case f.cfg.Default != nil:
		return f.cfg.Default()
	default:
		return 0, nil
	}
}

// Pattern returns the unanchored pattern, suitable for embedding in routes.
// Group 1 is the preamble and group 2 the payload.
func (f *Field) Pattern() string {
	return f.pattern
}

// Regexp returns the anchored, compiled pattern.
func (f *Field) Regexp() *regexp.Regexp {
	return f.re
}

// Config returns the resolved configuration, defaults filled in.
func (f *Field) Config() Config {
	return f.cfg
}

// Prefix returns the configured prefix.
func (f *Field) Prefix() string { return f.cfg.Prefix }

// Separator returns the configured separator.
func (f *Field) Separator() string { return f.cfg.Separator }

// Encoding returns the configured encoding.
func (f *Field) Encoding() Encoding { return f.cfg.Encoding }

// Bits returns the storage bit width.
func (f *Field) Bits() int { return f.cfg.Bits }

// Pad reports whether payloads are padded to Width.
func (f *Field) Pad() bool { return f.cfg.Pad }

// Randomize reports whether new values are drawn at random.
func (f *Field) Randomize() bool { return f.cfg.Randomize }

// MaxValue returns 2^(Bits-1)-1.
func (f *Field) MaxValue() int64 { return f.maxValue }

// Width returns the maximum payload length.
func (f *Field) Width() int { return f.width }

// Converter returns the base converter used for payloads.
func (f *Field) Converter() *baseconv.Converter { return f.conv }

// ParseEncoding maps a configuration string onto an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	e := Encoding(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := convertersByEncoding[e]; !ok {
		return "", fmt.Errorf("%w: unknown encoding %q", ErrInvalidConfig, s)
	}
	return e, nil
}
