package baseconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip_StandardAlphabets(t *testing.T) {
	nums := []int64{-10_000_000_000, 10_000_000_000, math.MaxInt64, math.MinInt64}
	for i := int64(-100); i <= 100; i++ {
		nums = append(nums, i)
	}

	for _, conv := range []*Converter{Hex, Base58, Base62} {
		t.Run(conv.String(), func(t *testing.T) {
			for _, n := range nums {
				decoded, err := conv.Decode(conv.Encode(n))
				require.NoError(t, err, "decode failed for %d", n)
				assert.Equal(t, n, decoded, "round trip failed for %d", n)
			}
		})
	}
}

func TestEncode_Zero(t *testing.T) {
	for _, conv := range []*Converter{Hex, Base58, Base62} {
		encoded := conv.Encode(0)
		assert.Equal(t, string(conv.Zero()), encoded)

		decoded, err := conv.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, int64(0), decoded)
	}
}

func TestKnownValues(t *testing.T) {
	base20 := MustNew("0123456789abcdefghij", DefaultSign)
	base11 := MustNew("0123456789-", '$')
	base7 := MustNew("cjdhel3", 'g')

	tests := []struct {
		name     string
		conv     *Converter
		input    int64
		expected string
	}{
		{name: "base20 positive", conv: base20, input: 1234, expected: "31e"},
		{name: "base20 negative", conv: base20, input: -1234, expected: "-31e"},
		{name: "base11 positive", conv: base11, input: 1234, expected: "-22"},
		{name: "base11 negative", conv: base11, input: -1234, expected: "$-22"},
		{name: "base7 positive", conv: base7, input: 1234, expected: "hejd"},
		{name: "base7 negative", conv: base7, input: -1234, expected: "ghejd"},
		{name: "base58 positive", conv: Base58, input: 1234, expected: "NH"},
		{name: "base58 negative", conv: Base58, input: -1234, expected: "-NH"},
		{name: "base62 positive", conv: Base62, input: 1234, expected: "Ju"},
		{name: "base62 negative", conv: Base62, input: -1234, expected: "-Ju"},
		{name: "hex", conv: Hex, input: 123456789, expected: "75bcd15"},
		{name: "base62 max int64", conv: Base62, input: math.MaxInt64, expected: "AzL8n0Y58m7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.conv.Encode(tt.input))

			decoded, err := tt.conv.Decode(tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New("abc", 'a')
	assert.ErrorIs(t, err, ErrSignInAlphabet)

	conv, err := New("abc", 'd')
	require.NoError(t, err)
	assert.Equal(t, 3, conv.Base())

	_, err = New("a", '-')
	assert.ErrorIs(t, err, ErrAlphabetTooShort)

	_, err = New("abca", '-')
	assert.ErrorIs(t, err, ErrDuplicateSymbol)

	assert.Panics(t, func() { MustNew("01", '0') })
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrEmptyString},
		{name: "sign only", input: "-", wantErr: ErrEmptyString},
		{name: "underscore", input: "abc_def", wantErr: ErrInvalidCharacter},
		{name: "sign in the middle", input: "ab-c", wantErr: ErrInvalidCharacter},
		{name: "one past max int64", input: "AzL8n0Y58m8", wantErr: ErrOverflow},
		{name: "far too long", input: "zzzzzzzzzzzzzzzz", wantErr: ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Base62.Decode(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_MinInt64(t *testing.T) {
	encoded := Hex.Encode(math.MinInt64)
	assert.Equal(t, "-8000000000000000", encoded)

	decoded, err := Hex.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), decoded)

	_, err = Hex.Decode("-8000000000000001")
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestWidth(t *testing.T) {
	tests := []struct {
		name     string
		conv     *Converter
		max      int64
		expected int
	}{
		{name: "base62 64-bit", conv: Base62, max: math.MaxInt64, expected: 11},
		{name: "base58 64-bit", conv: Base58, max: math.MaxInt64, expected: 11},
		{name: "hex 64-bit", conv: Hex, max: math.MaxInt64, expected: 16},
		{name: "base62 32-bit", conv: Base62, max: math.MaxInt32, expected: 6},
		{name: "hex 32-bit", conv: Hex, max: math.MaxInt32, expected: 8},
		{name: "base62 16-bit", conv: Base62, max: math.MaxInt16, expected: 3},
		{name: "hex 16-bit", conv: Hex, max: math.MaxInt16, expected: 4},
		{name: "exact power", conv: Hex, max: 256, expected: 2},
		{name: "one", conv: Hex, max: 1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.conv.Width(tt.max))
		})
	}
}

func TestString(t *testing.T) {
	base7 := MustNew("cjdhel3", 'g')
	assert.Equal(t, "base7(cjdhel3)", base7.String())
	assert.Equal(t, "cjdhel3", base7.Digits())
	assert.Equal(t, 'g', base7.Sign())
}

func BenchmarkEncode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Base62.Encode(int64(i))
	}
}

func BenchmarkDecode(b *testing.B) {
	encoded := Base62.Encode(123456789)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Base62.Decode(encoded)
	}
}
