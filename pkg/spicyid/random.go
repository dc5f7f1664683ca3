package spicyid

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// RandomSource draws uniformly distributed integers.
type RandomSource interface {
	// Int63n returns a value in [0, n). n must be positive.
	Int63n(n int64) (int64, error)
}

// CryptoRandom is a RandomSource backed by crypto/rand.
type CryptoRandom struct{}

var errNonPositiveBound = errors.New("random bound must be positive")

// Int63n returns a cryptographically secure value in [0, n).
func (CryptoRandom) Int63n(n int64) (int64, error) {
	if n <= 0 {
		return 0, errNonPositiveBound
	}
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}
