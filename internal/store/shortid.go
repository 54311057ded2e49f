package store

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// ShortIDLength is the number of characters in a short id.
	ShortIDLength = 10

	shortIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// MaxShortIDAttempts bounds how many fresh short ids Create tries before
// giving up on a unique-constraint collision.
const MaxShortIDAttempts = 5

// GenerateShortID returns a random short id drawn uniformly from the
// 62 character alphabet.
func GenerateShortID() (string, error) {
	max := big.NewInt(int64(len(shortIDAlphabet)))
	buf := make([]byte, ShortIDLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate short id: %w", err)
		}
		buf[i] = shortIDAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsShortID reports whether s has the shape of a short id.
func IsShortID(s string) bool {
	if len(s) != ShortIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		default:
			return false
		}
	}
	return true
}
