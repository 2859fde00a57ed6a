package id

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewLoanNumber returns a random 6-digit numeric string (100000-999999).
func NewLoanNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is unavailable
		return "100000"
	}
	return new(big.Int).Add(n, big.NewInt(100000)).String()
}
