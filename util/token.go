package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const verificationTokenBytes = 20

// GenerateVerificationToken returns a 40-character lowercase hex token from
// a cryptographically secure random source. No uniqueness check is performed;
// the token space makes a collision negligible and a duplicate would surface
// as a unique-index violation in the store.
func GenerateVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateOneTimeCode returns a zero-padded 6-digit decimal code used for
// the onboarding flow.
func GenerateOneTimeCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate one-time code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
