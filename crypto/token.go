package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the amount of randomness in a reset token
const ResetTokenBytes = 32

// GenerateToken returns length cryptographically secure random bytes, hex-encoded
func GenerateToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}

// GenerateResetToken generates an opaque password reset token of size random
// bytes, or ResetTokenBytes (64 hex chars) when size is not positive
func GenerateResetToken(size int) (string, error) {
	if size <= 0 {
		size = ResetTokenBytes
	}
	return GenerateToken(size)
}
