package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateResetCode returns a 64-character hex string from 32 random bytes
func GenerateResetCode() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
