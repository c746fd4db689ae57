package crypto

import (
	"crypto/rand"
	"fmt"
)

// codeRejectionBound is the largest multiple of 10 that fits in a byte.
// Bytes at or above it are discarded so that b % 10 stays uniform; taking
// the modulo over the full 0-255 range would skew the result toward 0-5.
const codeRejectionBound = 250

// GenerateCode returns a numeric one-time code of exactly length digits,
// each digit drawn independently and uniformly from the OS RNG.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}

	code := make([]byte, 0, length)
	buf := make([]byte, 32)
	for len(code) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if len(code) >= length {
				break
			}
			if b < codeRejectionBound {
				code = append(code, '0'+b%10)
			}
		}
	}

	return string(code), nil
}
