package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"
)

const nonceSize = 12

// FieldCipher encrypts short strings (stored PII and similar) with
// AES-256-GCM. The key is derived once by hashing the configured service
// secret with SHA-256 and is stable for the process lifetime. Rotating the
// secret invalidates every previously encrypted blob; there is no key
// identifier in the wire format.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher derives the AEAD key from the service secret.
func NewFieldCipher(secret string) (*FieldCipher, error) {
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 12-byte nonce and returns
// base64url(nonce || ciphertext) without padding. The nonce must never be
// reused under the same key, which is why it is drawn per call.
func (f *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the ciphertext and tag to the nonce
	sealed := f.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It fails with ErrMalformedCiphertext before
// touching the AEAD when the blob cannot hold a nonce, and with
// ErrDecryptionFailed on tag mismatch (tampering or wrong key).
func (f *FieldCipher) Decrypt(blob string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: %d bytes is shorter than the nonce", ErrMalformedCiphertext, len(raw))
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := f.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", ErrDecryptionFailed)
	}

	return string(plaintext), nil
}
