package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 16
	keyLength  = 32

	// maxVerifyMemoryKiB caps the memory cost accepted from a stored
	// digest (1 GiB). Anything above it cannot be a digest this service
	// produced.
	maxVerifyMemoryKiB = 1 << 20
)

// HashParams holds the Argon2id cost parameters.
type HashParams struct {
	TimeCost    uint32
	MemoryKiB   uint32
	Parallelism uint8
}

// DefaultHashParams matches the RFC 9106 low-memory recommendation.
var DefaultHashParams = HashParams{
	TimeCost:    2,
	MemoryKiB:   64 * 1024,
	Parallelism: 1,
}

// Hasher produces and verifies Argon2id password digests in PHC string
// format. The digest embeds the algorithm, version, cost parameters and
// salt, so verification needs no side-channel storage.
type Hasher struct {
	params HashParams
}

// NewHasher creates a hasher with the given cost parameters. Zero-valued
// fields fall back to DefaultHashParams.
func NewHasher(params HashParams) *Hasher {
	if params.TimeCost == 0 {
		params.TimeCost = DefaultHashParams.TimeCost
	}
	if params.MemoryKiB == 0 {
		params.MemoryKiB = DefaultHashParams.MemoryKiB
	}
	if params.Parallelism == 0 {
		params.Parallelism = DefaultHashParams.Parallelism
	}
	return &Hasher{params: params}
}

// Hash derives an Argon2id digest of the password under a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailed, err)
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.TimeCost,
		h.params.MemoryKiB,
		h.params.Parallelism,
		keyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.TimeCost,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify recomputes the digest under the parameters embedded in encodedHash
// and compares in constant time. A non-matching password returns (false, nil);
// an error is returned only when the digest itself cannot be parsed.
func (h *Hasher) Verify(encodedHash, password string) (bool, error) {
	// PHC layout: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("%w: expected 6 segments, got %d", ErrMalformedDigest, len(parts))
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedDigest, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("%w: unsupported version %d", ErrMalformedDigest, version)
	}

	var memory, timeCost uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &parallelism); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
	// argon2.IDKey panics on zero rounds or lanes, and an attacker-supplied
	// memory cost would drive the allocation; reject such digests as
	// malformed before deriving anything.
	if timeCost < 1 || parallelism < 1 {
		return false, fmt.Errorf("%w: cost parameters m=%d,t=%d,p=%d out of range",
			ErrMalformedDigest, memory, timeCost, parallelism)
	}
	if memory < 8*uint32(parallelism) || memory > maxVerifyMemoryKiB {
		return false, fmt.Errorf("%w: memory cost %d KiB out of range", ErrMalformedDigest, memory)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: bad salt encoding: %v", ErrMalformedDigest, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: bad hash encoding: %v", ErrMalformedDigest, err)
	}

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		timeCost,
		memory,
		parallelism,
		uint32(len(expected)),
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
