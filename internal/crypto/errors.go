package crypto

import "errors"

// Sentinel errors returned by the hashing and cipher primitives. Callers
// branch on these with errors.Is rather than matching message strings.
var (
	// ErrHashingFailed indicates the password hash could not be computed.
	ErrHashingFailed = errors.New("password hashing failed")

	// ErrMalformedDigest indicates a stored digest string could not be parsed.
	// A non-matching password is not an error; Verify returns false for that.
	ErrMalformedDigest = errors.New("malformed password digest")

	// ErrMalformedCiphertext indicates an encrypted blob that is not valid
	// base64url or is too short to contain a nonce.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrDecryptionFailed indicates an authentication tag mismatch: the blob
	// was tampered with or encrypted under a different key.
	ErrDecryptionFailed = errors.New("decryption failed")
)
