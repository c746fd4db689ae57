package token

import "errors"

// Classified verification failures. The HTTP boundary collapses all of
// these into a uniform unauthorized response; the distinction exists for
// internal logging and tests.
var (
	ErrSignatureInvalid     = errors.New("token signature invalid")
	ErrExpired              = errors.New("token expired")
	ErrMalformed            = errors.New("token malformed")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrClaimsInvalid indicates the claims decoded but the subject could
	// not be reconstructed into the target type.
	ErrClaimsInvalid = errors.New("invalid token claims")
)
