package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Service issues and verifies signed tokens. It is stateless and safe for
// concurrent use; all key material lives in the Class passed per call.
type Service struct {
	now func() time.Time
}

// NewService creates a new token service.
func NewService() *Service {
	return &Service{now: time.Now}
}

// Issue signs subject under class's key with an expiry of now + class
// lifetime and returns the compact token string.
func (s *Service) Issue(subject interface{}, class Class) (string, error) {
	sub, err := NewSubject(subject)
	if err != nil {
		return "", err
	}

	claims := &Claims{
		Subject:   sub,
		ExpiresAt: s.now().Add(class.Lifetime).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(class.Key)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", class.Name, err)
	}

	return signed, nil
}

// Verify validates tokenString against class's key and returns the
// embedded claims. Any HMAC variant is accepted; every other algorithm,
// including none, is rejected. Errors are classified as
// ErrSignatureInvalid, ErrExpired, ErrUnsupportedAlgorithm or ErrMalformed.
func (s *Service) Verify(tokenString string, class Class) (*Claims, error) {
	// Tokens are frequently round-tripped through contexts that re-quote
	// them; normalize before decoding.
	tokenString = strings.Trim(strings.TrimSpace(tokenString), `"`)

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, t.Header["alg"])
		}
		return class.Key, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}

	// The expiry check must hold independent of the signature check; this
	// also covers classes configured with a zero or negative lifetime.
	if !s.now().Before(time.Unix(claims.ExpiresAt, 0)) {
		return nil, ErrExpired
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
