package token

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject is the payload embedded in a token's claims. On the wire it is
// either a raw JSON value or a JSON string whose contents are themselves
// serialized JSON: tokens minted by components that only had a
// string-serialized payload use the second form. Decode handles both, so
// no verifier call site needs to know which style produced a given token.
type Subject struct {
	raw json.RawMessage
}

// NewSubject serializes v and wraps it in the string-embedded form, which
// is what this service's issuer emits.
func NewSubject(v interface{}) (Subject, error) {
	inner, err := json.Marshal(v)
	if err != nil {
		return Subject{}, fmt.Errorf("failed to serialize subject: %w", err)
	}
	outer, err := json.Marshal(string(inner))
	if err != nil {
		return Subject{}, fmt.Errorf("failed to serialize subject: %w", err)
	}
	return Subject{raw: outer}, nil
}

// Decode reconstructs the subject into v. If the wire form is a JSON
// string, the string contents are parsed; otherwise the value is parsed
// directly.
func (s Subject) Decode(v interface{}) error {
	if len(s.raw) == 0 {
		return fmt.Errorf("%w: empty subject", ErrClaimsInvalid)
	}

	var embedded string
	if err := json.Unmarshal(s.raw, &embedded); err == nil {
		if err := json.Unmarshal([]byte(embedded), v); err != nil {
			return fmt.Errorf("%w: %v", ErrClaimsInvalid, err)
		}
		return nil
	}

	if err := json.Unmarshal(s.raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrClaimsInvalid, err)
	}
	return nil
}

// MarshalJSON emits the stored wire form unchanged.
func (s Subject) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// UnmarshalJSON captures the wire form without interpreting it.
func (s *Subject) UnmarshalJSON(data []byte) error {
	s.raw = append(s.raw[:0], data...)
	return nil
}

// Claims is the signed payload of every token: the subject plus an
// expiry that is always computed at issuance as now + class lifetime.
type Claims struct {
	Subject   Subject `json:"sub"`
	ExpiresAt int64   `json:"exp"`
}

// GetExpirationTime implements jwt.Claims.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) { return nil, nil }

// GetNotBefore implements jwt.Claims.
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (c *Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims.
func (c *Claims) GetSubject() (string, error) { return "", nil }

// GetAudience implements jwt.Claims.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }
