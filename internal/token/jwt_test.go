package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type testIdentity struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	EmailAddress string `json:"email_address"`
}

var testSubject = testIdentity{
	ID:           "11111111-1111-1111-1111-111111111111",
	FirstName:    "A",
	EmailAddress: "a@x.com",
}

func accessClass() Class {
	return NewClass("user-access", "test-user-access-secret", 72*time.Hour)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc := NewService()
	class := accessClass()

	signed, err := svc.Issue(testSubject, class)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	// Compact three-part ASCII string, safe for an Authorization header.
	if parts := strings.Split(signed, "."); len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	claims, err := svc.Verify(signed, class)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}

	var got testIdentity
	if err := claims.Subject.Decode(&got); err != nil {
		t.Fatalf("Subject.Decode() failed: %v", err)
	}
	if got != testSubject {
		t.Errorf("round trip subject = %+v, want %+v", got, testSubject)
	}

	wantExp := time.Now().Add(class.Lifetime)
	if diff := time.Unix(claims.ExpiresAt, 0).Sub(wantExp); diff < -time.Minute || diff > time.Minute {
		t.Errorf("ExpiresAt off by %v", diff)
	}
}

func TestVerifyNormalizesQuoting(t *testing.T) {
	svc := NewService()
	class := accessClass()

	signed, err := svc.Issue(testSubject, class)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	for _, wrapped := range []string{
		"  " + signed + "\n",
		`"` + signed + `"`,
		` "` + signed + `" `,
	} {
		if _, err := svc.Verify(wrapped, class); err != nil {
			t.Errorf("Verify(%q...) failed: %v", wrapped[:8], err)
		}
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService()
	expired := NewClass("user-access", "test-user-access-secret", -time.Minute)

	signed, err := svc.Issue(testSubject, expired)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	if _, err := svc.Verify(signed, expired); !errors.Is(err, ErrExpired) {
		t.Errorf("Verify() error = %v, want ErrExpired", err)
	}
}

func TestVerifyZeroLifetime(t *testing.T) {
	svc := NewService()
	class := NewClass("web-access", "test-web-secret", 0)

	signed, err := svc.Issue(testSubject, class)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	if _, err := svc.Verify(signed, class); !errors.Is(err, ErrExpired) {
		t.Errorf("Verify() error = %v, want ErrExpired", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := NewService()
	class := accessClass()

	signed, err := svc.Issue(testSubject, class)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	// Flip one character of the signature segment.
	last := signed[len(signed)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	tampered := signed[:len(signed)-1] + string(flipped)

	if _, err := svc.Verify(tampered, class); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify(tampered) error = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyWrongClassKey(t *testing.T) {
	svc := NewService()

	signed, err := svc.Issue(testSubject, accessClass())
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	refresh := NewClass("user-refresh", "test-user-refresh-secret", 2400*time.Hour)
	if _, err := svc.Verify(signed, refresh); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify() with wrong class key error = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	svc := NewService()
	class := accessClass()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, _ := json.Marshal(map[string]interface{}{
		"sub": `{"id":"11111111-1111-1111-1111-111111111111"}`,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	unsigned := header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."

	if _, err := svc.Verify(unsigned, class); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("Verify(alg=none) error = %v, want ErrUnsupportedAlgorithm", err)
	}
}

func TestVerifyRejectsAsymmetricAlgorithm(t *testing.T) {
	svc := NewService()
	class := accessClass()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, _ := json.Marshal(map[string]interface{}{
		"sub": "{}",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	forged := header + "." + base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString([]byte("forged"))

	if _, err := svc.Verify(forged, class); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("Verify(alg=RS256) error = %v, want ErrUnsupportedAlgorithm", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	svc := NewService()
	class := accessClass()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "not.a.jwt"},
		{"two segments", "eyJhbGciOiJIUzI1NiJ9.eyJleHAiOjB9"},
		{"garbage", "%%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token, class); !errors.Is(err, ErrMalformed) {
				t.Errorf("Verify(%q) error = %v, want ErrMalformed", tt.token, err)
			}
		})
	}
}
