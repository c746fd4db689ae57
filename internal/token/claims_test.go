package token

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSubjectDecodeRawValue(t *testing.T) {
	var sub Subject
	if err := json.Unmarshal([]byte(`{"id":"abc","first_name":"A","email_address":"a@x.com"}`), &sub); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}

	var got testIdentity
	if err := sub.Decode(&got); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if got.ID != "abc" || got.FirstName != "A" || got.EmailAddress != "a@x.com" {
		t.Errorf("Decode() = %+v", got)
	}
}

func TestSubjectDecodeStringEmbedded(t *testing.T) {
	// The string-embedded form: a JSON string whose contents are JSON.
	wire, _ := json.Marshal(`{"id":"abc","first_name":"A","email_address":"a@x.com"}`)

	var sub Subject
	if err := json.Unmarshal(wire, &sub); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}

	var got testIdentity
	if err := sub.Decode(&got); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if got.ID != "abc" {
		t.Errorf("Decode() ID = %q, want %q", got.ID, "abc")
	}
}

func TestSubjectDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{"string that is not json", `"just words"`},
		{"empty subject", ``},
		{"type mismatch", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sub Subject
			if tt.wire != "" {
				if err := json.Unmarshal([]byte(tt.wire), &sub); err != nil {
					t.Fatalf("UnmarshalJSON failed: %v", err)
				}
			}

			var got testIdentity
			if err := sub.Decode(&got); !errors.Is(err, ErrClaimsInvalid) {
				t.Errorf("Decode() error = %v, want ErrClaimsInvalid", err)
			}
		})
	}
}

func TestSubjectRoundTripThroughJSON(t *testing.T) {
	sub, err := NewSubject(testSubject)
	if err != nil {
		t.Fatalf("NewSubject() failed: %v", err)
	}

	claims := &Claims{Subject: sub, ExpiresAt: 1700000000}
	encoded, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Claims
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.ExpiresAt != 1700000000 {
		t.Errorf("ExpiresAt = %d", decoded.ExpiresAt)
	}

	var got testIdentity
	if err := decoded.Subject.Decode(&got); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if got != testSubject {
		t.Errorf("subject = %+v, want %+v", got, testSubject)
	}
}
