package auth

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid email", "test@example.com", true},
		{"valid with subdomain", "user@mail.example.com", true},
		{"valid with plus", "user+tag@example.com", true},
		{"valid with dots", "first.last@example.co.uk", true},
		{"invalid no @", "userexample.com", false},
		{"invalid no domain", "user@", false},
		{"invalid no user", "@example.com", false},
		{"invalid spaces", "user @example.com", false},
		{"invalid double @", "user@@example.com", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"lowercase", "USER@EXAMPLE.COM", "user@example.com"},
		{"trim spaces", "  user@example.com  ", "user@example.com"},
		{"both", "  USER@EXAMPLE.COM  ", "user@example.com"},
		{"already clean", "user@example.com", "user@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeEmail(tt.email); got != tt.want {
				t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateSignUpRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         *SignUpRequest
		shouldError bool
		errorField  string
	}{
		{
			name: "valid request",
			req: &SignUpRequest{
				FirstName:    "Ada",
				SecondName:   "Lovelace",
				EmailAddress: "ada@example.com",
				Password:     "password123",
			},
			shouldError: false,
		},
		{
			name: "missing first name",
			req: &SignUpRequest{
				SecondName:   "Lovelace",
				EmailAddress: "ada@example.com",
				Password:     "password123",
			},
			shouldError: true,
			errorField:  "first_name",
		},
		{
			name: "missing second name",
			req: &SignUpRequest{
				FirstName:    "Ada",
				EmailAddress: "ada@example.com",
				Password:     "password123",
			},
			shouldError: true,
			errorField:  "second_name",
		},
		{
			name: "invalid email",
			req: &SignUpRequest{
				FirstName:    "Ada",
				SecondName:   "Lovelace",
				EmailAddress: "notanemail",
				Password:     "password123",
			},
			shouldError: true,
			errorField:  "email_address",
		},
		{
			name: "short password",
			req: &SignUpRequest{
				FirstName:    "Ada",
				SecondName:   "Lovelace",
				EmailAddress: "ada@example.com",
				Password:     "short",
			},
			shouldError: true,
			errorField:  "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignUpRequest(tt.req)
			if (err != nil) != tt.shouldError {
				t.Errorf("ValidateSignUpRequest() error = %v, shouldError = %v", err, tt.shouldError)
				return
			}

			if err != nil && tt.errorField != "" {
				if !strings.Contains(err.Error(), tt.errorField) {
					t.Errorf("expected error to contain field %q, got: %v", tt.errorField, err)
				}
			}
		})
	}
}

func TestValidateSignInRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         *SignInRequest
		shouldError bool
		errorField  string
	}{
		{
			name:        "valid request",
			req:         &SignInRequest{EmailAddress: "user@example.com", Password: "password123"},
			shouldError: false,
		},
		{
			name:        "empty email",
			req:         &SignInRequest{Password: "password123"},
			shouldError: true,
			errorField:  "email_address",
		},
		{
			name:        "invalid email",
			req:         &SignInRequest{EmailAddress: "notanemail", Password: "password123"},
			shouldError: true,
			errorField:  "email_address",
		},
		{
			name:        "empty password",
			req:         &SignInRequest{EmailAddress: "user@example.com"},
			shouldError: true,
			errorField:  "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignInRequest(tt.req)
			if (err != nil) != tt.shouldError {
				t.Errorf("ValidateSignInRequest() error = %v, shouldError = %v", err, tt.shouldError)
				return
			}

			if err != nil && tt.errorField != "" {
				if !strings.Contains(err.Error(), tt.errorField) {
					t.Errorf("expected error to contain field %q, got: %v", tt.errorField, err)
				}
			}
		})
	}
}
