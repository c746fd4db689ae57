package auth

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Email validation regex (RFC 5322 simplified)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Password requirements
	minPasswordLength = 8
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type validationErrors struct {
	Errors []ValidationError
}

func (e *validationErrors) Error() string {
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// ValidateSignUpRequest validates a sign-up request
func ValidateSignUpRequest(req *SignUpRequest) error {
	errs := make([]ValidationError, 0)

	if req.FirstName == "" {
		errs = append(errs, ValidationError{
			Field:   "first_name",
			Message: "First name is required",
		})
	}

	if req.SecondName == "" {
		errs = append(errs, ValidationError{
			Field:   "second_name",
			Message: "Second name is required",
		})
	}

	errs = appendEmailErrors(errs, req.EmailAddress)
	errs = appendPasswordErrors(errs, req.Password)

	if len(errs) > 0 {
		return &validationErrors{Errors: errs}
	}
	return nil
}

// ValidateSignInRequest validates a sign-in request
func ValidateSignInRequest(req *SignInRequest) error {
	errs := make([]ValidationError, 0)

	errs = appendEmailErrors(errs, req.EmailAddress)

	if req.Password == "" {
		errs = append(errs, ValidationError{
			Field:   "password",
			Message: "Password is required",
		})
	}

	if len(errs) > 0 {
		return &validationErrors{Errors: errs}
	}
	return nil
}

func appendEmailErrors(errs []ValidationError, email string) []ValidationError {
	if email == "" {
		return append(errs, ValidationError{
			Field:   "email_address",
			Message: "Email is required",
		})
	}
	if !IsValidEmail(email) {
		return append(errs, ValidationError{
			Field:   "email_address",
			Message: "Email format is invalid",
		})
	}
	return errs
}

func appendPasswordErrors(errs []ValidationError, password string) []ValidationError {
	if password == "" {
		return append(errs, ValidationError{
			Field:   "password",
			Message: "Password is required",
		})
	}
	if len(password) < minPasswordLength {
		return append(errs, ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength),
		})
	}
	return errs
}

// IsValidEmail checks if an email address is valid
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// SanitizeEmail normalizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
