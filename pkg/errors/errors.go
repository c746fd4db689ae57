package errors

import "fmt"

// AppError represents a custom application error
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeEmailExists        = "EMAIL_EXISTS"
	ErrCodeInvalidCode        = "INVALID_CODE"
	ErrCodeCodeExpired        = "CODE_EXPIRED"
	ErrCodePasswordMismatch   = "PASSWORD_MISMATCH"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
)

// NewAppError creates a new application error
func NewAppError(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Common errors
var (
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, "Invalid email or password", 401)
	ErrInvalidToken       = NewAppError(ErrCodeInvalidToken, "Invalid token", 401)
	ErrTokenExpired       = NewAppError(ErrCodeTokenExpired, "Token expired", 401)
	ErrEmailExists        = NewAppError(ErrCodeEmailExists, "Email already exists", 409)
	ErrInvalidCode        = NewAppError(ErrCodeInvalidCode, "Invalid code", 400)
	ErrCodeHasExpired     = NewAppError(ErrCodeCodeExpired, "Code expired", 400)
	ErrPasswordMismatch   = NewAppError(ErrCodePasswordMismatch, "Passwords do not match", 400)
	ErrUnauthorized       = NewAppError(ErrCodeUnauthorized, "Unauthorized", 401)
	ErrNotFound           = NewAppError(ErrCodeNotFound, "Not found", 404)
)
