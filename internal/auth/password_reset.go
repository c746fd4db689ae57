package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lattice-hq/sentinel/internal/crypto"
	"github.com/lattice-hq/sentinel/internal/events"
	"github.com/lattice-hq/sentinel/internal/user"
	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
)

const (
	resetCodeLength = 6

	// A recovery code stays usable for a week after it is issued.
	resetCodeWindow = 7 * 24 * time.Hour
)

// SendResetCodeRequest represents a recovery code request
type SendResetCodeRequest struct {
	EmailAddress string `json:"email_address" binding:"required"`
}

// VerifyResetCodeRequest represents a recovery code verification request
type VerifyResetCodeRequest struct {
	EmailAddress string `json:"email_address" binding:"required"`
	Code         string `json:"code" binding:"required"`
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// SendResetCode generates a recovery code for the account and hands it to
// the mailer. The response is identical whether or not the email exists.
func (s *Service) SendResetCode(ctx context.Context, email string) error {
	email = SanitizeEmail(email)

	usr, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	code, err := crypto.GenerateCode(resetCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	issuedAt := s.now()
	usr.AuthenticationCode = sql.NullString{String: code, Valid: true}
	usr.AuthenticationTime = sql.NullTime{Time: issuedAt, Valid: true}
	if _, err := s.users.Update(ctx, usr); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	s.publish(ctx, events.TopicUserResetCode, events.ResetCodeIssued{
		UserID:       usr.ID,
		EmailAddress: usr.EmailAddress,
		Code:         code,
		IssuedAt:     issuedAt,
	})

	s.logger.Info("reset code issued", zap.String("user_id", usr.ID.String()))
	return nil
}

// VerifyResetCode checks a recovery code and, when it matches, exchanges it
// for a refresh token that authorizes the actual password reset. The code
// is single use.
func (s *Service) VerifyResetCode(ctx context.Context, email, code string) (string, error) {
	email = SanitizeEmail(email)

	usr, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", apperrors.ErrInvalidCode
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if !usr.AuthenticationCode.Valid || !usr.AuthenticationTime.Valid {
		return "", apperrors.ErrInvalidCode
	}

	stored := usr.AuthenticationCode.String
	if len(stored) != len(code) ||
		subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", apperrors.ErrInvalidCode
	}

	if s.now().After(usr.AuthenticationTime.Time.Add(resetCodeWindow)) {
		return "", apperrors.ErrCodeHasExpired
	}

	usr.AuthenticationCode = sql.NullString{}
	usr.AuthenticationTime = sql.NullTime{}
	if _, err := s.users.Update(ctx, usr); err != nil {
		return "", fmt.Errorf("failed to consume reset code: %w", err)
	}

	principal := Principal{
		ID:           usr.ID,
		FirstName:    usr.FirstName,
		EmailAddress: usr.EmailAddress,
	}
	refresh, err := s.tokens.Issue(principal, s.classes.UserRefresh)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset token: %w", err)
	}

	return refresh, nil
}

// ResetPassword sets a new password for the account authorized by token,
// which must be a refresh token obtained through VerifyResetCode or a
// live session.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}
	if errs := appendPasswordErrors(nil, req.NewPassword); len(errs) > 0 {
		return &validationErrors{Errors: errs}
	}

	claims, err := s.tokens.Verify(req.Token, s.classes.UserRefresh)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	var principal Principal
	if err := claims.Subject.Decode(&principal); err != nil {
		return apperrors.ErrInvalidToken
	}

	usr, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperrors.ErrInvalidToken
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	digest, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usr.PasswordDigest = digest
	if _, err := s.users.Update(ctx, usr); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}

	s.publish(ctx, events.TopicUserPasswordReset, events.UserPasswordReset{
		UserID:  usr.ID,
		ResetAt: s.now(),
	})

	return nil
}
