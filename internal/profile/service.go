package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lattice-hq/sentinel/internal/crypto"
	"github.com/lattice-hq/sentinel/internal/user"
	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
)

// UserStore is the user persistence surface the service needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
}

// Service handles profile business logic. The recovery phone number is
// encrypted at rest; this service is the only place it crosses between
// plaintext and ciphertext.
type Service struct {
	users  UserStore
	cipher *crypto.FieldCipher
	logger *zap.Logger
}

// NewService creates a new profile service
func NewService(users UserStore, cipher *crypto.FieldCipher, logger *zap.Logger) *Service {
	return &Service{users: users, cipher: cipher, logger: logger}
}

// Profile is a user's own view of their account.
type Profile struct {
	user.SecureUser
	RecoveryPhone string `json:"recovery_phone,omitempty"`
}

// UpdateRequest carries the mutable profile fields. Nil fields are left
// untouched; an empty recovery phone clears the stored number.
type UpdateRequest struct {
	FirstName     *string `json:"first_name"`
	SecondName    *string `json:"second_name"`
	Username      *string `json:"username"`
	ProfileImage  *string `json:"profile_image"`
	RecoveryPhone *string `json:"recovery_phone"`
}

// Get loads the profile for the given user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	usr, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return s.buildProfile(usr)
}

// Update applies the given changes and returns the resulting profile.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Profile, error) {
	usr, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.FirstName != nil {
		usr.FirstName = *req.FirstName
	}
	if req.SecondName != nil {
		usr.SecondName = *req.SecondName
	}
	if req.Username != nil {
		usr.Username = nullable(*req.Username)
	}
	if req.ProfileImage != nil {
		usr.ProfileImage = nullable(*req.ProfileImage)
	}
	if req.RecoveryPhone != nil {
		if *req.RecoveryPhone == "" {
			usr.RecoveryPhone = sql.NullString{}
		} else {
			sealed, err := s.cipher.Encrypt(*req.RecoveryPhone)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt recovery phone: %w", err)
			}
			usr.RecoveryPhone = sql.NullString{String: sealed, Valid: true}
		}
	}

	updated, err := s.users.Update(ctx, usr)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.buildProfile(updated)
}

func (s *Service) buildProfile(usr *user.User) (*Profile, error) {
	p := &Profile{SecureUser: usr.Secure()}

	if usr.RecoveryPhone.Valid {
		phone, err := s.cipher.Decrypt(usr.RecoveryPhone.String)
		if err != nil {
			// A cipher secret change makes old ciphertexts unreadable;
			// surface the profile without the number rather than failing
			// the whole request.
			s.logger.Warn("recovery phone unreadable",
				zap.String("user_id", usr.ID.String()),
				zap.Error(err),
			)
		} else {
			p.RecoveryPhone = phone
		}
	}

	return p, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
