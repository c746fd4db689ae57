package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lattice-hq/sentinel/internal/auth"
	"github.com/lattice-hq/sentinel/internal/crypto"
	"github.com/lattice-hq/sentinel/internal/token"
	"github.com/lattice-hq/sentinel/internal/user"
	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
)

// Store is the admin persistence surface the service needs.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}

// UserStore is the slice of the user repository used for moderation.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
}

// Service handles admin business logic
type Service struct {
	admins  Store
	users   UserStore
	tokens  *token.Service
	hasher  *crypto.Hasher
	classes token.Classes
}

// NewService creates a new admin service
func NewService(
	admins Store,
	users UserStore,
	tokens *token.Service,
	hasher *crypto.Hasher,
	classes token.Classes,
) *Service {
	return &Service{
		admins:  admins,
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		classes: classes,
	}
}

// SignInResponse represents a successful admin authentication
type SignInResponse struct {
	AccessToken string `json:"access_token"`
}

// SignIn authenticates an admin and issues an admin access token. Unknown
// emails and wrong passwords produce the same error.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResponse, error) {
	adm, err := s.admins.GetByEmail(ctx, auth.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	ok, err := s.hasher.Verify(adm.PasswordDigest, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	principal := auth.Principal{
		ID:           adm.ID,
		EmailAddress: adm.EmailAddress,
	}
	access, err := s.tokens.Issue(principal, s.classes.AdminAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to issue admin token: %w", err)
	}

	return &SignInResponse{AccessToken: access}, nil
}

// SetUserBan flags or unflags a user account as banned.
func (s *Service) SetUserBan(ctx context.Context, userID uuid.UUID, banned bool) (*user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	usr.IsBanned = banned
	updated, err := s.users.Update(ctx, usr)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}
