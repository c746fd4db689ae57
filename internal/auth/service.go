package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lattice-hq/sentinel/internal/crypto"
	"github.com/lattice-hq/sentinel/internal/events"
	"github.com/lattice-hq/sentinel/internal/token"
	"github.com/lattice-hq/sentinel/internal/user"
	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
)

// UserStore is the user persistence surface the service needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
}

// Service handles authentication business logic
type Service struct {
	users   UserStore
	tokens  *token.Service
	hasher  *crypto.Hasher
	classes token.Classes
	events  events.Publisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new authentication service
func NewService(
	users UserStore,
	tokens *token.Service,
	hasher *crypto.Hasher,
	classes token.Classes,
	publisher events.Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		classes: classes,
		events:  publisher,
		logger:  logger,
		now:     time.Now,
	}
}

// SignUpRequest represents a sign-up request
type SignUpRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	SecondName   string `json:"second_name" binding:"required"`
	EmailAddress string `json:"email_address" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// SignInRequest represents a sign-in request
type SignInRequest struct {
	EmailAddress string `json:"email_address" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenBundle carries the access and refresh tokens issued for a session.
type TokenBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	User  user.SecureUser `json:"user"`
	Token TokenBundle     `json:"token"`
}

// SignUp registers a new user and issues a first session.
func (s *Service) SignUp(ctx context.Context, req *SignUpRequest) (*AuthResponse, error) {
	req.EmailAddress = SanitizeEmail(req.EmailAddress)
	if err := ValidateSignUpRequest(req); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &user.User{
		ID:             uuid.New(),
		FirstName:      req.FirstName,
		SecondName:     req.SecondName,
		EmailAddress:   req.EmailAddress,
		PasswordDigest: digest,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publish(ctx, events.TopicUserRegistered, events.UserRegistered{
		UserID:       created.ID,
		EmailAddress: created.EmailAddress,
		RegisteredAt: created.CreatedAt,
	})

	bundle, err := s.issueBundle(created)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: created.Secure(), Token: bundle}, nil
}

// SignIn authenticates an email/password pair. Unknown emails and wrong
// passwords produce the same error so callers cannot probe for accounts.
func (s *Service) SignIn(ctx context.Context, req *SignInRequest) (*AuthResponse, error) {
	req.EmailAddress = SanitizeEmail(req.EmailAddress)
	if err := ValidateSignInRequest(req); err != nil {
		return nil, err
	}

	usr, err := s.users.GetByEmail(ctx, req.EmailAddress)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := s.hasher.Verify(usr.PasswordDigest, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	if usr.IsBanned {
		return nil, apperrors.ErrUnauthorized
	}

	bundle, err := s.issueBundle(usr)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: usr.Secure(), Token: bundle}, nil
}

// Refresh exchanges a valid refresh token for a fresh session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokens.Verify(refreshToken, s.classes.UserRefresh)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	var principal Principal
	if err := claims.Subject.Decode(&principal); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	usr, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if usr.IsBanned {
		return nil, apperrors.ErrUnauthorized
	}

	bundle, err := s.issueBundle(usr)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: usr.Secure(), Token: bundle}, nil
}

// IssueWebToken mints a short-lived web access token for an authenticated
// principal, used by browser handshakes that cannot carry the session token.
func (s *Service) IssueWebToken(principal Principal) (string, error) {
	web, err := s.tokens.Issue(principal, s.classes.WebAccess)
	if err != nil {
		return "", fmt.Errorf("failed to issue web token: %w", err)
	}
	return web, nil
}

func (s *Service) issueBundle(usr *user.User) (TokenBundle, error) {
	principal := Principal{
		ID:           usr.ID,
		FirstName:    usr.FirstName,
		EmailAddress: usr.EmailAddress,
	}

	access, err := s.tokens.Issue(principal, s.classes.UserAccess)
	if err != nil {
		return TokenBundle{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.tokens.Issue(principal, s.classes.UserRefresh)
	if err != nil {
		return TokenBundle{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return TokenBundle{AccessToken: access, RefreshToken: refresh}, nil
}

// publish emits an event without letting delivery failures surface into
// the business flow.
func (s *Service) publish(ctx context.Context, topic string, payload interface{}) {
	if err := s.events.Publish(ctx, topic, payload); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
}
