package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Typed repository errors so callers can branch without string matching.
var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email address already exists")
)

// Repository handles user data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new user repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, personal_first_name, personal_second_name, personal_email_address,
	personal_username, personal_profile_image, personal_recovery_phone, password_digest,
	peripheral_authentication_code, peripheral_timeout, peripheral_is_banned,
	peripheral_is_verified, created_at, updated_at, deleted_at`

// GetByID finds a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &u, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return &u, nil
}

// GetByEmail finds a user by email address
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE personal_email_address = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &u, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &u, nil
}

// Create inserts a new user and returns the stored record
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `INSERT INTO users (
				id, personal_first_name, personal_second_name, personal_email_address,
				personal_username, personal_profile_image, personal_recovery_phone, password_digest,
				peripheral_authentication_code, peripheral_timeout, peripheral_is_banned,
				peripheral_is_verified, created_at, updated_at
			  ) VALUES (
				:id, :personal_first_name, :personal_second_name, :personal_email_address,
				:personal_username, :personal_profile_image, :personal_recovery_phone, :password_digest,
				:peripheral_authentication_code, :peripheral_timeout, :peripheral_is_banned,
				:peripheral_is_verified, :created_at, :updated_at
			  )`

	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Update persists every mutable column of the user and returns the stored
// record
func (r *Repository) Update(ctx context.Context, u *User) (*User, error) {
	u.UpdatedAt = time.Now()

	query := `UPDATE users SET
				personal_first_name = :personal_first_name,
				personal_second_name = :personal_second_name,
				personal_email_address = :personal_email_address,
				personal_username = :personal_username,
				personal_profile_image = :personal_profile_image,
				personal_recovery_phone = :personal_recovery_phone,
				password_digest = :password_digest,
				peripheral_authentication_code = :peripheral_authentication_code,
				peripheral_timeout = :peripheral_timeout,
				peripheral_is_banned = :peripheral_is_banned,
				peripheral_is_verified = :peripheral_is_verified,
				updated_at = :updated_at
			  WHERE id = :id AND deleted_at IS NULL`

	res, err := r.db.NamedExecContext(ctx, query, u)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	return u, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
