package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no admin matches the query.
var ErrNotFound = errors.New("admin not found")

// Repository handles admin data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new admin repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail finds an admin by email address
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	query := `SELECT id, email_address, password_digest, created_at, updated_at
			  FROM admins
			  WHERE email_address = $1`

	err := r.db.GetContext(ctx, &a, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}

	return &a, nil
}
