package admin

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents the admins table.
type Admin struct {
	ID             uuid.UUID `db:"id" json:"id"`
	EmailAddress   string    `db:"email_address" json:"email_address"`
	PasswordDigest string    `db:"password_digest" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
