package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents the users table. Personal fields carry profile data,
// peripheral fields carry transient authentication state (one-time codes
// and their issue time).
type User struct {
	ID uuid.UUID `db:"id" json:"id"`

	FirstName    string         `db:"personal_first_name" json:"first_name"`
	SecondName   string         `db:"personal_second_name" json:"second_name"`
	EmailAddress string         `db:"personal_email_address" json:"email_address"`
	Username     sql.NullString `db:"personal_username" json:"username,omitempty"`
	ProfileImage sql.NullString `db:"personal_profile_image" json:"profile_image,omitempty"`

	// RecoveryPhone is stored encrypted by the field cipher; the column
	// never holds the plaintext number.
	RecoveryPhone sql.NullString `db:"personal_recovery_phone" json:"-"`

	PasswordDigest string `db:"password_digest" json:"-"`

	AuthenticationCode sql.NullString `db:"peripheral_authentication_code" json:"-"`
	AuthenticationTime sql.NullTime   `db:"peripheral_timeout" json:"-"`
	IsBanned           bool           `db:"peripheral_is_banned" json:"is_banned"`
	IsVerified         bool           `db:"peripheral_is_verified" json:"is_verified"`

	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at" json:"-"`
}

// SecureUser is the externally visible projection of a user record. It
// never carries the password digest, codes or encrypted fields.
type SecureUser struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	SecondName   string    `json:"second_name"`
	EmailAddress string    `json:"email_address"`
	Username     string    `json:"username,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// Secure projects a user into its externally visible form.
func (u *User) Secure() SecureUser {
	return SecureUser{
		ID:           u.ID,
		FirstName:    u.FirstName,
		SecondName:   u.SecondName,
		EmailAddress: u.EmailAddress,
		Username:     u.Username.String,
		ProfileImage: u.ProfileImage.String,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
}
