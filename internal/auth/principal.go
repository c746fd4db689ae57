package auth

import "github.com/google/uuid"

// Principal is the identity embedded in access token subjects and
// recovered by the authentication middleware.
type Principal struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	EmailAddress string    `json:"email_address"`
}

// PrincipalKey is the gin context key under which the middleware stores
// the verified principal.
const PrincipalKey = "principal"
