package token

import "time"

// Class is a named bundle of signing key and lifetime governing one
// category of issued token. Classes are built once at startup from
// configuration and never mutated afterwards.
type Class struct {
	Name     string
	Key      []byte
	Lifetime time.Duration
}

// NewClass creates a token class from a secret string.
func NewClass(name, secret string, lifetime time.Duration) Class {
	return Class{
		Name:     name,
		Key:      []byte(secret),
		Lifetime: lifetime,
	}
}

// Classes holds the full set of token classes used by the service. Each
// class has an independently sourced signing key; verification is always
// parameterized by the caller's intended class, never inferred from the
// token itself.
type Classes struct {
	UserAccess  Class
	UserRefresh Class
	AdminAccess Class
	WebAccess   Class
	AppAccess   Class
	AppRefresh  Class
}
