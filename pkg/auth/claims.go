package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IdentityClaims is the token shape issued by the identity provider.
// The subject carries the provider's user id.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity is a verified caller before hospital affiliation is resolved.
type Identity struct {
	UserID uuid.UUID
	Email  string
}
