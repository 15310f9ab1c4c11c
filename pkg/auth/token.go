package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/pkg/config"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// Verifier checks bearer tokens against the identity provider's signing secret.
type Verifier struct {
	cfg config.AuthConfig
}

func NewVerifier(cfg config.AuthConfig) (*Verifier, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "identity provider secret is required")
	}
	return &Verifier{cfg: cfg}, nil
}

// Verify validates the token and returns the caller identity. Every failure
// maps to UNAUTHORIZED.
func (v *Verifier) Verify(_ context.Context, tokenString string) (Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(v.cfg.JWTSecret), nil
		},
		opts...,
	)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "token subject is not a user id")
	}

	return Identity{UserID: userID, Email: claims.Email}, nil
}

// MintIdentityToken signs a provider-compatible token. Used by local tooling
// and tests; production tokens come from the identity provider.
func MintIdentityToken(cfg config.AuthConfig, now time.Time, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	if cfg.JWTSecret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}

	claims := IdentityClaims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}
