package staff

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/meditrack-api/pkg/auth"
	"github.com/meditrack/meditrack-api/pkg/db"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
)

// TokenVerifier is the identity provider boundary.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// Resolver turns a bearer token into a Principal.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Principal, error)
}

type resolver struct {
	verifier TokenVerifier
	repo     Repository
	timeout  time.Duration
}

func NewResolver(verifier TokenVerifier, repo Repository, timeout time.Duration) (Resolver, error) {
	if verifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "token verifier required")
	}
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "staff repository required")
	}
	return &resolver{verifier: verifier, repo: repo, timeout: timeout}, nil
}

// Resolve fails with UNAUTHORIZED for a bad token and FORBIDDEN when the
// identity has no active staff affiliation.
func (r *resolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no token provided")
	}

	identity, err := r.verifier.Verify(ctx, token)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}

	ctx, cancel := db.Bounded(ctx, r.timeout)
	defer cancel()

	row, err := r.repo.FindActiveByUser(ctx, identity.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied: not a hospital staff member")
		}
		return nil, db.Translate(err, "load staff affiliation")
	}

	role := row.Role
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied: unknown staff role")
	}
	return &Principal{
		UserID:       identity.UserID,
		Email:        identity.Email,
		HospitalID:   row.HospitalID,
		HospitalName: row.Hospital.Name,
		Role:         role,
	}, nil
}
