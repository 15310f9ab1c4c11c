package middleware

import (
	"context"

	"github.com/meditrack/meditrack-api/internal/staff"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the staff principal placed by Auth.
func PrincipalFromContext(ctx context.Context) (staff.Principal, bool) {
	if ctx == nil {
		return staff.Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(staff.Principal)
	return p, ok
}

// WithPrincipal injects a resolved principal into the context.
func WithPrincipal(ctx context.Context, p staff.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}
