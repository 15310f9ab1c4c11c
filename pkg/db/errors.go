package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
)

// SQLSTATE classes the store surfaces to callers.
const (
	sqlStateUniqueViolation = "23505"
	sqlStateCheckViolation  = "23514"
)

// bedCapacityConstraint backs the available <= total rule at the schema level.
const bedCapacityConstraint = "bed_inventory_capacity_check"

// IsUniqueViolation reports whether err is a unique violation, optionally on
// the named constraint. SQLite messages are matched so repository tests agree
// with Postgres.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	if fault := pkgerrors.StoreFaultOf(err); fault != nil {
		return fault.SQLState == sqlStateUniqueViolation && (constraint == "" || fault.Constraint == constraint)
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") && constraint == ""
}

func isCheckViolation(err error, constraint string) bool {
	fault := pkgerrors.StoreFaultOf(err)
	return fault != nil && fault.SQLState == sqlStateCheckViolation && fault.Constraint == constraint
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Bounded derives a context that expires after timeout. A non-positive
// timeout leaves the parent untouched.
func Bounded(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// Translate maps a store error onto the API taxonomy. Missing rows become
// NOT_FOUND, a tripped bed capacity check becomes EXCEEDS_CAPACITY and a
// duplicate key becomes CONFLICT. Everything else, timeouts included, becomes
// PERSISTENCE_ERROR.
func Translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case pkgerrors.As(err) != nil:
		return pkgerrors.As(err)
	case IsNotFound(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msg)
	case isCheckViolation(err, bedCapacityConstraint):
		return pkgerrors.Wrap(pkgerrors.CodeExceedsCapacity, err, msg).
			WithDetails(map[string]any{"reason": "exceeds_capacity"})
	case IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msg)
	default:
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, msg)
	}
}
