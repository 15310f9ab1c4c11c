package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// StoreFault is the driver-neutral view of a Postgres error.
type StoreFault struct {
	SQLState   string `json:"sql_state"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Diagnostics is what gets logged for a failed request.
type Diagnostics struct {
	Message  string      `json:"message"`
	Code     Code        `json:"code,omitempty"`
	Chain    []string    `json:"chain,omitempty"`
	Store    *StoreFault `json:"store,omitempty"`
	Timeout  bool        `json:"timeout,omitempty"`
	Canceled bool        `json:"canceled,omitempty"`
}

// Fields flattens the diagnostics for the structured logger.
func (d Diagnostics) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.Message,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.Store != nil {
		fields["sql_state"] = d.Store.SQLState
		fields["sql_constraint"] = d.Store.Constraint
		fields["sql_table"] = d.Store.Table
		fields["sql_detail"] = d.Store.Detail
	}
	if d.Timeout {
		fields["timeout"] = true
	}
	if d.Canceled {
		fields["canceled"] = true
	}
	return fields
}

func Diagnose(err error) Diagnostics {
	if err == nil {
		return Diagnostics{}
	}
	d := Diagnostics{
		Message:  err.Error(),
		Code:     CodeOf(err),
		Store:    StoreFaultOf(err),
		Timeout:  errors.Is(err, context.DeadlineExceeded),
		Canceled: errors.Is(err, context.Canceled),
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

// StoreFaultOf extracts the Postgres error from either driver, or nil.
func StoreFaultOf(err error) *StoreFault {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &StoreFault{
			SQLState:   pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StoreFault{
			SQLState:   string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
