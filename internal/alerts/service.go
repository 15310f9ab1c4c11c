package alerts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

// Service defines alert create/list/resolve operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*CreateResult, error)
	List(ctx context.Context, params ListParams) ([]models.Alert, error)
	Resolve(ctx context.Context, alertID, resolver uuid.UUID) (*models.Alert, error)
}

type CreateParams struct {
	HospitalID uuid.UUID
	Type       enums.AlertType
	Severity   enums.Severity
	Message    string
	Resource   string
}

// CreateResult reports whether a new row was inserted. With dedupe enabled an
// existing unresolved alert for the same hospital, type and resource is returned
// instead, unless the new alert is more severe.
type CreateResult struct {
	Alert   *models.Alert
	Created bool
}

// ListParams carries the optional filters; City is matched after retrieval.
type ListParams struct {
	City     string
	Resolved *bool
	Severity enums.Severity
}

type Option func(*service)

// WithDedupe suppresses a second unresolved alert for the same condition.
func WithDedupe(enabled bool) Option {
	return func(s *service) { s.dedupe = enabled }
}

// WithTimeout bounds each store call.
func WithTimeout(timeout time.Duration) Option {
	return func(s *service) { s.timeout = timeout }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	dedupe  bool
	timeout time.Duration
	now     func() time.Time
}

// NewService wires alert dependencies.
func NewService(repo Repository, logg *logger.Logger, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alerts repository required")
	}
	svc := &service{
		repo: repo,
		logg: logg,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*CreateResult, error) {
	if params.HospitalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hospital id required")
	}
	if !params.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid alert type")
	}
	if !params.Severity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid severity")
	}
	if strings.TrimSpace(params.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert message required")
	}

	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()

	if s.dedupe {
		existing, err := s.repo.FindUnresolved(ctx, params.HospitalID, params.Type, params.Resource)
		switch {
		case err == nil && params.Severity.Rank() > existing.Severity.Rank():
			// escalated condition; raise a fresh alert so it can be escalated
		case err == nil:
			if s.logg != nil {
				s.logg.Debug(s.logg.WithHospitalID(ctx, params.HospitalID.String()), "alert suppressed by existing unresolved alert")
			}
			return &CreateResult{Alert: existing}, nil
		case !db.IsNotFound(err):
			return nil, db.Translate(err, "lookup unresolved alert")
		}
	}

	alert := &models.Alert{
		HospitalID: params.HospitalID,
		AlertType:  params.Type,
		Severity:   params.Severity,
		Message:    params.Message,
		Resource:   params.Resource,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create alert")
	}
	return &CreateResult{Alert: alert, Created: true}, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.Alert, error) {
	if params.Severity != "" && !params.Severity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid severity")
	}

	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.List(ctx, listAlertsParams{
		Resolved: params.Resolved,
		Severity: params.Severity,
	})
	if err != nil {
		return nil, db.Translate(err, "list alerts")
	}

	city := strings.TrimSpace(params.City)
	if city == "" {
		return rows, nil
	}
	filtered := make([]models.Alert, 0, len(rows))
	for _, row := range rows {
		if row.Hospital != nil && row.Hospital.City == city {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// Resolve is idempotent: resolving an already resolved alert returns it
// unchanged with the first resolver and timestamp.
func (s *service) Resolve(ctx context.Context, alertID, resolver uuid.UUID) (*models.Alert, error) {
	if alertID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert id required")
	}
	if resolver == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resolver id required")
	}

	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()

	result, err := s.repo.Resolve(ctx, alertID, resolver, s.now())
	if err != nil {
		return nil, db.Translate(err, "resolve alert")
	}
	if !result.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
	}
	if !result.Updated && s.logg != nil {
		s.logg.Info(ctx, "alert already resolved")
	}

	alert, err := s.repo.FindByID(ctx, alertID)
	if err != nil {
		return nil, db.Translate(err, "load alert")
	}
	return alert, nil
}
