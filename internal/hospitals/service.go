package hospitals

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
)

// Service exposes hospital reads.
type Service interface {
	List(ctx context.Context, params ListParams) ([]Summary, error)
	Get(ctx context.Context, id uuid.UUID) (*Detail, error)
	Active(ctx context.Context, city string) ([]models.Hospital, error)
}

type ListParams struct {
	City     string
	District string
	State    string
}

type service struct {
	repo    Repository
	timeout time.Duration
}

func NewService(repo Repository, timeout time.Duration) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "hospitals repository required")
	}
	return &service{repo: repo, timeout: timeout}, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]Summary, error) {
	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.List(ctx, listHospitalsParams{
		City:     strings.TrimSpace(params.City),
		District: strings.TrimSpace(params.District),
		State:    strings.TrimSpace(params.State),
	})
	if err != nil {
		return nil, db.Translate(err, "list hospitals")
	}

	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewSummary(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hospital id required")
	}

	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hospital not found")
		}
		return nil, db.Translate(err, "load hospital")
	}
	detail := NewDetail(*row)
	return &detail, nil
}

// Active returns active hospitals with inventory preloaded, optionally in one city.
func (s *service) Active(ctx context.Context, city string) ([]models.Hospital, error) {
	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.ListActive(ctx, strings.TrimSpace(city))
	if err != nil {
		return nil, db.Translate(err, "list active hospitals")
	}
	return rows, nil
}
