package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/meditrack/meditrack-api/internal/alerts"
	"github.com/meditrack/meditrack-api/internal/escalation"
	"github.com/meditrack/meditrack-api/internal/hospitals"
	"github.com/meditrack/meditrack-api/internal/realtime"
	"github.com/meditrack/meditrack-api/internal/thresholds"
	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/metrics"
)

// Service runs inventory mutations and inventory reads.
type Service interface {
	UpdateBed(ctx context.Context, m BedMutation) (*BedResult, error)
	UpdateBlood(ctx context.Context, m BloodMutation) (*BloodResult, error)
	ListBeds(ctx context.Context, q BedQuery) ([]HospitalBeds, error)
	ListBlood(ctx context.Context, q BloodQuery) ([]HospitalBlood, error)
}

// ServiceParams wires the pipeline collaborators.
type ServiceParams struct {
	Repo        Repository
	Alerts      alerts.Service
	Escalator   escalation.Escalator
	Broadcaster realtime.Broadcaster
	Thresholds  thresholds.Thresholds
	Logger      *logger.Logger
	Metrics     *metrics.Pipeline
	Timeout     time.Duration
	Now         func() time.Time
}

type service struct {
	repo        Repository
	alerts      alerts.Service
	escalator   escalation.Escalator
	broadcaster realtime.Broadcaster
	thresholds  thresholds.Thresholds
	logg        *logger.Logger
	metrics     *metrics.Pipeline
	timeout     time.Duration
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if params.Alerts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alerts service required")
	}
	if params.Escalator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "escalator required")
	}
	if params.Broadcaster == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "broadcaster required")
	}
	if params.Thresholds == (thresholds.Thresholds{}) {
		params.Thresholds = thresholds.DefaultThresholds()
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:        params.Repo,
		alerts:      params.Alerts,
		escalator:   params.Escalator,
		broadcaster: params.Broadcaster,
		thresholds:  params.Thresholds,
		logg:        params.Logger,
		metrics:     params.Metrics,
		timeout:     params.Timeout,
		now:         now,
	}, nil
}

// stepError tags a non-fatal failure with the step that produced it.
type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return e.step + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

func warningSteps(err error) []string {
	var steps []string
	for _, e := range multierr.Errors(err) {
		var se *stepError
		if errors.As(e, &se) {
			steps = append(steps, se.step)
		}
	}
	return steps
}

func (s *service) stage(ctx context.Context, name string) {
	if s.logg != nil {
		s.logg.Debug(s.logg.WithField(ctx, "stage", name), "inventory.mutation")
	}
}

func outcomeOf(err error) string {
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodePersistence, pkgerrors.CodeInternal:
		return "failed"
	default:
		return "rejected"
	}
}

func (s *service) UpdateBed(ctx context.Context, m BedMutation) (result *BedResult, err error) {
	started := s.now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = outcomeOf(err)
		}
		s.metrics.ObserveMutation(enums.UpdateTypeBed.String(), outcome, s.now().Sub(started))
	}()

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"record_id": m.RecordID.String(),
			"kind":      enums.UpdateTypeBed.String(),
		})
	}

	s.stage(ctx, "validating")
	if m.Available == nil || *m.Available < 0 {
		return nil, pkgerrors.Invalid(pkgerrors.ReasonInvalidValue, "available_beds must be a non-negative number")
	}
	available := *m.Available

	current, err := s.findBed(ctx, m.RecordID)
	if err != nil {
		return nil, err
	}
	if available > current.TotalBeds {
		return nil, pkgerrors.New(pkgerrors.CodeExceedsCapacity, "available beds cannot exceed total beds").
			WithDetails(map[string]any{"total_beds": current.TotalBeds, "available_beds": available})
	}

	s.stage(ctx, "authorizing")
	if !m.Principal.CanWrite(current.HospitalID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied: can only update your own hospital's data")
	}
	if m.ExpectedVersion != nil && *m.ExpectedVersion != current.Version {
		return nil, conflict(current.Version)
	}

	s.stage(ctx, "persisting")
	now := s.now()
	if err := s.persist(ctx, m.ExpectedVersion, current.Version, func(ctx context.Context) (int64, error) {
		return s.repo.UpdateBed(ctx, bedWrite{
			ID:              current.ID,
			Available:       available,
			UpdatedBy:       m.Principal.UserID,
			ExpectedVersion: m.ExpectedVersion,
			Now:             now,
		})
	}); err != nil {
		return nil, err
	}

	// Persisted. Remaining steps run to completion regardless of the caller.
	ctx = context.WithoutCancel(ctx)
	old := current.AvailableBeds
	updated := *current
	updated.AvailableBeds = available
	updated.Version = current.Version + 1
	updatedBy := m.Principal.UserID
	updated.UpdatedBy = &updatedBy
	updated.LastUpdated = now

	hospital := hospitalOf(current.Hospital)
	var warnings error

	s.stage(ctx, "logging")
	warnings = multierr.Append(warnings, s.appendLog(ctx, &models.UpdateLog{
		HospitalID:   current.HospitalID,
		UpdateType:   enums.UpdateTypeBed,
		FieldChanged: current.BedType.String(),
		OldValue:     old,
		NewValue:     available,
		ChangedBy:    m.Principal.UserID,
	}))

	s.stage(ctx, "classifying")
	events := thresholds.ClassifyBed(s.thresholds, thresholds.BedSubject{
		HospitalName: hospital.Name,
		BedType:      current.BedType,
		Available:    available,
	})
	created, events, alertErr := s.raise(ctx, hospital, events)
	warnings = multierr.Append(warnings, alertErr)

	s.stage(ctx, "escalating")
	s.escalate(ctx, hospital, created, events)

	s.stage(ctx, "broadcasting")
	record := updated
	record.Hospital = nil
	warnings = multierr.Append(warnings, s.broadcast(ctx, hospital, realtime.EventBedUpdated, realtime.BedUpdated{
		HospitalID:    current.HospitalID.String(),
		HospitalName:  hospital.Name,
		BedType:       current.BedType.String(),
		AvailableBeds: available,
		TotalBeds:     current.TotalBeds,
	}, created))

	s.finish(ctx, warnings)
	return &BedResult{Record: &record, Alerts: created, Warnings: warningSteps(warnings)}, nil
}

func (s *service) UpdateBlood(ctx context.Context, m BloodMutation) (result *BloodResult, err error) {
	started := s.now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = outcomeOf(err)
		}
		s.metrics.ObserveMutation(enums.UpdateTypeBlood.String(), outcome, s.now().Sub(started))
	}()

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"record_id": m.RecordID.String(),
			"kind":      enums.UpdateTypeBlood.String(),
		})
	}

	s.stage(ctx, "validating")
	if m.UnitsAvailable == nil || *m.UnitsAvailable < 0 {
		return nil, pkgerrors.Invalid(pkgerrors.ReasonInvalidValue, "units_available must be a non-negative number")
	}
	if m.UnitsReserved != nil && *m.UnitsReserved < 0 {
		return nil, pkgerrors.Invalid(pkgerrors.ReasonInvalidValue, "units_reserved must be a non-negative number")
	}
	units := *m.UnitsAvailable

	current, err := s.findBlood(ctx, m.RecordID)
	if err != nil {
		return nil, err
	}

	s.stage(ctx, "authorizing")
	if !m.Principal.CanWrite(current.HospitalID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied: can only update your own hospital's data")
	}
	if m.ExpectedVersion != nil && *m.ExpectedVersion != current.Version {
		return nil, conflict(current.Version)
	}

	s.stage(ctx, "persisting")
	now := s.now()
	if err := s.persist(ctx, m.ExpectedVersion, current.Version, func(ctx context.Context) (int64, error) {
		return s.repo.UpdateBlood(ctx, bloodWrite{
			ID:              current.ID,
			UnitsAvailable:  units,
			UnitsReserved:   m.UnitsReserved,
			UpdatedBy:       m.Principal.UserID,
			ExpectedVersion: m.ExpectedVersion,
			Now:             now,
		})
	}); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	old := current.UnitsAvailable
	updated := *current
	updated.UnitsAvailable = units
	if m.UnitsReserved != nil {
		updated.UnitsReserved = *m.UnitsReserved
	}
	updated.Version = current.Version + 1
	updatedBy := m.Principal.UserID
	updated.UpdatedBy = &updatedBy
	updated.LastUpdated = now

	hospital := hospitalOf(current.Hospital)
	var warnings error

	s.stage(ctx, "logging")
	warnings = multierr.Append(warnings, s.appendLog(ctx, &models.UpdateLog{
		HospitalID:   current.HospitalID,
		UpdateType:   enums.UpdateTypeBlood,
		FieldChanged: current.BloodGroup.String(),
		OldValue:     old,
		NewValue:     units,
		ChangedBy:    m.Principal.UserID,
	}))

	s.stage(ctx, "classifying")
	events := thresholds.ClassifyBlood(s.thresholds, thresholds.BloodSubject{
		HospitalName: hospital.Name,
		BloodGroup:   current.BloodGroup,
		Units:        units,
	})
	created, events, alertErr := s.raise(ctx, hospital, events)
	warnings = multierr.Append(warnings, alertErr)

	s.stage(ctx, "escalating")
	s.escalate(ctx, hospital, created, events)

	s.stage(ctx, "broadcasting")
	record := updated
	record.Hospital = nil
	warnings = multierr.Append(warnings, s.broadcast(ctx, hospital, realtime.EventBloodUpdated, realtime.BloodUpdated{
		HospitalID:     current.HospitalID.String(),
		HospitalName:   hospital.Name,
		BloodGroup:     current.BloodGroup.String(),
		UnitsAvailable: units,
		UnitsReserved:  updated.UnitsReserved,
	}, created))

	s.finish(ctx, warnings)
	return &BloodResult{Record: &record, Alerts: created, Warnings: warningSteps(warnings)}, nil
}

func conflict(current int64) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "record was modified by another update").
		WithDetails(map[string]any{"current_version": current})
}

func hospitalOf(h *models.Hospital) models.Hospital {
	if h == nil {
		return models.Hospital{}
	}
	return *h
}

func (s *service) findBed(ctx context.Context, id uuid.UUID) (*models.BedInventory, error) {
	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()
	row, err := s.repo.FindBed(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bed inventory not found")
		}
		return nil, db.Translate(err, "load bed inventory")
	}
	return row, nil
}

func (s *service) findBlood(ctx context.Context, id uuid.UUID) (*models.BloodInventory, error) {
	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()
	row, err := s.repo.FindBlood(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blood inventory not found")
		}
		return nil, db.Translate(err, "load blood inventory")
	}
	return row, nil
}

// persist runs write under the store timeout. Zero affected rows means the
// version moved underneath a conditional write, or the row vanished.
func (s *service) persist(ctx context.Context, expected *int64, version int64, write func(context.Context) (int64, error)) error {
	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()

	affected, err := write(ctx)
	if err != nil {
		return db.Translate(err, "persist inventory")
	}
	if affected == 0 {
		if expected != nil {
			return conflict(version)
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
	}
	return nil
}

func (s *service) appendLog(ctx context.Context, entry *models.UpdateLog) error {
	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()
	if err := s.repo.CreateUpdateLog(ctx, entry); err != nil {
		s.metrics.IncWarning(WarnUpdateLog)
		return &stepError{step: WarnUpdateLog, err: err}
	}
	return nil
}

// raise persists one alert per event and returns the alerts created alongside
// the events they came from.
func (s *service) raise(ctx context.Context, hospital models.Hospital, events []thresholds.Event) ([]models.Alert, []thresholds.Event, error) {
	created := make([]models.Alert, 0, len(events))
	matched := make([]thresholds.Event, 0, len(events))
	var errs error
	for _, event := range events {
		res, err := s.alerts.Create(ctx, alerts.CreateParams{
			HospitalID: hospital.ID,
			Type:       event.Type,
			Severity:   event.Severity,
			Message:    event.Message,
			Resource:   event.Resource,
		})
		if err != nil {
			s.metrics.IncWarning(WarnAlertCreate)
			errs = multierr.Append(errs, &stepError{step: WarnAlertCreate, err: fmt.Errorf("%s/%s: %w", event.Type, event.Severity, err)})
			continue
		}
		if !res.Created {
			continue
		}
		s.metrics.IncAlert(event.Type.String(), event.Severity.String())
		created = append(created, *res.Alert)
		matched = append(matched, event)
	}
	return created, matched, errs
}

func (s *service) escalate(ctx context.Context, hospital models.Hospital, created []models.Alert, events []thresholds.Event) {
	for i, alert := range created {
		if !events[i].Critical() {
			continue
		}
		s.escalator.Escalate(ctx, escalation.Job{
			AlertID:      alert.ID,
			HospitalID:   hospital.ID,
			HospitalName: hospital.Name,
			Message:      events[i].Escalation,
		})
	}
}

func (s *service) broadcast(ctx context.Context, hospital models.Hospital, event string, payload any, created []models.Alert) error {
	city := strings.TrimSpace(hospital.City)
	if city == "" {
		return nil
	}
	var errs error
	if err := s.broadcaster.Emit(ctx, city, event, payload); err != nil {
		errs = multierr.Append(errs, &stepError{step: WarnBroadcast, err: err})
	}
	for _, alert := range created {
		if err := s.broadcaster.Emit(ctx, city, realtime.EventAlertCreated, realtime.AlertCreated{
			AlertID:      alert.ID.String(),
			HospitalName: hospital.Name,
			Message:      alert.Message,
			Severity:     alert.Severity.String(),
		}); err != nil {
			errs = multierr.Append(errs, &stepError{step: WarnBroadcast, err: err})
		}
	}
	if errs != nil {
		s.metrics.IncWarning(WarnBroadcast)
	}
	return errs
}

func (s *service) finish(ctx context.Context, warnings error) {
	if warnings == nil {
		s.stage(ctx, "done")
		return
	}
	if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "warnings", warnings.Error()), "inventory.mutation_completed_with_warnings")
	}
}

func (s *service) ListBeds(ctx context.Context, q BedQuery) ([]HospitalBeds, error) {
	params := listBedsParams{MinAvailable: q.MinAvailable}
	if q.BedType != "" {
		bedType, err := enums.ParseBedType(q.BedType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bed type")
		}
		params.BedType = bedType
	}

	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()
	rows, err := s.repo.ListBeds(ctx, params)
	if err != nil {
		return nil, db.Translate(err, "list bed inventory")
	}

	city := strings.TrimSpace(q.City)
	out := []HospitalBeds{}
	index := map[uuid.UUID]int{}
	for _, row := range rows {
		if row.Hospital == nil || (city != "" && row.Hospital.City != city) {
			continue
		}
		pos, ok := index[row.HospitalID]
		if !ok {
			pos = len(out)
			index[row.HospitalID] = pos
			out = append(out, HospitalBeds{Hospital: hospitals.NewView(*row.Hospital), Beds: []BedView{}})
		}
		out[pos].Beds = append(out[pos].Beds, BedView{
			ID:            row.ID,
			BedType:       row.BedType,
			TotalBeds:     row.TotalBeds,
			AvailableBeds: row.AvailableBeds,
			Version:       row.Version,
			LastUpdated:   row.LastUpdated,
		})
	}
	return out, nil
}

func (s *service) ListBlood(ctx context.Context, q BloodQuery) ([]HospitalBlood, error) {
	params := listBloodParams{MinUnits: q.MinUnits}
	if q.BloodGroup != "" {
		group, err := enums.ParseBloodGroup(q.BloodGroup)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid blood group")
		}
		params.BloodGroup = group
	}

	ctx, cancel := db.Bounded(ctx, s.timeout)
	defer cancel()
	rows, err := s.repo.ListBlood(ctx, params)
	if err != nil {
		return nil, db.Translate(err, "list blood inventory")
	}

	city := strings.TrimSpace(q.City)
	out := []HospitalBlood{}
	index := map[uuid.UUID]int{}
	for _, row := range rows {
		if row.Hospital == nil || (city != "" && row.Hospital.City != city) {
			continue
		}
		pos, ok := index[row.HospitalID]
		if !ok {
			pos = len(out)
			index[row.HospitalID] = pos
			out = append(out, HospitalBlood{Hospital: hospitals.NewView(*row.Hospital), BloodInventory: []BloodView{}})
		}
		out[pos].BloodInventory = append(out[pos].BloodInventory, BloodView{
			ID:             row.ID,
			BloodGroup:     row.BloodGroup,
			UnitsAvailable: row.UnitsAvailable,
			UnitsReserved:  row.UnitsReserved,
			Version:        row.Version,
			LastUpdated:    row.LastUpdated,
		})
	}
	return out, nil
}
