package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

// Repository exposes persistence helpers for alerts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, alert *models.Alert) error
	List(ctx context.Context, params listAlertsParams) ([]models.Alert, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	FindUnresolved(ctx context.Context, hospitalID uuid.UUID, alertType enums.AlertType, resource string) (*models.Alert, error)
	Resolve(ctx context.Context, id, resolver uuid.UUID, now time.Time) (alertResolveResult, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an alerts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listAlertsParams struct {
	Resolved   *bool
	Severity   enums.Severity
	HospitalID *uuid.UUID
}

type alertResolveResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func withHospitalContact(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "city", "phone")
}

func (r *repositoryImpl) List(ctx context.Context, params listAlertsParams) ([]models.Alert, error) {
	query := r.db.WithContext(ctx).Model(&models.Alert{}).Preload("Hospital", withHospitalContact)
	if params.Resolved != nil {
		query = query.Where("is_resolved = ?", *params.Resolved)
	}
	if params.Severity != "" {
		query = query.Where("severity = ?", params.Severity)
	}
	if params.HospitalID != nil {
		query = query.Where("hospital_id = ?", *params.HospitalID)
	}

	var rows []models.Alert
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.WithContext(ctx).
		Preload("Hospital", withHospitalContact).
		Where("id = ?", id).
		First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *repositoryImpl) FindUnresolved(ctx context.Context, hospitalID uuid.UUID, alertType enums.AlertType, resource string) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.WithContext(ctx).
		Where("hospital_id = ? AND alert_type = ? AND resource = ? AND is_resolved = ?", hospitalID, alertType, resource, false).
		Order("created_at DESC").
		First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// Resolve flips an unresolved alert; an already resolved alert reports Found
// without being rewritten.
func (r *repositoryImpl) Resolve(ctx context.Context, id, resolver uuid.UUID, now time.Time) (alertResolveResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND is_resolved = ?", id, false).
		UpdateColumns(map[string]any{
			"is_resolved": true,
			"resolved_by": resolver,
			"resolved_at": now,
		})
	if result.Error != nil {
		return alertResolveResult{}, result.Error
	}

	mark := alertResolveResult{Updated: result.RowsAffected > 0}
	if mark.Updated {
		mark.Found = true
		return mark, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return alertResolveResult{}, err
	}
	mark.Found = count > 0
	return mark, nil
}
