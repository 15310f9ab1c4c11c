package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

// Repository persists bed and blood inventory and the update log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBed(ctx context.Context, id uuid.UUID) (*models.BedInventory, error)
	FindBlood(ctx context.Context, id uuid.UUID) (*models.BloodInventory, error)
	UpdateBed(ctx context.Context, params bedWrite) (int64, error)
	UpdateBlood(ctx context.Context, params bloodWrite) (int64, error)
	CreateUpdateLog(ctx context.Context, entry *models.UpdateLog) error
	ListBeds(ctx context.Context, params listBedsParams) ([]models.BedInventory, error)
	ListBlood(ctx context.Context, params listBloodParams) ([]models.BloodInventory, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// bedWrite is applied only while the row still carries Version when
// ExpectedVersion is set.
type bedWrite struct {
	ID              uuid.UUID
	Available       int
	UpdatedBy       uuid.UUID
	ExpectedVersion *int64
	Now             time.Time
}

type bloodWrite struct {
	ID              uuid.UUID
	UnitsAvailable  int
	UnitsReserved   *int
	UpdatedBy       uuid.UUID
	ExpectedVersion *int64
	Now             time.Time
}

type listBedsParams struct {
	BedType      enums.BedType
	MinAvailable int
}

type listBloodParams struct {
	BloodGroup enums.BloodGroup
	MinUnits   int
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindBed(ctx context.Context, id uuid.UUID) (*models.BedInventory, error) {
	var row models.BedInventory
	if err := r.db.WithContext(ctx).Preload("Hospital").Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) FindBlood(ctx context.Context, id uuid.UUID) (*models.BloodInventory, error) {
	var row models.BloodInventory
	if err := r.db.WithContext(ctx).Preload("Hospital").Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) UpdateBed(ctx context.Context, params bedWrite) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BedInventory{}).Where("id = ?", params.ID)
	if params.ExpectedVersion != nil {
		query = query.Where("version = ?", *params.ExpectedVersion)
	}
	result := query.UpdateColumns(map[string]any{
		"available_beds": params.Available,
		"updated_by":     params.UpdatedBy,
		"last_updated":   params.Now,
		"version":        gorm.Expr("version + 1"),
	})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) UpdateBlood(ctx context.Context, params bloodWrite) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BloodInventory{}).Where("id = ?", params.ID)
	if params.ExpectedVersion != nil {
		query = query.Where("version = ?", *params.ExpectedVersion)
	}
	columns := map[string]any{
		"units_available": params.UnitsAvailable,
		"updated_by":      params.UpdatedBy,
		"last_updated":    params.Now,
		"version":         gorm.Expr("version + 1"),
	}
	if params.UnitsReserved != nil {
		columns["units_reserved"] = *params.UnitsReserved
	}
	result := query.UpdateColumns(columns)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) CreateUpdateLog(ctx context.Context, entry *models.UpdateLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) ListBeds(ctx context.Context, params listBedsParams) ([]models.BedInventory, error) {
	query := r.db.WithContext(ctx).
		Model(&models.BedInventory{}).
		Preload("Hospital").
		Where("bed_inventory.available_beds >= ?", params.MinAvailable)
	if params.BedType != "" {
		query = query.Where("bed_inventory.bed_type = ?", params.BedType)
	}

	var rows []models.BedInventory
	if err := query.Order("bed_inventory.hospital_id ASC, bed_inventory.bed_type ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListBlood(ctx context.Context, params listBloodParams) ([]models.BloodInventory, error) {
	query := r.db.WithContext(ctx).
		Model(&models.BloodInventory{}).
		Preload("Hospital").
		Where("blood_inventory.units_available >= ?", params.MinUnits)
	if params.BloodGroup != "" {
		query = query.Where("blood_inventory.blood_group = ?", params.BloodGroup)
	}

	var rows []models.BloodInventory
	if err := query.Order("blood_inventory.hospital_id ASC, blood_inventory.blood_group ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
