package hospitals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/db/models"
)

// Repository reads hospitals and their attached inventory.
type Repository interface {
	List(ctx context.Context, params listHospitalsParams) ([]models.Hospital, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error)
	ListActive(ctx context.Context, city string) ([]models.Hospital, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listHospitalsParams struct {
	City     string
	District string
	State    string
}

func (r *repositoryImpl) List(ctx context.Context, params listHospitalsParams) ([]models.Hospital, error) {
	query := r.db.WithContext(ctx).
		Preload("BedInventory").
		Preload("BloodInventory").
		Where("is_active = ?", true)
	if params.City != "" {
		query = query.Where("city = ?", params.City)
	}
	if params.District != "" {
		query = query.Where("district = ?", params.District)
	}
	if params.State != "" {
		query = query.Where("state = ?", params.State)
	}

	var rows []models.Hospital
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActive is List narrowed to an optional city.
func (r *repositoryImpl) ListActive(ctx context.Context, city string) ([]models.Hospital, error) {
	return r.List(ctx, listHospitalsParams{City: city})
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	var row models.Hospital
	if err := r.db.WithContext(ctx).
		Preload("BedInventory", func(db *gorm.DB) *gorm.DB { return db.Order("bed_type ASC") }).
		Preload("BloodInventory", func(db *gorm.DB) *gorm.DB { return db.Order("blood_group ASC") }).
		Preload("Alerts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
