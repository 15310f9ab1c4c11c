package staff

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/db/models"
)

// Repository reads hospital staff affiliations.
type Repository interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.HospitalStaff, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.HospitalStaff, error) {
	var row models.HospitalStaff
	if err := r.db.WithContext(ctx).
		Preload("Hospital").
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
