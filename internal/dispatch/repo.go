package dispatch

import (
	"context"

	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

// Repository reads candidate inventory from active hospitals.
type Repository interface {
	BedCandidates(ctx context.Context, bedType enums.BedType, minAvailable int) ([]models.BedInventory, error)
	BloodCandidates(ctx context.Context, group enums.BloodGroup, minUnits int) ([]models.BloodInventory, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// Candidates come back most stocked first. The resolver's stable sort keeps
// that order between hospitals at equal distance.
func (r *repositoryImpl) BedCandidates(ctx context.Context, bedType enums.BedType, minAvailable int) ([]models.BedInventory, error) {
	var rows []models.BedInventory
	err := r.db.WithContext(ctx).
		Model(&models.BedInventory{}).
		Preload("Hospital").
		Joins("JOIN hospitals ON hospitals.id = bed_inventory.hospital_id").
		Where("hospitals.is_active = ?", true).
		Where("bed_inventory.bed_type = ?", bedType).
		Where("bed_inventory.available_beds >= ?", minAvailable).
		Order("bed_inventory.available_beds DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) BloodCandidates(ctx context.Context, group enums.BloodGroup, minUnits int) ([]models.BloodInventory, error) {
	var rows []models.BloodInventory
	err := r.db.WithContext(ctx).
		Model(&models.BloodInventory{}).
		Preload("Hospital").
		Joins("JOIN hospitals ON hospitals.id = blood_inventory.hospital_id").
		Where("hospitals.is_active = ?", true).
		Where("blood_inventory.blood_group = ?", group).
		Where("blood_inventory.units_available >= ?", minUnits).
		Order("blood_inventory.units_available DESC").
		Find(&rows).Error
	return rows, err
}
