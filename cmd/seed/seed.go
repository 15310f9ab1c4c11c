package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

const batchSize = 100

// Dataset is one complete set of sample rows, built before anything is written.
type Dataset struct {
	Hospitals []models.Hospital
	Beds      []models.BedInventory
	Blood     []models.BloodInventory
	Alerts    []models.Alert
	Staff     []models.HospitalStaff
}

type Summary struct {
	Hospitals int `json:"hospitals"`
	Beds      int `json:"beds"`
	Blood     int `json:"blood"`
	Alerts    int `json:"alerts"`
	Staff     int `json:"staff"`
}

func (d Dataset) Summary() Summary {
	return Summary{
		Hospitals: len(d.Hospitals),
		Beds:      len(d.Beds),
		Blood:     len(d.Blood),
		Alerts:    len(d.Alerts),
		Staff:     len(d.Staff),
	}
}

// between returns an int in [lo, hi]; hi below lo collapses to lo.
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// BuildDataset lays out the sample hospitals with inventories skewed so that
// every third hospital has an ICU emergency and every fourth runs out of
// O- and AB- blood.
func BuildDataset(rng *rand.Rand) Dataset {
	var d Dataset
	for _, seed := range sampleHospitals {
		email := seed.Email
		d.Hospitals = append(d.Hospitals, models.Hospital{
			ID:        uuid.New(),
			Name:      seed.Name,
			Address:   seed.Address,
			City:      seed.City,
			District:  seed.District,
			State:     seed.State,
			Latitude:  decimal.NewNullDecimal(decimal.NewFromFloat(seed.Latitude)),
			Longitude: decimal.NewNullDecimal(decimal.NewFromFloat(seed.Longitude)),
			Phone:     seed.Phone,
			Email:     &email,
			IsActive:  true,
		})
	}

	for idx, h := range d.Hospitals {
		for _, bedType := range enums.BedTypes() {
			total, available := bedCounts(rng, idx, bedType)
			d.Beds = append(d.Beds, models.BedInventory{
				ID:            uuid.New(),
				HospitalID:    h.ID,
				BedType:       bedType,
				TotalBeds:     total,
				AvailableBeds: available,
				Version:       1,
			})
		}
		for _, group := range enums.BloodGroups() {
			d.Blood = append(d.Blood, models.BloodInventory{
				ID:             uuid.New(),
				HospitalID:     h.ID,
				BloodGroup:     group,
				UnitsAvailable: bloodUnits(rng, idx, group),
				UnitsReserved:  between(rng, 0, 5),
				Version:        1,
			})
		}
	}

	for _, h := range d.Hospitals[:3] {
		d.Alerts = append(d.Alerts, models.Alert{
			ID:         uuid.New(),
			HospitalID: h.ID,
			AlertType:  enums.AlertTypeBedShortage,
			Resource:   enums.BedTypeICU.String(),
			Message:    fmt.Sprintf("CRITICAL: ICU beds critically low at %s", h.Name),
			Severity:   enums.SeverityCritical,
		})
	}
	d.Alerts = append(d.Alerts,
		models.Alert{
			ID:         uuid.New(),
			HospitalID: d.Hospitals[0].ID,
			AlertType:  enums.AlertTypeBloodShortage,
			Resource:   enums.BloodGroupONeg.String(),
			Message:    fmt.Sprintf("WARNING: O- blood running low at %s", d.Hospitals[0].Name),
			Severity:   enums.SeverityHigh,
		},
		models.Alert{
			ID:         uuid.New(),
			HospitalID: d.Hospitals[4].ID,
			AlertType:  enums.AlertTypeBloodShortage,
			Resource:   enums.BloodGroupABNeg.String(),
			Message:    fmt.Sprintf("CRITICAL: AB- blood out of stock at %s", d.Hospitals[4].Name),
			Severity:   enums.SeverityCritical,
		},
	)
	return d
}

func bedCounts(rng *rand.Rand, idx int, bedType enums.BedType) (total, available int) {
	switch bedType {
	case enums.BedTypeICU:
		total = between(rng, 10, 30)
		switch idx % 3 {
		case 0:
			available = between(rng, 0, 1)
		case 1:
			available = between(rng, 2, 4)
		default:
			available = between(rng, 5, total)
		}
	case enums.BedTypeVentilator:
		total = between(rng, 5, 15)
		available = between(rng, 0, total*6/10)
	case enums.BedTypeGeneral:
		total = between(rng, 100, 300)
		available = between(rng, 10, total*4/10)
	default:
		total = between(rng, 20, 80)
		available = between(rng, 0, total/2)
	}
	return total, available
}

func bloodUnits(rng *rand.Rand, idx int, group enums.BloodGroup) int {
	negative := strings.HasSuffix(group.String(), "-")
	switch {
	case idx%4 == 0 && (group == enums.BloodGroupONeg || group == enums.BloodGroupABNeg):
		return 0
	case idx%4 == 1 && negative:
		return between(rng, 1, 2)
	default:
		return between(rng, 3, 50)
	}
}

// AddStaff affiliates a user with the hospital at index idx.
func (d *Dataset) AddStaff(idx int, role enums.StaffRole, fullName string) (models.HospitalStaff, error) {
	if idx < 0 || idx >= len(d.Hospitals) {
		return models.HospitalStaff{}, fmt.Errorf("hospital index %d out of range", idx)
	}
	row := models.HospitalStaff{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		HospitalID: d.Hospitals[idx].ID,
		Role:       role,
		FullName:   fullName,
		IsActive:   true,
	}
	d.Staff = append(d.Staff, row)
	return row, nil
}

// Load writes the dataset in a single transaction.
func Load(ctx context.Context, client *db.Client, d Dataset) error {
	return client.WithTx(ctx, func(tx *gorm.DB) error {
		steps := []struct {
			name string
			rows any
			n    int
		}{
			{"hospitals", &d.Hospitals, len(d.Hospitals)},
			{"bed inventory", &d.Beds, len(d.Beds)},
			{"blood inventory", &d.Blood, len(d.Blood)},
			{"alerts", &d.Alerts, len(d.Alerts)},
			{"staff", &d.Staff, len(d.Staff)},
		}
		for _, step := range steps {
			if step.n == 0 {
				continue
			}
			if err := tx.CreateInBatches(step.rows, batchSize).Error; err != nil {
				return fmt.Errorf("insert %s: %w", step.name, err)
			}
		}
		return nil
	})
}
