// Package dbtest opens throwaway SQLite databases carrying the application schema.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

// Open returns an in-memory database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Hospital{},
		&models.HospitalStaff{},
		&models.BedInventory{},
		&models.BloodInventory{},
		&models.UpdateLog{},
		&models.Alert{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// Hospital inserts an active hospital at the given coordinates.
func Hospital(t testing.TB, conn *gorm.DB, name, city string, lat, lon float64) models.Hospital {
	t.Helper()
	h := models.Hospital{
		Name:      name,
		City:      city,
		Address:   name + " Road",
		Phone:     "022-0000000",
		IsActive:  true,
		Latitude:  decimal.NewNullDecimal(decimal.NewFromFloat(lat)),
		Longitude: decimal.NewNullDecimal(decimal.NewFromFloat(lon)),
	}
	if err := conn.Create(&h).Error; err != nil {
		t.Fatalf("create hospital: %v", err)
	}
	return h
}

func Bed(t testing.TB, conn *gorm.DB, hospital models.Hospital, bedType enums.BedType, total, available int) models.BedInventory {
	t.Helper()
	row := models.BedInventory{
		HospitalID:    hospital.ID,
		BedType:       bedType,
		TotalBeds:     total,
		AvailableBeds: available,
	}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("create bed inventory: %v", err)
	}
	return row
}

func Blood(t testing.TB, conn *gorm.DB, hospital models.Hospital, group enums.BloodGroup, units int) models.BloodInventory {
	t.Helper()
	row := models.BloodInventory{
		HospitalID:     hospital.ID,
		BloodGroup:     group,
		UnitsAvailable: units,
	}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("create blood inventory: %v", err)
	}
	return row
}
