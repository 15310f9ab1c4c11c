package main

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meditrack/meditrack-api/internal/thresholds"
	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/db/dbtest"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestBuildDatasetShape(t *testing.T) {
	d := BuildDataset(testRand())

	require.Len(t, d.Hospitals, 20)
	require.Len(t, d.Beds, 20*7)
	require.Len(t, d.Blood, 20*8)
	require.Len(t, d.Alerts, 5)
	require.Empty(t, d.Staff)

	cities := map[string]int{}
	for _, h := range d.Hospitals {
		cities[h.City]++
		_, _, ok := h.Coordinates()
		require.True(t, ok, "%s has no coordinates", h.Name)
		require.True(t, h.IsActive)
	}
	require.Equal(t, map[string]int{"Mumbai": 12, "Jaipur": 8}, cities)
}

func TestBuildDatasetRespectsCapacity(t *testing.T) {
	d := BuildDataset(testRand())
	for _, bed := range d.Beds {
		require.GreaterOrEqual(t, bed.AvailableBeds, 0)
		require.LessOrEqual(t, bed.AvailableBeds, bed.TotalBeds, "%s over capacity", bed.BedType)
	}
	for _, blood := range d.Blood {
		require.GreaterOrEqual(t, blood.UnitsAvailable, 0)
		require.GreaterOrEqual(t, blood.UnitsReserved, 0)
		require.LessOrEqual(t, blood.UnitsReserved, 5)
	}
}

func TestBuildDatasetSkewsShortages(t *testing.T) {
	d := BuildDataset(testRand())
	th := thresholds.DefaultThresholds()
	index := map[string]int{}
	for i, h := range d.Hospitals {
		index[h.ID.String()] = i
	}

	for _, bed := range d.Beds {
		if bed.BedType != enums.BedTypeICU {
			continue
		}
		idx := index[bed.HospitalID.String()]
		switch idx % 3 {
		case 0:
			require.LessOrEqual(t, bed.AvailableBeds, th.ICUCritical-1)
		case 1:
			require.GreaterOrEqual(t, bed.AvailableBeds, th.ICUCritical)
			require.LessOrEqual(t, bed.AvailableBeds, th.ICUHigh-1)
		default:
			require.GreaterOrEqual(t, bed.AvailableBeds, th.ICUHigh)
		}
	}

	for _, blood := range d.Blood {
		idx := index[blood.HospitalID.String()]
		if idx%4 == 0 && (blood.BloodGroup == enums.BloodGroupONeg || blood.BloodGroup == enums.BloodGroupABNeg) {
			require.Zero(t, blood.UnitsAvailable)
		}
	}

	require.Equal(t, d.Hospitals[0].ID, d.Alerts[3].HospitalID)
	require.Equal(t, d.Hospitals[4].ID, d.Alerts[4].HospitalID)
	require.Equal(t, "CRITICAL: AB- blood out of stock at JJ Hospital", d.Alerts[4].Message)
}

func TestBuildDatasetIsReproducible(t *testing.T) {
	a := BuildDataset(testRand())
	b := BuildDataset(testRand())
	for i := range a.Beds {
		require.Equal(t, a.Beds[i].AvailableBeds, b.Beds[i].AvailableBeds)
		require.Equal(t, a.Beds[i].TotalBeds, b.Beds[i].TotalBeds)
	}
}

func TestAddStaffRejectsUnknownHospital(t *testing.T) {
	d := BuildDataset(testRand())
	_, err := d.AddStaff(len(d.Hospitals), enums.StaffRoleAdmin, "nobody")
	require.Error(t, err)

	row, err := d.AddStaff(1, enums.StaffRoleStaff, "Ward Coordinator")
	require.NoError(t, err)
	require.Equal(t, d.Hospitals[1].ID, row.HospitalID)
	require.Len(t, d.Staff, 1)
}

func TestLoadWritesEverything(t *testing.T) {
	conn := dbtest.Open(t)
	client := db.NewFromGorm(conn, time.Second)

	d := BuildDataset(testRand())
	_, err := d.AddStaff(0, enums.StaffRoleAdmin, "District Administrator")
	require.NoError(t, err)
	require.NoError(t, Load(context.Background(), client, d))

	counts := map[string]any{
		"hospitals": &models.Hospital{},
		"beds":      &models.BedInventory{},
		"blood":     &models.BloodInventory{},
		"alerts":    &models.Alert{},
		"staff":     &models.HospitalStaff{},
	}
	want := map[string]int64{"hospitals": 20, "beds": 140, "blood": 160, "alerts": 5, "staff": 1}
	for name, model := range counts {
		var n int64
		require.NoError(t, conn.Model(model).Count(&n).Error)
		require.Equal(t, want[name], n, name)
	}

	var unresolved int64
	require.NoError(t, conn.Model(&models.Alert{}).Where("is_resolved = ?", false).Count(&unresolved).Error)
	require.EqualValues(t, 5, unresolved)
}
