package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/db/dbtest"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/geo"
)

var cityCentre = geo.Point{Latitude: 19.0760, Longitude: 72.8777}

type fakeRepo struct {
	bedFn   func(ctx context.Context, bedType enums.BedType, min int) ([]models.BedInventory, error)
	bloodFn func(ctx context.Context, group enums.BloodGroup, min int) ([]models.BloodInventory, error)
}

func (f fakeRepo) BedCandidates(ctx context.Context, bedType enums.BedType, min int) ([]models.BedInventory, error) {
	if f.bedFn == nil {
		return nil, nil
	}
	return f.bedFn(ctx, bedType, min)
}

func (f fakeRepo) BloodCandidates(ctx context.Context, group enums.BloodGroup, min int) ([]models.BloodInventory, error) {
	if f.bloodFn == nil {
		return nil, nil
	}
	return f.bloodFn(ctx, group, min)
}

func newResolver(t *testing.T, repo Repository) Resolver {
	t.Helper()
	r, err := NewResolver(repo, config.DispatchConfig{AverageSpeedKmh: 40, ResultLimit: 5}, time.Second, nil)
	require.NoError(t, err)
	return r
}

func seedMumbai(t *testing.T, conn *gorm.DB) {
	t.Helper()
	hospitals := []struct {
		name      string
		lat, lon  float64
		available int
	}{
		{"KEM Hospital", 19.0030, 72.8417, 3},
		{"Sion Hospital", 19.0433, 72.8617, 5},
		{"Cooper Hospital", 19.0896, 72.8356, 2},
		{"Nair Hospital", 18.9983, 72.8397, 7},
		{"JJ Hospital", 18.9625, 72.8314, 4},
		{"Bhagwati Hospital", 19.2403, 72.8560, 9},
	}
	for _, h := range hospitals {
		row := dbtest.Hospital(t, conn, h.name, "Mumbai", h.lat, h.lon)
		dbtest.Bed(t, conn, row, enums.BedTypeICU, 20, h.available)
	}
}

func intPtr(v int) *int { return &v }

func coord(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func TestNearestRanksByDistance(t *testing.T) {
	conn := dbtest.Open(t)
	seedMumbai(t, conn)
	r := newResolver(t, NewRepository(conn))

	result, err := r.Nearest(context.Background(), Query{Location: &cityCentre, Need: "ICU"})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 5)

	wantNames := []string{"Sion Hospital", "Cooper Hospital", "KEM Hospital", "Nair Hospital", "JJ Hospital"}
	wantKm := []float64{4.0, 4.7, 9.0, 9.5, 13.5}
	wantMinutes := []int{6, 8, 14, 15, 21}
	for i, c := range result.Candidates {
		assert.Equal(t, wantNames[i], c.HospitalName)
		assert.InDelta(t, wantKm[i], c.DistanceKm, 0.05)
		assert.Equal(t, wantMinutes[i], c.EstimatedMinutes)
		assert.Equal(t, ResourceBed, c.ResourceType)
		assert.Equal(t, "ICU", c.BedType)
		require.NotNil(t, c.AvailableBeds)
		assert.GreaterOrEqual(t, *c.AvailableBeds, 1)
		assert.Contains(t, c.GoogleMapsLink, "origin=19.076,72.8777")
		if i > 0 {
			assert.LessOrEqual(t, result.Candidates[i-1].DistanceKm, c.DistanceKm)
		}
	}
	assert.Equal(t, SearchParams{Location: cityCentre, NeedType: "ICU", MinAvailable: 1}, result.SearchParams)
}

func TestNearestAppliesMinimumAndActiveFilter(t *testing.T) {
	conn := dbtest.Open(t)
	seedMumbai(t, conn)
	require.NoError(t, conn.Model(&models.Hospital{}).Where("name = ?", "Nair Hospital").Update("is_active", false).Error)
	r := newResolver(t, NewRepository(conn))

	result, err := r.Nearest(context.Background(), Query{Location: &cityCentre, Need: "ICU", MinAvailable: intPtr(4)})
	require.NoError(t, err)

	var names []string
	for _, c := range result.Candidates {
		names = append(names, c.HospitalName)
		assert.GreaterOrEqual(t, *c.AvailableBeds, 4)
	}
	assert.Equal(t, []string{"Sion Hospital", "JJ Hospital", "Bhagwati Hospital"}, names)
}

func TestNearestSkipsHospitalsWithoutLocation(t *testing.T) {
	conn := dbtest.Open(t)
	located := dbtest.Hospital(t, conn, "Sion Hospital", "Mumbai", 19.0433, 72.8617)
	unlocated := models.Hospital{Name: "Unmapped Clinic", City: "Mumbai", IsActive: true}
	require.NoError(t, conn.Create(&unlocated).Error)
	dbtest.Blood(t, conn, located, enums.BloodGroupONeg, 4)
	dbtest.Blood(t, conn, unlocated, enums.BloodGroupONeg, 12)
	r := newResolver(t, NewRepository(conn))

	result, err := r.Nearest(context.Background(), Query{Location: &cityCentre, Need: NeedBlood, BloodGroup: "O-"})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	c := result.Candidates[0]
	assert.Equal(t, "Sion Hospital", c.HospitalName)
	assert.Equal(t, ResourceBlood, c.ResourceType)
	assert.Equal(t, "O-", c.BloodGroup)
	require.NotNil(t, c.UnitsAvailable)
	assert.Equal(t, 4, *c.UnitsAvailable)
	assert.Nil(t, c.AvailableBeds)
	assert.Equal(t, "O-", result.SearchParams.BloodGroup)
}

func TestNearestTiesKeepInputOrder(t *testing.T) {
	first := models.Hospital{Name: "First", Latitude: coord(19.0433), Longitude: coord(72.8617)}
	second := models.Hospital{Name: "Second", Latitude: coord(19.0433), Longitude: coord(72.8617)}
	repo := fakeRepo{bedFn: func(context.Context, enums.BedType, int) ([]models.BedInventory, error) {
		return []models.BedInventory{
			{BedType: enums.BedTypeGeneral, AvailableBeds: 1, TotalBeds: 10, Hospital: &first},
			{BedType: enums.BedTypeGeneral, AvailableBeds: 9, TotalBeds: 10, Hospital: &second},
		}, nil
	}}

	result, err := newResolver(t, repo).Nearest(context.Background(), Query{Location: &cityCentre, Need: "general"})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "First", result.Candidates[0].HospitalName)
	assert.Equal(t, "Second", result.Candidates[1].HospitalName)
}

func TestNearestRejectsBadQueries(t *testing.T) {
	r := newResolver(t, fakeRepo{})
	bad := geo.Point{Latitude: 91, Longitude: 0}

	tests := []struct {
		name   string
		q      Query
		reason string
	}{
		{name: "no location", q: Query{Need: "ICU"}, reason: pkgerrors.ReasonMissingParameters},
		{name: "no need", q: Query{Location: &cityCentre}, reason: pkgerrors.ReasonMissingParameters},
		{name: "blood without group", q: Query{Location: &cityCentre, Need: NeedBlood}, reason: pkgerrors.ReasonMissingBloodGroup},
		{name: "bad coordinate", q: Query{Location: &bad, Need: "ICU"}, reason: pkgerrors.ReasonInvalidCoordinate},
		{name: "negative minimum", q: Query{Location: &cityCentre, Need: "ICU", MinAvailable: intPtr(-1)}, reason: pkgerrors.ReasonInvalidValue},
		{name: "unknown bed type", q: Query{Location: &cityCentre, Need: "surgical"}},
		{name: "unknown blood group", q: Query{Location: &cityCentre, Need: NeedBlood, BloodGroup: "C+"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Nearest(context.Background(), tt.q)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
			if tt.reason != "" {
				details, ok := pkgerrors.As(err).Details().(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.reason, details["reason"])
			}
		})
	}
}

func TestNearestTranslatesStoreFailure(t *testing.T) {
	repo := fakeRepo{bedFn: func(context.Context, enums.BedType, int) ([]models.BedInventory, error) {
		return nil, errors.New("connection reset")
	}}
	_, err := newResolver(t, repo).Nearest(context.Background(), Query{Location: &cityCentre, Need: "ICU"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodePersistence))
}
