package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditrack/meditrack-api/pkg/db/dbtest"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

func TestRepositoryUpdateBedHonoursVersion(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	h := dbtest.Hospital(t, conn, "Sion Hospital", "Mumbai", 19.0433, 72.8617)
	bed := dbtest.Bed(t, conn, h, enums.BedTypeICU, 12, 6)

	stale := int64(5)
	affected, err := repo.UpdateBed(ctx, bedWrite{ID: bed.ID, Available: 3, UpdatedBy: uuid.New(), ExpectedVersion: &stale, Now: time.Now()})
	require.NoError(t, err)
	assert.Zero(t, affected)

	current := int64(1)
	affected, err = repo.UpdateBed(ctx, bedWrite{ID: bed.ID, Available: 3, UpdatedBy: uuid.New(), ExpectedVersion: &current, Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.UpdateBed(ctx, bedWrite{ID: bed.ID, Available: 2, UpdatedBy: uuid.New(), Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	stored, err := repo.FindBed(ctx, bed.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableBeds)
	assert.Equal(t, int64(3), stored.Version)
	require.NotNil(t, stored.Hospital)
	assert.Equal(t, "Sion Hospital", stored.Hospital.Name)
}

func TestRepositoryListBedsFiltersTypeAndMinimum(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	open := dbtest.Hospital(t, conn, "Cooper Hospital", "Mumbai", 19.0896, 72.8356)
	closed := dbtest.Hospital(t, conn, "Nair Hospital", "Mumbai", 18.9983, 72.8397)
	require.NoError(t, conn.Model(&models.Hospital{}).Where("id = ?", closed.ID).Update("is_active", false).Error)
	dbtest.Bed(t, conn, open, enums.BedTypeICU, 10, 4)
	dbtest.Bed(t, conn, closed, enums.BedTypeICU, 10, 8)

	dbtest.Bed(t, conn, open, enums.BedTypeGeneral, 50, 30)

	all, err := repo.ListBeds(ctx, listBedsParams{BedType: enums.BedTypeICU, MinAvailable: 1})
	require.NoError(t, err)
	assert.Len(t, all, 2, "inactive hospitals are not filtered from inventory lists")

	plenty, err := repo.ListBeds(ctx, listBedsParams{BedType: enums.BedTypeICU, MinAvailable: 5})
	require.NoError(t, err)
	require.Len(t, plenty, 1)
	assert.Equal(t, closed.ID, plenty[0].HospitalID)

	none, err := repo.ListBeds(ctx, listBedsParams{BedType: enums.BedTypeICU, MinAvailable: 9})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepositoryUpdateBloodKeepsReservedWhenUnset(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	h := dbtest.Hospital(t, conn, "JJ Hospital", "Mumbai", 18.9625, 72.8314)
	blood := dbtest.Blood(t, conn, h, enums.BloodGroupBPos, 9)

	reserved := 3
	_, err := repo.UpdateBlood(ctx, bloodWrite{ID: blood.ID, UnitsAvailable: 7, UnitsReserved: &reserved, UpdatedBy: uuid.New(), Now: time.Now()})
	require.NoError(t, err)
	_, err = repo.UpdateBlood(ctx, bloodWrite{ID: blood.ID, UnitsAvailable: 5, UpdatedBy: uuid.New(), Now: time.Now()})
	require.NoError(t, err)

	rows, err := repo.ListBlood(ctx, listBloodParams{BloodGroup: enums.BloodGroupBPos})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].UnitsAvailable)
	assert.Equal(t, 3, rows[0].UnitsReserved)
	assert.Equal(t, int64(3), rows[0].Version)
}
