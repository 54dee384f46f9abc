package database_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/gdg-garage/itinerary-api/internal/config"
	"github.com/gdg-garage/itinerary-api/internal/database"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/gdg-garage/itinerary-api/internal/testutil"
	"github.com/gdg-garage/itinerary-api/internal/trips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestConnectMigratesFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itinerary.db")

	db, err := database.Connect(&config.Config{DatabasePath: path})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	for _, table := range []string{"users", "cities", "activities", "trips", "trip_stops", "trip_activities", "expenses"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := testutil.NewDB(t)

	err := db.Create(&models.Trip{
		UserID:    testutil.RandomID(),
		Name:      "Orphan",
		StartDate: testutil.Date("2026-01-01"),
		EndDate:   testutil.Date("2026-01-02"),
	}).Error
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestSeed(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, database.Seed(ctx, db, quietLogger()))

	assert.Equal(t, int64(8), count(t, db, &models.City{}))
	assert.Equal(t, int64(12), count(t, db, &models.Activity{}))
	assert.Equal(t, int64(1), count(t, db, &models.User{}))

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", database.DemoEmail).Error)
	assert.Equal(t, "Test User", user.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(database.DemoPassword)))

	var paris models.City
	require.NoError(t, db.First(&paris, "id = ?", "c_paris").Error)
	assert.Equal(t, 95, paris.PopularityScore)
	assert.Equal(t, 1.4, paris.CostIndex)
	require.NotNil(t, paris.Latitude)

	store := trips.NewStore(db, quietLogger())
	trip, err := store.GetPublic(ctx, database.SampleTripID, trips.ExpandAll)
	require.NoError(t, err)
	assert.Equal(t, "Europe Adventure", trip.Name)
	assert.Equal(t, user.ID, trip.UserID)
	require.Len(t, trip.Stops, 2)
	assert.Equal(t, "Paris", trip.Stops[0].PlaceName())
	assert.Len(t, trip.Stops[0].Activities, 2)
	assert.Equal(t, "London", trip.Stops[1].PlaceName())
	assert.Len(t, trip.Expenses, 2)

	breakdown, err := store.Budget(ctx, database.SampleTripID, "")
	require.NoError(t, err)
	assert.Equal(t, 755.0, breakdown.TotalCost)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, database.Seed(ctx, db, quietLogger()))
	require.NoError(t, db.Model(&models.City{}).Where("id = ?", "c_rome").Update("popularity_score", 1).Error)
	require.NoError(t, db.Model(&models.Trip{}).Where("id = ?", database.SampleTripID).Update("name", "Renamed").Error)

	require.NoError(t, database.Seed(ctx, db, quietLogger()))

	assert.Equal(t, int64(8), count(t, db, &models.City{}))
	assert.Equal(t, int64(12), count(t, db, &models.Activity{}))
	assert.Equal(t, int64(1), count(t, db, &models.User{}))
	assert.Equal(t, int64(1), count(t, db, &models.Trip{}))
	assert.Equal(t, int64(2), count(t, db, &models.TripStop{}))
	assert.Equal(t, int64(3), count(t, db, &models.TripActivity{}))

	var rome models.City
	require.NoError(t, db.First(&rome, "id = ?", "c_rome").Error)
	assert.Equal(t, 92, rome.PopularityScore)

	var trip models.Trip
	require.NoError(t, db.First(&trip, "id = ?", database.SampleTripID).Error)
	assert.Equal(t, "Renamed", trip.Name)
}
