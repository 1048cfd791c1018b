package settings

import (
	"testing"

	"asador-backend/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestGetMissingKey(t *testing.T) {
	db := newTestDB(t)

	_, ok := Get(db, KeyMinOrder)
	require.False(t, ok)

	_, ok = GetDecimal(db, KeyMinOrder)
	require.False(t, ok)
}

func TestSetUpserts(t *testing.T) {
	db := newTestDB(t)

	s, err := Set(db, KeyMinOrder, "1")
	require.NoError(t, err)
	require.Equal(t, "1", s.Value)

	s2, err := Set(db, KeyMinOrder, "2")
	require.NoError(t, err)
	require.Equal(t, s.ID, s2.ID)

	v, ok := GetDecimal(db, KeyMinOrder)
	require.True(t, ok)
	require.Equal(t, "2.0", v.StringFixed(1))
}

func TestGetDecimalUnparsable(t *testing.T) {
	db := newTestDB(t)

	_, err := Set(db, KeyOpenDays, `["V","S","D"]`)
	require.NoError(t, err)

	_, ok := GetDecimal(db, KeyOpenDays)
	require.False(t, ok)
}

func TestInitializeDoesNotOverwrite(t *testing.T) {
	db := newTestDB(t)

	_, err := Set(db, KeyMaxOrder, "25")
	require.NoError(t, err)

	require.NoError(t, Initialize(db))

	v, ok := Get(db, KeyMaxOrder)
	require.True(t, ok)
	require.Equal(t, "25", v)

	// the other defaults were seeded
	v, ok = Get(db, KeyMinOrder)
	require.True(t, ok)
	require.Equal(t, "1", v)
	v, ok = Get(db, KeyPickupInterval)
	require.True(t, ok)
	require.Equal(t, "15", v)
}
