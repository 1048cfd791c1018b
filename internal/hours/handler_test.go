package hours

import (
	"testing"

	"asador-backend/internal/database"
	"asador-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestInitializeSeedsWeek(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Initialize(db))

	var rows []models.BusinessHours
	require.NoError(t, db.Order("day_of_week ASC").Find(&rows).Error)
	require.Len(t, rows, 7)

	for i, row := range rows {
		require.Equal(t, i, row.DayOfWeek)
		require.Equal(t, "10:00", row.OpenTime)
		require.Equal(t, "22:00", row.CloseTime)
		// weekend starts closed
		require.Equal(t, i < 5, row.IsOpen)
	}

	// a second run must not duplicate rows
	require.NoError(t, Initialize(db))
	var count int64
	require.NoError(t, db.Model(&models.BusinessHours{}).Count(&count).Error)
	require.EqualValues(t, 7, count)
}

func TestTimePattern(t *testing.T) {
	valid := []string{"00:00", "10:30", "23:59"}
	invalid := []string{"24:00", "9:00", "10:60", "abc", ""}

	for _, v := range valid {
		require.True(t, timePattern.MatchString(v), v)
	}
	for _, v := range invalid {
		require.False(t, timePattern.MatchString(v), v)
	}
}
