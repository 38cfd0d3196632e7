package services

import (
	"strings"
	"testing"

	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB returns a migrated in-memory sqlite database private to the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := models.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, false)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// countQueries counts SELECTs issued through db from now on.
func countQueries(t *testing.T, db *gorm.DB) *int {
	t.Helper()
	n := 0
	err := db.Callback().Query().After("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		n++
	})
	require.NoError(t, err)
	return &n
}

func uintPtr(v uint) *uint { return &v }
