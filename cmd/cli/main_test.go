package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/akeren/go-waitlist-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestWriteStats(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelRegistry...))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, email := range []string{"a@example.com", "b@example.com"} {
		require.NoError(t, db.Create(&models.WaitlistEntry{
			Email: email, CompanyName: "Acme", CompanyNiche: "Retail", CompanySize: "1-10",
		}).Error)
	}

	var out bytes.Buffer
	require.NoError(t, writeStats(db, log.NewLoggerWithJSONOutput(), &out))

	var stats struct {
		TotalRegistrations int64 `json:"total_registrations"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalRegistrations)
}
