package waitlist

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/akeren/go-waitlist-api/internal/models"
	apperrors "github.com/akeren/go-waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "waitlist.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// SQLite allows a single writer; one connection keeps concurrent tests
	// deterministic instead of failing with "database is locked".
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ModelRegistry...))
	return db
}

func newEntry(email string) *models.WaitlistEntry {
	return &models.WaitlistEntry{
		Email:        email,
		CompanyName:  "Acme",
		CompanyNiche: "Logistics",
		CompanySize:  "1-10",
	}
}

func TestWaitlistRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	var last uint64
	for i := 0; i < 3; i++ {
		entry, err := repo.CreateEntry(ctx, newEntry(fmt.Sprintf("user%d@example.com", i)))
		require.NoError(t, err)
		assert.Greater(t, entry.ID, last)
		assert.False(t, entry.CreatedAt.IsZero())
		last = entry.ID
	}

	total, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestWaitlistRepository_DuplicateEmailConflicts(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateEntry(ctx, newEntry("dup@example.com"))
	require.NoError(t, err)

	_, err = repo.CreateEntry(ctx, newEntry("dup@example.com"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetErrorType(err))
	assert.Equal(t, "email already registered", apperrors.GetHumanReadableMessage(err))

	total, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestWaitlistRepository_UniqueIndexViolationIsRecognised(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(newEntry("index@example.com")).Error)
	err := db.Create(newEntry("index@example.com")).Error

	require.Error(t, err)
	assert.True(t, isDuplicateKey(err), "unexpected error %v", err)
}

func TestWaitlistRepository_ConcurrentRegistrationSingleWinner(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateEntry(ctx, newEntry("race@example.com"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestWaitlistRepository_ListRecentNewestFirst(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := repo.CreateEntry(ctx, newEntry(fmt.Sprintf("r%d@example.com", i)))
		require.NoError(t, err)
	}

	entries, err := repo.ListRecentEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "r3@example.com", entries[0].Email)
	assert.Equal(t, "r0@example.com", entries[3].Email)

	limited, err := repo.ListRecentEntries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "r3@example.com", limited[0].Email)
}

func TestWaitlistRepository_StorageErrorsAreDatabaseErrors(t *testing.T) {
	db := newTestDB(t)
	repo := NewWaitlistRepository(db)

	require.NoError(t, db.Migrator().DropTable(&models.WaitlistEntry{}))

	_, err := repo.CountEntries(context.Background())
	assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))

	_, err = repo.CreateEntry(context.Background(), newEntry("gone@example.com"))
	assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
}
