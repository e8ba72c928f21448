package waitlist

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/akeren/go-waitlist-api/internal/models"
	apperrors "github.com/akeren/go-waitlist-api/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memoryCountCache struct {
	mu      sync.Mutex
	values  map[string]string
	failGet bool
}

func newMemoryCountCache() *memoryCountCache {
	return &memoryCountCache{values: map[string]string{}}
}

func (c *memoryCountCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return "", errors.New("connection refused")
	}
	return c.values[key], nil
}

func (c *memoryCountCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCountCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := strconv.ParseInt(c.values[key], 10, 64)
	if err != nil {
		n = 0
	}
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func TestWaitlistService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	metrics := NewMetrics()
	service := NewWaitlistService(logger, mockRepo, ServiceOptions{Metrics: metrics})

	t.Run("successful registration stores normalized values", func(t *testing.T) {
		req := validRequest()
		req.Email = " Founder@Acme.CO "

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				assert.Equal(t, "founder@acme.co", entry.Email)
				require.NotNil(t, entry.Phone)
				assert.Equal(t, "+573001234567", *entry.Phone)
				entry.ID = 1
				entry.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
				return entry, nil
			})

		result, err := service.Register(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, uint64(1), result.ID)
		assert.Equal(t, "founder@acme.co", result.Email)
		assert.Equal(t, "11-50", result.CompanySize)
		assert.Equal(t, "2025-01-02T03:04:05Z", result.CreatedAt)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.registrations.WithLabelValues(outcomeCreated)))
	})

	t.Run("absent phone is stored as null", func(t *testing.T) {
		req := validRequest()
		req.Phone = ""

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				assert.Nil(t, entry.Phone)
				return entry, nil
			})

		result, err := service.Register(context.Background(), req)

		require.NoError(t, err)
		assert.Nil(t, result.Phone)
	})

	t.Run("invalid payload never reaches the repository", func(t *testing.T) {
		req := validRequest()
		req.CompanySize = "Enterprise"

		result, err := service.Register(context.Background(), req)

		assert.Nil(t, result)
		assert.Equal(t, 400, apperrors.HTTPStatusCode(err))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.registrations.WithLabelValues(outcomeInvalid)))
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewConflictError("email already registered", nil))

		result, err := service.Register(context.Background(), validRequest())

		assert.Nil(t, result)
		assert.Equal(t, 409, apperrors.HTTPStatusCode(err))
		assert.Equal(t, "email already registered", apperrors.GetHumanReadableMessage(err))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.registrations.WithLabelValues(outcomeConflict)))
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("unable to create waitlist entry", errors.New("connection reset")))

		result, err := service.Register(context.Background(), validRequest())

		assert.Nil(t, result)
		assert.Equal(t, 500, apperrors.HTTPStatusCode(err))
		assert.NotContains(t, apperrors.GetHumanReadableMessage(err), "connection reset")
	})
}

func TestWaitlistService_Count(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := log.NewLoggerWithJSONOutput()

	t.Run("without cache", func(t *testing.T) {
		mockRepo := NewMockWaitlistRepository(ctrl)
		service := NewWaitlistService(logger, mockRepo, ServiceOptions{})

		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(42), nil)

		result, err := service.Count(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(42), result.TotalRegistrations)
		assert.Contains(t, result.Message, "42")
	})

	t.Run("cached total is reused until a registration invalidates it", func(t *testing.T) {
		mockRepo := NewMockWaitlistRepository(ctrl)
		cache := newMemoryCountCache()
		service := NewWaitlistService(logger, mockRepo, ServiceOptions{Cache: cache})

		gomock.InOrder(
			mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(3), nil),
			mockRepo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
					return entry, nil
				}),
			mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(4), nil),
		)

		first, err := service.Count(context.Background())
		require.NoError(t, err)
		second, err := service.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), first.TotalRegistrations)
		assert.Equal(t, int64(3), second.TotalRegistrations)

		_, err = service.Register(context.Background(), validRequest())
		require.NoError(t, err)

		third, err := service.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(4), third.TotalRegistrations)
	})

	t.Run("total read before a concurrent registration is not served after it", func(t *testing.T) {
		mockRepo := NewMockWaitlistRepository(ctrl)
		cache := newMemoryCountCache()
		service := NewWaitlistService(logger, mockRepo, ServiceOptions{Cache: cache})

		gomock.InOrder(
			mockRepo.EXPECT().CountEntries(gomock.Any()).
				DoAndReturn(func(ctx context.Context) (int64, error) {
					// The registration commits after this read saw three rows.
					_, err := service.Register(ctx, validRequest())
					require.NoError(t, err)
					return 3, nil
				}),
			mockRepo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
					return entry, nil
				}),
			mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(4), nil),
		)

		stale, err := service.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), stale.TotalRegistrations)

		fresh, err := service.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(4), fresh.TotalRegistrations)
	})

	t.Run("cache failure falls back to the database", func(t *testing.T) {
		mockRepo := NewMockWaitlistRepository(ctrl)
		cache := newMemoryCountCache()
		cache.failGet = true
		service := NewWaitlistService(logger, mockRepo, ServiceOptions{Cache: cache})

		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(7), nil)

		result, err := service.Count(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(7), result.TotalRegistrations)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := NewMockWaitlistRepository(ctrl)
		service := NewWaitlistService(logger, mockRepo, ServiceOptions{})

		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(0), apperrors.NewDatabaseError("unable to count waitlist entries", nil))

		result, err := service.Count(context.Background())

		assert.Nil(t, result)
		assert.Equal(t, 500, apperrors.HTTPStatusCode(err))
	})
}

func TestWaitlistService_ListRecent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := log.NewLoggerWithJSONOutput()

	t.Run("disabled listing is forbidden before the limit is checked", func(t *testing.T) {
		service := NewWaitlistService(logger, NewMockWaitlistRepository(ctrl), ServiceOptions{RecentListingEnabled: false})

		for _, limit := range []string{"", "10", "51", "abc"} {
			_, err := service.ListRecent(context.Background(), limit)
			assert.Equal(t, 403, apperrors.HTTPStatusCode(err), limit)
		}
	})

	t.Run("limit bounds", func(t *testing.T) {
		service := NewWaitlistService(logger, NewMockWaitlistRepository(ctrl), ServiceOptions{RecentListingEnabled: true})

		for _, limit := range []string{"51", "0", "-3", "ten", "1.5"} {
			_, err := service.ListRecent(context.Background(), limit)
			assert.Equal(t, 400, apperrors.HTTPStatusCode(err), limit)
		}
	})

	t.Run("default limit", func(t *testing.T) {
		mockRepo := NewMockWaitlistRepository(ctrl)
		service := NewWaitlistService(logger, mockRepo, ServiceOptions{RecentListingEnabled: true})

		mockRepo.EXPECT().ListRecentEntries(gomock.Any(), 10).Return([]*models.WaitlistEntry{
			{ID: 2, Email: "b@example.com"},
			{ID: 1, Email: "a@example.com"},
		}, nil)

		result, err := service.ListRecent(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, 2, result.Count)
		assert.Equal(t, uint64(2), result.Entries[0].ID)
	})

	t.Run("explicit limit at the maximum", func(t *testing.T) {
		mockRepo := NewMockWaitlistRepository(ctrl)
		service := NewWaitlistService(logger, mockRepo, ServiceOptions{RecentListingEnabled: true})

		mockRepo.EXPECT().ListRecentEntries(gomock.Any(), 50).Return(nil, nil)

		result, err := service.ListRecent(context.Background(), "50")

		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
		assert.NotNil(t, result.Entries)
	})
}
