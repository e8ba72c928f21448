package waitlist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/akeren/go-waitlist-api/pkg/constants"
	apperrors "github.com/akeren/go-waitlist-api/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	countCacheKey           = "waitlist:count"
	countGenerationCacheKey = "waitlist:count:gen"
	countCacheTTL           = 15 * time.Second
)

var tracer = otel.Tracer("github.com/akeren/go-waitlist-api/domain/waitlist")

type WaitlistService interface {
	// Register normalizes, validates and stores a registration.
	Register(ctx context.Context, req *CreateWaitlistEntryRequest) (*WaitlistEntryResponse, error)

	// Count returns the number of registrations.
	Count(ctx context.Context) (*CountResponse, error)

	// ListRecent returns the newest registrations. limitRaw is the unparsed
	// query value; empty means the default.
	ListRecent(ctx context.Context, limitRaw string) (*RecentEntriesResponse, error)
}

// CountCache is the subset of the shared cache the service uses to memoize
// the registration total. Totals are stored per generation; every successful
// registration bumps the generation so a total read before the insert can
// never be served after it.
type CountCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

type ServiceOptions struct {
	RecentListingEnabled bool
	Cache                CountCache
	Metrics              *Metrics
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	validator  *RequestValidator
	options    ServiceOptions
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, options ServiceOptions) WaitlistService {
	return &waitlistService{
		logger:     logger,
		repository: repository,
		validator:  NewRequestValidator(),
		options:    options,
	}
}

func (s *waitlistService) Register(ctx context.Context, req *CreateWaitlistEntryRequest) (*WaitlistEntryResponse, error) {
	ctx, span := tracer.Start(ctx, "waitlist.Register")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if err := s.validator.Validate(req); err != nil {
		logger.Warn("Registration rejected by validation", "details", apperrors.GetErrorDetails(err))
		s.options.Metrics.observeRegistration(outcomeInvalid)
		recordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("waitlist.company_size", req.CompanySize))

	entry, err := s.repository.CreateEntry(ctx, ToWaitlistEntryModel(req))
	if err != nil {
		if apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict {
			logger.Info("Registration rejected: email already registered")
			s.options.Metrics.observeRegistration(outcomeConflict)
		} else {
			logger.Error("Failed to create waitlist entry", "error", err)
			s.options.Metrics.observeRegistration(outcomeError)
		}
		recordSpanError(span, err)
		return nil, err
	}

	s.options.Metrics.observeRegistration(outcomeCreated)
	s.invalidateCount(ctx, logger)

	logger.Info("Waitlist entry created", "id", entry.ID, "company_size", entry.CompanySize)

	response := ToWaitlistEntryResponse(entry)
	return &response, nil
}

func (s *waitlistService) Count(ctx context.Context) (*CountResponse, error) {
	ctx, span := tracer.Start(ctx, "waitlist.Count")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	// The generation is read before the database so a concurrent insert
	// always lands in a newer generation than the total stored below.
	generation, cacheable := s.countGeneration(ctx, logger)

	var total int64
	cached := false
	if cacheable {
		total, cached = s.cachedCount(ctx, logger, generation)
	}
	span.SetAttributes(attribute.Bool("waitlist.count_cached", cached))

	if !cached {
		var err error
		total, err = s.repository.CountEntries(ctx)
		if err != nil {
			logger.Error("Failed to count waitlist entries", "error", err)
			recordSpanError(span, err)
			return nil, err
		}
		if cacheable {
			s.storeCount(ctx, logger, generation, total)
		}
	}

	return &CountResponse{
		TotalRegistrations: total,
		Message:            fmt.Sprintf("There are %d companies on the waitlist", total),
	}, nil
}

func (s *waitlistService) ListRecent(ctx context.Context, limitRaw string) (*RecentEntriesResponse, error) {
	ctx, span := tracer.Start(ctx, "waitlist.ListRecent")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if !s.options.RecentListingEnabled {
		logger.Warn("Recent listing requested while disabled")
		err := apperrors.NewForbiddenError("Endpoint not available in production", nil)
		recordSpanError(span, err)
		return nil, err
	}

	limit, err := parseRecentLimit(limitRaw)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("waitlist.limit", limit))

	entries, err := s.repository.ListRecentEntries(ctx, limit)
	if err != nil {
		logger.Error("Failed to list recent waitlist entries", "limit", limit, "error", err)
		recordSpanError(span, err)
		return nil, err
	}

	responses := ToWaitlistEntryResponses(entries)
	return &RecentEntriesResponse{Count: len(responses), Entries: responses}, nil
}

func parseRecentLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return constants.DefaultRecentLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, apperrors.NewInvalidRequestError("limit must be a positive integer", err)
	}

	if limit > constants.MaxRecentLimit {
		return 0, apperrors.NewInvalidRequestError(fmt.Sprintf("The maximum limit is %d records", constants.MaxRecentLimit), nil)
	}

	return limit, nil
}

func countCacheKeyFor(generation int64) string {
	return countCacheKey + ":" + strconv.FormatInt(generation, 10)
}

// countGeneration returns the current count generation. A missing key is
// generation zero; cache failures disable memoization for the call.
func (s *waitlistService) countGeneration(ctx context.Context, logger *log.Logger) (int64, bool) {
	if s.options.Cache == nil {
		return 0, false
	}

	raw, err := s.options.Cache.Get(ctx, countGenerationCacheKey)
	if err != nil {
		logger.Warn("Count cache read failed", "error", err)
		return 0, false
	}
	if raw == "" {
		return 0, true
	}

	generation, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("Count cache generation is corrupt", "value", raw)
		return 0, false
	}

	return generation, true
}

// cachedCount reports the total memoized for a generation. Cache failures
// are logged and treated as a miss.
func (s *waitlistService) cachedCount(ctx context.Context, logger *log.Logger, generation int64) (int64, bool) {
	raw, err := s.options.Cache.Get(ctx, countCacheKeyFor(generation))
	if err != nil {
		logger.Warn("Count cache read failed", "error", err)
		return 0, false
	}
	if raw == "" {
		return 0, false
	}

	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return total, true
}

func (s *waitlistService) storeCount(ctx context.Context, logger *log.Logger, generation, total int64) {
	if err := s.options.Cache.Set(ctx, countCacheKeyFor(generation), strconv.FormatInt(total, 10), countCacheTTL); err != nil {
		logger.Warn("Count cache write failed", "error", err)
	}
}

func (s *waitlistService) invalidateCount(ctx context.Context, logger *log.Logger) {
	if s.options.Cache == nil {
		return
	}

	if _, err := s.options.Cache.Incr(ctx, countGenerationCacheKey); err != nil {
		logger.Warn("Count cache invalidation failed", "error", err)
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, apperrors.GetErrorType(err))
}
