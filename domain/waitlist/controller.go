package waitlist

import (
	"time"

	"github.com/akeren/go-waitlist-api/config/router"
	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/akeren/go-waitlist-api/pkg/constants"
	apperrors "github.com/akeren/go-waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

func NewWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
	options ServiceOptions,
) *router.RESTController {

	return router.NewRESTController(
		"WaitlistController",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			if options.Metrics == nil {
				options.Metrics = NewMetrics()
			}
			rs.RegisterCollectors(options.Metrics.Collectors()...)

			repository := NewWaitlistRepository(db)
			service := NewWaitlistService(logger, repository, options)

			rs.AddPostHandler(c, rs.NewRateLimiter(constants.RegistrationRequestsPerMinute, time.Minute), "", registerHandler(service))
			rs.AddGetHandler(c, rs.NewRateLimiter(constants.CountRequestsPerMinute, time.Minute), "count", countHandler(service))
			rs.AddGetHandler(c, rs.NewRateLimiter(constants.RecentListingRequestsPerMinute, time.Minute), "recent", recentHandler(service))
		},
	)
}

// registerHandler godoc
// @Summary Register a company on the waitlist
// @Tags waitlist
// @Accept json
// @Produce json
// @Param request body CreateWaitlistEntryRequest true "Registration payload"
// @Success 201 {object} WaitlistEntryResponse
// @Failure 400,409,429,500
// @Router /waitlist [post]
func registerHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateWaitlistEntryRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Register(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResultFrom(err)
		}

		return router.CreatedResult(response, "Waitlist entry")
	}
}

// countHandler godoc
// @Summary Total number of registrations
// @Tags waitlist
// @Produce json
// @Success 200 {object} CountResponse
// @Router /waitlist/count [get]
func countHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.Count(ctx.Request.Context())
		if err != nil {
			return router.ErrorResultFrom(err)
		}

		return router.OKResult(response, response.Message)
	}
}

// recentHandler godoc
// @Summary Most recent registrations (development only)
// @Tags waitlist
// @Produce json
// @Param limit query int false "Number of entries" default(10) minimum(1) maximum(50)
// @Success 200 {object} RecentEntriesResponse
// @Failure 400,403,429,500
// @Router /waitlist/recent [get]
func recentHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.ListRecent(ctx.Request.Context(), ctx.Query("limit"))
		if err != nil {
			return router.ErrorResultFrom(err)
		}

		return router.OKResult(response, "Recent waitlist entries retrieved successfully")
	}
}
