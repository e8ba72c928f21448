package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/akeren/go-waitlist-api/config/router"
	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/akeren/go-waitlist-api/pkg/constants"
	apperrors "github.com/akeren/go-waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

const (
	healthCheckTimeout = 3 * time.Second

	cacheStatusConnected    = "connected"
	cacheStatusDisconnected = "disconnected"
	cacheStatusDisabled     = "disabled"
)

type Cache interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Pooler      string `json:"pooler,omitempty"`
	Cache       string `json:"cache"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

type BannerResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
}

type MonitoringController struct {
	db              *gorm.DB
	logger          *log.Logger
	cache           Cache
	environment     string
	developmentMode bool
	startTime       time.Time
}

func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache Cache, environment string, developmentMode bool) *router.RESTController {
	ctrl := &MonitoringController{
		db:              db,
		logger:          logger,
		cache:           cache,
		environment:     environment,
		developmentMode: developmentMode,
		startTime:       time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			bannerLimiter := routerService.NewRateLimiter(constants.BannerRequestsPerMinute, time.Minute)
			healthLimiter := routerService.NewRateLimiter(constants.HealthRequestsPerMinute, time.Minute)

			routerService.AddGetHandler(controller, bannerLimiter, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.banner(c)
			})

			routerService.AddGetHandler(controller, healthLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

// healthCheck godoc
// @Summary Database connectivity probe
// @Tags monitoring
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := ctrl.performHealthChecks(ctx, logger)

	if status.Status != "healthy" {
		err := apperrors.NewServiceUnavailableError("Database connection error", nil)
		return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), status)
	}

	return router.OKResult(status, "Health check completed")
}

// banner godoc
// @Summary Service banner
// @Tags monitoring
// @Produce json
// @Success 200 {object} BannerResponse
// @Router / [get]
func (ctrl *MonitoringController) banner(
	c *router.RequestContext,
) *router.ServiceResult {
	endpoints := map[string]string{
		"health":   "GET /health",
		"register": "POST /waitlist",
		"count":    "GET /waitlist/count",
	}
	if ctrl.developmentMode {
		endpoints["docs"] = "GET /docs/index.html"
		endpoints["recent"] = "GET /waitlist/recent?limit=10"
	}

	return &router.ServiceResult{
		StatusCode: http.StatusOK,
		Data: BannerResponse{
			Name:        constants.ServiceName,
			Version:     constants.ServiceVersion,
			Environment: ctrl.environment,
			Endpoints:   endpoints,
		},
		Message: constants.ServiceName + " is running",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthResponse {
	status := HealthResponse{
		Status:      "healthy",
		Database:    "connected",
		Pooler:      "transaction mode",
		Environment: ctrl.environment,
		Uptime:      time.Since(ctrl.startTime).Round(time.Second).String(),
	}

	if err := ctrl.checkDatabase(ctx); err != nil {
		logger.Error("Database health check failed", "error", err)
		status.Status = "unhealthy"
		status.Database = "disconnected"
		status.Pooler = ""
	}

	status.Cache = ctrl.checkCache(ctx, logger)

	return status
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) error {
	if ctrl.db == nil {
		return gorm.ErrInvalidDB
	}

	var one int
	return ctrl.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}

// checkCache reports the optional cache. It never affects the overall status.
func (ctrl *MonitoringController) checkCache(ctx context.Context, logger *log.Logger) string {
	if ctrl.cache == nil {
		return cacheStatusDisabled
	}

	if err := ctrl.cache.Ping(ctx); err != nil {
		logger.Warn("Cache health check failed", "error", err)
		return cacheStatusDisconnected
	}

	return cacheStatusConnected
}
