package config

import (
	"context"
	"time"

	"github.com/akeren/go-waitlist-api/config/router"
	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/akeren/go-waitlist-api/internal/models"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

// RouterConfigFrom projects the settings the HTTP layer needs.
func RouterConfigFrom(appConfig *AppConfig) *router.RouterConfig {
	return &router.RouterConfig{
		Environment:       appConfig.Environment,
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
		AllowedOrigins:    appConfig.AllowedOrigins,
		TrustedHosts:      appConfig.TrustedHosts,
		DocsEnabled:       appConfig.DocsEnabled,
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		if err := ValidateAutoMigrateAllowed(GetAppEnv()); err != nil {
			return nil, err
		}
	}

	appConfig, err := LoadAppConfig(logger)
	if err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger, appConfig)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, NewDBConfigFromEnv())
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, RouterConfigFrom(appConfig))

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
