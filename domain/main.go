package domain

import (
	"github.com/akeren/go-waitlist-api/config"
	"github.com/akeren/go-waitlist-api/domain/monitoring"
	"github.com/akeren/go-waitlist-api/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	settings := appConfig.Config

	var monitoringCache monitoring.Cache
	var countCache waitlist.CountCache
	if appConfig.Cache != nil {
		monitoringCache = appConfig.Cache
		countCache = appConfig.Cache
	}

	appConfig.RouterService.MountController(
		monitoring.NewMonitoringControllerFactory(
			appConfig.DB,
			appConfig.Logger,
			monitoringCache,
			settings.Environment,
			settings.IsDevelopment(),
		).CreateController(),
	)

	appConfig.RouterService.MountController(
		waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, waitlist.ServiceOptions{
			RecentListingEnabled: settings.RecentListingEnabled,
			Cache:                countCache,
		}).CreateController(),
	)
}
