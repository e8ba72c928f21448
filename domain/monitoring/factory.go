package monitoring

import (
	"github.com/akeren/go-waitlist-api/config/router"
	"github.com/akeren/go-waitlist-api/internal/log"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db              *gorm.DB
	logger          *log.Logger
	cache           Cache
	environment     string
	developmentMode bool
}

func NewMonitoringControllerFactory(db *gorm.DB, logger *log.Logger, cache Cache, environment string, developmentMode bool) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:              db,
		logger:          logger,
		cache:           cache,
		environment:     environment,
		developmentMode: developmentMode,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache, f.environment, f.developmentMode)
}
