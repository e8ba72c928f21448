package waitlist

import (
	"github.com/akeren/go-waitlist-api/config/router"
	"github.com/akeren/go-waitlist-api/internal/log"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db      *gorm.DB
	logger  *log.Logger
	options ServiceOptions
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, options ServiceOptions) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:      db,
		logger:  logger,
		options: options,
	}
}

// CreateService builds a service without mounting it, for callers such as
// the CLI that need the domain logic outside HTTP.
func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	repository := NewWaitlistRepository(f.db)
	return NewWaitlistService(f.logger, repository, f.options)
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.db, f.logger, f.options)
}
