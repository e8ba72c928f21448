package router

import (
	"net/http"
	"time"

	_ "github.com/akeren/go-waitlist-api/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	docsRoute             = "/docs/*any"
	docsRequestsPerMinute = 60
)

// mountDocs serves the swagger UI in development. In production the route is
// never registered, so /docs falls through to the 404 handler.
func (routerService *RouterService) mountDocs() {
	if !routerService.config.DocsEnabled {
		routerService.logger.Info("API documentation disabled")
		return
	}

	controller := NewRESTController("DocsController", "/docs", nil).
		RateLimitWith(routerService, routerService.NewRateLimiter(docsRequestsPerMinute, time.Minute))
	controller.handlerCount++
	controller.bindHandlerToController(routerService, docsRoute, http.MethodGet)

	routerService.engine.GET(docsRoute, ginSwagger.WrapHandler(swaggerFiles.Handler))
	routerService.logger.Info("API documentation mounted", "path", "/docs/index.html")
}
