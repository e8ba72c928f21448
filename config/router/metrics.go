package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akeren/go-waitlist-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsRoute             = "/metrics"
	metricsRequestsPerMinute = 60
)

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func metricsEnabled() bool {
	v := utils.GetEnvTrimmed("METRICS_ENABLED")
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

// mountMetrics installs the registry and request instrumentation. It runs
// before every other middleware so rejected requests are counted too.
func (routerService *RouterService) mountMetrics() {
	if !metricsEnabled() {
		routerService.logger.Info("Metrics disabled (METRICS_ENABLED=false)")
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := newMetrics(reg)
	routerService.metricsRegistry = reg

	// Middleware
	routerService.engine.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		m.requestsTotal.WithLabelValues(method, route, status).Inc()
		m.requestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	})

	routerService.metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// mountMetricsEndpoint serves /metrics behind the host and rate limit gates,
// so it must run after those middlewares are installed.
func (routerService *RouterService) mountMetricsEndpoint() {
	if routerService.metricsHandler == nil {
		return
	}

	controller := NewRESTController("MetricsController", "/metrics", nil).
		RateLimitWith(routerService, routerService.NewRateLimiter(metricsRequestsPerMinute, time.Minute))
	controller.handlerCount++
	controller.bindHandlerToController(routerService, metricsRoute, http.MethodGet)

	routerService.engine.GET(metricsRoute, gin.WrapH(routerService.metricsHandler))
	routerService.logger.Info("Metrics endpoint mounted", "path", metricsRoute)
}

// RegisterCollectors adds domain collectors to the /metrics registry. It is a
// no-op when metrics are disabled.
func (routerService *RouterService) RegisterCollectors(collectors ...prometheus.Collector) {
	if routerService.metricsRegistry == nil {
		return
	}

	for _, collector := range collectors {
		if err := routerService.metricsRegistry.Register(collector); err != nil {
			routerService.logger.Warn("Failed to register metrics collector", "error", err)
		}
	}
}
