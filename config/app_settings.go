package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/akeren/go-waitlist-api/pkg/utils"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// AppConfig is built once at startup and handed to the router and domains.
// Everything that depends on the deployment mode lives here.
type AppConfig struct {
	Environment string `yaml:"-" default:"production"`

	RateLimitRequests int           `yaml:"rate_limit_requests" default:"100"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window" default:"1m"`
	RequestTimeout    time.Duration `yaml:"request_timeout" default:"30s"`

	AllowedOrigins []string `yaml:"allowed_origins"`
	TrustedHosts   []string `yaml:"trusted_hosts"`

	DocsEnabled          bool `yaml:"docs_enabled"`
	RecentListingEnabled bool `yaml:"recent_listing_enabled"`

	BackendService BackendServiceConfig `yaml:"backend_service"`
}

// BackendServiceConfig carries the hosted backend credentials. They are
// validated and passed along but no SDK is called by this service.
type BackendServiceConfig struct {
	URL string `yaml:"url"`
	Key string `yaml:"-"`
}

func (b BackendServiceConfig) IsConfigured() bool {
	return b.URL != "" && b.Key != ""
}

var productionOrigins = []string{
	"https://fiva-waitlist.vercel.app",
	"https://fiva-waitlist-page-production.up.railway.app",
	"https://www.fivadata.com",
	"https://fivadata.com",
}

var productionHosts = []string{
	"fiva-waitlist.vercel.app",
	"fiva-waitlist-page-production.up.railway.app",
	"www.fivadata.com",
	"fivadata.com",
}

var developmentOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

var localHosts = []string{"localhost", "127.0.0.1"}

func (ac *AppConfig) IsProduction() bool {
	return ac.Environment == EnvironmentProduction
}

func (ac *AppConfig) IsDevelopment() bool {
	return ac.Environment == EnvironmentDevelopment
}

// LoadAppConfig resolves configuration in order: struct defaults, deployment
// mode defaults, the optional APP_CONFIG_FILE, then environment variables.
func LoadAppConfig(logger *log.Logger) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	cfg.Environment = ResolveEnvironment(GetAppEnv())
	cfg.applyModeDefaults()

	if path := utils.GetEnvTrimmed("APP_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
		logger.Info("Configuration file merged", "path", path)
	}

	cfg.applyEnvOverrides()
	cfg.enforceModePolicy()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.BackendService.IsConfigured() {
		logger.Warn("SUPABASE_URL/SUPABASE_KEY not set; backend service credentials unavailable")
	}

	logger.Info("Application settings resolved",
		"environment", cfg.Environment,
		"allowed_origins", cfg.AllowedOrigins,
		"trusted_hosts", cfg.TrustedHosts,
		"docs_enabled", cfg.DocsEnabled,
		"recent_listing_enabled", cfg.RecentListingEnabled,
	)

	return cfg, nil
}

func (ac *AppConfig) applyModeDefaults() {
	if ac.IsProduction() {
		ac.AllowedOrigins = append([]string(nil), productionOrigins...)
		ac.TrustedHosts = append([]string(nil), productionHosts...)
		ac.DocsEnabled = false
		ac.RecentListingEnabled = false
		return
	}

	ac.AllowedOrigins = append([]string(nil), developmentOrigins...)
	ac.TrustedHosts = append([]string(nil), localHosts...)
	if ac.IsDevelopment() {
		ac.TrustedHosts = append(ac.TrustedHosts, "*")
	}
	ac.DocsEnabled = ac.IsDevelopment()
	ac.RecentListingEnabled = true
}

func (ac *AppConfig) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, ac); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}

	return nil
}

func (ac *AppConfig) applyEnvOverrides() {
	if reqStr := os.Getenv("RATE_LIMIT_REQUESTS"); reqStr != "" {
		if parsed, err := strconv.Atoi(reqStr); err == nil && parsed > 0 {
			ac.RateLimitRequests = parsed
		}
	}

	if winStr := os.Getenv("RATE_LIMIT_WINDOW"); winStr != "" {
		if parsed, err := time.ParseDuration(winStr); err == nil && parsed > 0 {
			ac.RateLimitWindow = parsed
		}
	}

	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		if parsed, err := time.ParseDuration(timeoutStr); err == nil && parsed > 0 {
			ac.RequestTimeout = parsed
		}
	}

	if origins := splitList(os.Getenv("CORS_ALLOWED_ORIGINS")); len(origins) > 0 {
		ac.AllowedOrigins = origins
	}

	if hosts := splitList(os.Getenv("TRUSTED_HOSTS")); len(hosts) > 0 {
		ac.TrustedHosts = hosts
	}

	if v := sanitizeEnv(os.Getenv("SUPABASE_URL")); v != "" {
		ac.BackendService.URL = v
	}

	if v := sanitizeEnv(os.Getenv("SUPABASE_KEY")); v != "" {
		ac.BackendService.Key = v
	}
}

// enforceModePolicy keeps docs to development and the recent listing out of
// production no matter what the file or environment asked for.
func (ac *AppConfig) enforceModePolicy() {
	if !ac.IsDevelopment() {
		ac.DocsEnabled = false
	}
	if ac.IsProduction() {
		ac.RecentListingEnabled = false
	}
}

func (ac *AppConfig) Validate() error {
	if ac.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive, got %d", ac.RateLimitRequests)
	}
	if ac.RateLimitWindow <= 0 {
		return fmt.Errorf("rate_limit_window must be positive, got %s", ac.RateLimitWindow)
	}
	if ac.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", ac.RequestTimeout)
	}
	if len(ac.TrustedHosts) == 0 {
		return fmt.Errorf("at least one trusted host is required")
	}
	return nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
