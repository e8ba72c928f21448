package config

import (
	"strings"
	"testing"

	"github.com/akeren/go-waitlist-api/internal/log"
)

func TestValidateAutoMigrateAllowed_AllowsDevLikeEnvs(t *testing.T) {
	allowed := []string{"dev", "development", "local", "test", "testing", "DEV", "  Local  "}

	for _, env := range allowed {
		env := env
		t.Run(env, func(t *testing.T) {
			if err := ValidateAutoMigrateAllowed(env); err != nil {
				t.Fatalf("expected no error for env %q, got %v", env, err)
			}
		})
	}
}

func TestValidateAutoMigrateAllowed_RejectsProdAndOtherEnvs(t *testing.T) {
	rejected := []string{"", "  ", "prod", "production", "staging", "preprod", " Production ", "qa"}

	for _, env := range rejected {
		env := env
		t.Run(env, func(t *testing.T) {
			if err := ValidateAutoMigrateAllowed(env); err == nil {
				t.Fatalf("expected error for env %q, got nil", env)
			}
		})
	}
}

func TestResolveEnvironment(t *testing.T) {
	cases := map[string]string{
		"":            EnvironmentProduction,
		"prod":        EnvironmentProduction,
		" PRODUCTION": EnvironmentProduction,
		"development": EnvironmentDevelopment,
		"dev":         EnvironmentDevelopment,
		"local":       EnvironmentDevelopment,
		" Staging ":   "staging",
	}

	for in, want := range cases {
		if got := ResolveEnvironment(in); got != want {
			t.Fatalf("ResolveEnvironment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetAppEnv_FallsBackToLegacyKey(t *testing.T) {
	t.Setenv(AppEnvKey, "")
	t.Setenv(LegacyAppEnvKey, " Development ")

	if got := GetAppEnv(); got != "development" {
		t.Fatalf("expected legacy ENVIRONMENT to be honoured, got %q", got)
	}

	t.Setenv(AppEnvKey, "production")
	if got := GetAppEnv(); got != "production" {
		t.Fatalf("expected APP_ENV to win, got %q", got)
	}
}

func TestLoadApplicationConfiguration_AutoMigrateNeedsExplicitEnv(t *testing.T) {
	t.Setenv("SKIP_DOTENV", "true")
	t.Setenv(AppEnvKey, "")
	t.Setenv(LegacyAppEnvKey, "")

	_, err := LoadApplicationConfiguration(log.NewLoggerWithJSONOutput(), true)
	if err == nil || !strings.Contains(err.Error(), "runs as production") {
		t.Fatalf("expected auto-migrate to be refused with an unset environment, got %v", err)
	}
}
