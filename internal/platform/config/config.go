package config

import (
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName   string
	HTTPPort      string
	PostgresDSN   string
	AdminIdentity string

	EnableProjectionCheck   bool
	ProjectionCheckSchedule string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "medledger"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	schedule := strings.TrimSpace(os.Getenv("PROJECTION_CHECK_SCHEDULE"))
	if schedule == "" {
		schedule = "@every 5m"
	}

	return Config{
		ServiceName:   service,
		HTTPPort:      port,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		AdminIdentity: strings.TrimSpace(os.Getenv("LEDGER_ADMIN_ID")),

		EnableProjectionCheck:   envBool("ENABLE_PROJECTION_CHECK", true),
		ProjectionCheckSchedule: schedule,
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
