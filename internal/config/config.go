package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Remote document API consumed by the workspace client
	APIURL      string
	HTTPTimeout time.Duration
	// Editor timing
	AutosaveInterval time.Duration
	ScrollSyncDelay  time.Duration
	// Log file rotation (empty dir disables file logging)
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

const (
	// DefaultAutosaveInterval is the period between autosave checks.
	DefaultAutosaveInterval = 5 * time.Second

	// DefaultScrollSyncDelay is how long the scroll synchronizer suppresses
	// events after it moved the other pane itself.
	DefaultScrollSyncDelay = 50 * time.Millisecond

	// DefaultHTTPTimeout bounds every remote store request.
	DefaultHTTPTimeout = 30 * time.Second
)

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	port := getEnv("PORT", "5000")

	return &Config{
		Port:             port,
		Environment:      env,
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:3000"),
		APIURL:           getEnv("DOCDESK_API_URL", "http://localhost:"+port),
		HTTPTimeout:      getDuration("DOCDESK_HTTP_TIMEOUT", DefaultHTTPTimeout),
		AutosaveInterval: getDuration("DOCDESK_AUTOSAVE_INTERVAL", DefaultAutosaveInterval),
		ScrollSyncDelay:  getDuration("DOCDESK_SCROLL_SYNC_DELAY", DefaultScrollSyncDelay),
		LogDir:           getEnv("LOG_DIR", ""),
		LogMaxFiles:      getInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses Go duration syntax ("5s", "250ms"); invalid or
// non-positive values fall back to the default.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
