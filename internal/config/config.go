// Package config reads runtime settings from the environment, with an optional
// .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the portfolio binary.
type Config struct {
	App     AppConfig
	Contact ContactConfig
	Site    SiteConfig
	MockAPI MockAPIConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	Port     int
	LogLevel string
}

// ContactConfig points the contact form at its backend.
type ContactConfig struct {
	BaseURL       string
	Timeout       time.Duration
	FeedbackDelay time.Duration
}

// SiteConfig controls page content.
type SiteConfig struct {
	// ContentPath overrides the embedded content file when set.
	ContentPath string
}

// MockAPIConfig configures the development contact API stub.
type MockAPIConfig struct {
	Port          int
	RatePerMinute int
}

// Load reads environment variables, applies defaults, validates values and
// returns a populated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development")
	cfg.App.Port = ldr.getPort("PORT", 8080)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info")

	cfg.Contact.BaseURL = ldr.getString("CONTACT_API_BASE_URL", "http://localhost:8000/api/v1")
	cfg.Contact.Timeout = ldr.getMillis("CONTACT_API_TIMEOUT_MS", 15000)
	cfg.Contact.FeedbackDelay = ldr.getMillis("CONTACT_FEEDBACK_DELAY_MS", 5000)

	cfg.Site.ContentPath = ldr.getString("SITE_CONTENT_PATH", "")

	cfg.MockAPI.Port = ldr.getPort("MOCK_API_PORT", 8000)
	cfg.MockAPI.RatePerMinute = ldr.getInt("MOCK_API_RATE_PER_MINUTE", 5)
	if cfg.MockAPI.RatePerMinute <= 0 {
		ldr.addError("MOCK_API_RATE_PER_MINUTE must be positive")
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		if val = strings.TrimSpace(val); val != "" {
			return val
		}
	}
	return def
}

func (l *envLoader) getInt(key string, def int) int {
	val := l.getString(key, "")
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid integer", key))
		return def
	}
	return i
}

func (l *envLoader) getPort(key string, def int) int {
	port := l.getInt(key, def)
	if port <= 0 || port > 65535 {
		l.addError(fmt.Sprintf("%s must be between 1 and 65535", key))
		return def
	}
	return port
}

func (l *envLoader) getMillis(key string, def int) time.Duration {
	ms := l.getInt(key, def)
	if ms <= 0 {
		l.addError(fmt.Sprintf("%s must be positive", key))
		ms = def
	}
	return time.Duration(ms) * time.Millisecond
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
