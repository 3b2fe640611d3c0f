// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// ScoringConfig provides settings for the lead scoring engine.
type ScoringConfig interface {
	// GetScoringRulesPath returns the path to an optional YAML file
	// overriding the built-in scoring vocabularies and thresholds.
	// Empty means compiled-in defaults only.
	GetScoringRulesPath() string
	// GetAutoQualifyMinScore is the default threshold for auto-qualification.
	GetAutoQualifyMinScore() int
	// GetRescoreConcurrency bounds parallel lead rescoring workers.
	GetRescoreConcurrency() int
}

// Config is the concrete application configuration.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	JWTAccessSecret     string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	ScoringRulesPath    string
	AutoQualifyMinScore int
	RescoreConcurrency  int
	ImportMaxRows       int
	ShutdownTimeout     time.Duration
}

// Interface implementations.

func (c *Config) GetDatabaseURL() string      { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string  { return c.JWTAccessSecret }
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool       { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool     { return c.CORSAllowCreds }
func (c *Config) GetScoringRulesPath() string { return c.ScoringRulesPath }
func (c *Config) GetAutoQualifyMinScore() int { return c.AutoQualifyMinScore }
func (c *Config) GetRescoreConcurrency() int  { return c.RescoreConcurrency }

// Load reads configuration from the environment, with .env support for
// local development. It fails fast on missing required settings.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTAccessSecret:     getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		ScoringRulesPath:    getEnv("SCORING_RULES_PATH", ""),
		AutoQualifyMinScore: getEnvInt("AUTO_QUALIFY_MIN_SCORE", 70),
		RescoreConcurrency:  getEnvInt("RESCORE_CONCURRENCY", 8),
		ImportMaxRows:       getEnvInt("IMPORT_MAX_ROWS", 10000),
		ShutdownTimeout:     mustDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.AutoQualifyMinScore < 0 || cfg.AutoQualifyMinScore > 100 {
		return nil, fmt.Errorf("AUTO_QUALIFY_MIN_SCORE must be between 0 and 100")
	}
	if cfg.RescoreConcurrency < 1 {
		return nil, fmt.Errorf("RESCORE_CONCURRENCY must be at least 1")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return n
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
