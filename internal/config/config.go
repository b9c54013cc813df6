package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string
	// PreviewSuffix is the hosting platform's wildcard preview-domain suffix
	// (deploy previews are served from generated subdomains under it).
	PreviewSuffix string

	// Airtable record store
	AirtableBaseID string
	AirtableAPIKey string

	// Resend transactional email
	ResendAPIKey string
	NotifyFrom   string
	NotifyTo     []string

	// Square payments
	SquareAccessToken   string
	SquareApplicationID string
	SquareLocationID    string
	SquareEnvironment   string // "sandbox" or "production"

	// Admin access. The password is configured as a bcrypt hash; there is no
	// plaintext fallback.
	AdminPasswordHash string
	AdminJWTSecret    string

	// Rate limiting
	RedisURL        string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: parseList(getEnv("ALLOWED_ORIGINS", "epcla.com,www.epcla.com,localhost")),
		PreviewSuffix:  getEnv("PREVIEW_DOMAIN_SUFFIX", ".vercel.app"),

		AirtableBaseID: getEnv("AIRTABLE_BASE_ID", ""),
		AirtableAPIKey: getEnv("AIRTABLE_API_KEY", ""),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		NotifyFrom:   getEnv("NOTIFY_EMAIL_FROM", "EPC Website <notifications@epcla.com>"),
		NotifyTo:     parseList(getEnv("NOTIFY_EMAIL_TO", "info@epcla.com")),

		SquareAccessToken:   getEnv("SQUARE_ACCESS_TOKEN", ""),
		SquareApplicationID: getEnv("SQUARE_APPLICATION_ID", ""),
		SquareLocationID:    getEnv("SQUARE_LOCATION_ID", ""),
		SquareEnvironment:   getEnv("SQUARE_ENVIRONMENT", "sandbox"),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminJWTSecret:    getEnv("ADMIN_JWT_SECRET", ""),

		RedisURL:        getEnv("REDIS_URL", ""),
		RateLimitMax:    getIntEnv("RATE_LIMIT_MAX", 5),
		RateLimitWindow: time.Duration(getIntEnv("RATE_LIMIT_WINDOW_MS", 60000)) * time.Millisecond,
	}, nil
}

// IsProduction reports whether the service runs with production sanitization
// (upstream error details are withheld from responses).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// parseList parses a comma-separated value into a slice
func parseList(value string) []string {
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
