package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string
	SiteURL  string

	YocoSecretKey string
	YocoAPIURL    string
	YocoTimeout   time.Duration

	DatabaseURL string
	RedisURL    string

	ExchangeRateAPIURL   string
	ExchangeRateAPIKey   string
	ExchangeRateTTL      time.Duration
	FallbackExchangeRate float64

	CheckoutRetention time.Duration
	CleanupInterval   time.Duration

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first; real environment variables win.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "5000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		SiteURL:  strings.TrimRight(getEnv("SITE_URL", "https://admtravelssa.com"), "/"),

		YocoSecretKey: os.Getenv("YOCO_SECRET_KEY"),
		YocoAPIURL:    strings.TrimRight(getEnv("YOCO_API_URL", "https://payments.yoco.com"), "/"),
		YocoTimeout:   getDuration("YOCO_TIMEOUT", 15*time.Second),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		ExchangeRateAPIURL:   strings.TrimRight(getEnv("EXCHANGE_RATE_API_URL", "https://api.exchangerate.host"), "/"),
		ExchangeRateAPIKey:   os.Getenv("EXCHANGE_RATE_API_KEY"),
		ExchangeRateTTL:      getDuration("EXCHANGE_RATE_TTL", 60*time.Minute),
		FallbackExchangeRate: getFloat("FALLBACK_EXCHANGE_RATE", 18.0),

		CheckoutRetention: getDuration("CHECKOUT_RETENTION", 90*24*time.Hour),
		CleanupInterval:   getDuration("CLEANUP_INTERVAL", time.Hour),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// LedgerEnabled reports whether checkouts should be recorded.
func (c *Config) LedgerEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
