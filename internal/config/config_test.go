package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "SITE_URL", "YOCO_SECRET_KEY", "YOCO_API_URL", "YOCO_TIMEOUT",
		"DATABASE_URL", "REDIS_URL", "EXCHANGE_RATE_TTL", "FALLBACK_EXCHANGE_RATE",
		"CORS_ALLOWED_ORIGINS", "CHECKOUT_RETENTION", "CLEANUP_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.Port != "5000" {
		t.Errorf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.SiteURL != "https://admtravelssa.com" {
		t.Errorf("unexpected site url %s", cfg.SiteURL)
	}
	if cfg.YocoAPIURL != "https://payments.yoco.com" {
		t.Errorf("unexpected yoco url %s", cfg.YocoAPIURL)
	}
	if cfg.YocoSecretKey != "" {
		t.Errorf("expected empty secret")
	}
	if cfg.FallbackExchangeRate != 18.0 {
		t.Errorf("expected fallback rate 18, got %v", cfg.FallbackExchangeRate)
	}
	if cfg.ExchangeRateTTL != time.Hour {
		t.Errorf("expected 1h rate ttl, got %v", cfg.ExchangeRateTTL)
	}
	if cfg.LedgerEnabled() {
		t.Errorf("ledger must be disabled without DATABASE_URL")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SITE_URL", "https://staging.admtravelssa.com/")
	t.Setenv("YOCO_SECRET_KEY", "sk_test_abc")
	t.Setenv("YOCO_TIMEOUT", "3s")
	t.Setenv("FALLBACK_EXCHANGE_RATE", "17.5")
	t.Setenv("DATABASE_URL", "postgres://localhost/adm")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admtravelssa.com, https://www.admtravelssa.com")

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.SiteURL != "https://staging.admtravelssa.com" {
		t.Errorf("trailing slash not trimmed: %s", cfg.SiteURL)
	}
	if cfg.YocoSecretKey != "sk_test_abc" {
		t.Errorf("unexpected secret %s", cfg.YocoSecretKey)
	}
	if cfg.YocoTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.YocoTimeout)
	}
	if cfg.FallbackExchangeRate != 17.5 {
		t.Errorf("expected 17.5, got %v", cfg.FallbackExchangeRate)
	}
	if !cfg.LedgerEnabled() {
		t.Errorf("ledger should be enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://www.admtravelssa.com" {
		t.Errorf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("YOCO_TIMEOUT", "soon")
	t.Setenv("FALLBACK_EXCHANGE_RATE", "-1")

	cfg := LoadConfig()

	if cfg.YocoTimeout != 15*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.YocoTimeout)
	}
	if cfg.FallbackExchangeRate != 18.0 {
		t.Errorf("expected default fallback rate, got %v", cfg.FallbackExchangeRate)
	}
}
