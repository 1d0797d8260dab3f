package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "portfolio_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("LOCALES", "en, vi ,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://example.com,https://admin.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.Auth.CookieName != "auth-token" {
		t.Fatalf("cookie name = %q", cfg.Auth.CookieName)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("token ttl = %v, want 24h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.CookieMaxAge != 7*24*time.Hour {
		t.Fatalf("cookie max-age = %v, want 7 days", cfg.Auth.CookieMaxAge)
	}
	if len(cfg.Locale.Supported) != 2 || cfg.Locale.Supported[1] != "vi" {
		t.Fatalf("unexpected locales: %v", cfg.Locale.Supported)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("unexpected origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestLoadConfig_ProductionRequiresMongo(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("SERVER_ENVIRONMENT", "production")
	t.Setenv("MONGODB_URI", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when MONGODB_URI is missing in production")
	}
}

func TestLoadConfig_UnknownDefaultLocaleFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("LOCALES", "vi,en")
	t.Setenv("DEFAULT_LOCALE", "fr")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Locale.Default != "vi" {
		t.Fatalf("default locale = %q, want vi", cfg.Locale.Default)
	}
}
