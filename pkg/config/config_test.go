package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Auth.OTPTTL != 10*time.Minute {
		t.Fatalf("expected 10m OTP TTL, got %s", cfg.Auth.OTPTTL)
	}
	if cfg.Auth.CookieName != "token" {
		t.Fatalf("expected cookie name token, got %q", cfg.Auth.CookieName)
	}
	if cfg.Storage.Prefix != "travel-app" {
		t.Fatalf("expected storage prefix travel-app, got %q", cfg.Storage.Prefix)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("OTP_MAX_ATTEMPTS", "3")
	t.Setenv("EMAIL_DEV_MODE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	if cfg.Server.Port != "9999" {
		t.Fatalf("expected port 9999, got %s", cfg.Server.Port)
	}
	if cfg.Auth.OTPTTL != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", cfg.Auth.OTPTTL)
	}
	if cfg.Auth.OTPMaxAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", cfg.Auth.OTPMaxAttempts)
	}
	if cfg.Email.DevMode {
		t.Fatal("expected dev mode disabled")
	}
	origins := cfg.CORS.AllowedOrigins
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "nope")
	t.Setenv("ACCESS_TOKEN_TTL", "forever")
	t.Setenv("AUTH_COOKIE_SECURE", "maybe")

	cfg := Load()

	if cfg.Redis.DB != 0 {
		t.Fatalf("expected fallback 0, got %d", cfg.Redis.DB)
	}
	if cfg.Auth.AccessTokenTTL != 24*time.Hour {
		t.Fatalf("expected fallback 24h, got %s", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.CookieSecure {
		t.Fatal("expected fallback false")
	}
}
