package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.HTTPPort)
	}
	if cfg.AccessTTL != 24*time.Hour {
		t.Fatalf("unexpected default access TTL: %s", cfg.AccessTTL)
	}
	if cfg.CodeTTL != 30*time.Second {
		t.Fatalf("unexpected default code TTL: %s", cfg.CodeTTL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("CODE_TTL", "45s")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("DEBUG_ERRORS", "true")

	cfg := Load()
	if cfg.HTTPPort != "9999" {
		t.Fatalf("expected port override, got %s", cfg.HTTPPort)
	}
	if cfg.CodeTTL != 45*time.Second {
		t.Fatalf("expected code TTL override, got %s", cfg.CodeTTL)
	}
	if cfg.RateLimitPerMin != 30 {
		t.Fatalf("expected rate limit override, got %d", cfg.RateLimitPerMin)
	}
	if !cfg.DebugErrors {
		t.Fatal("expected debug errors override")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CODE_TTL", "soon")
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")
	t.Setenv("DEBUG_ERRORS", "maybe")

	cfg := Load()
	if cfg.CodeTTL != 30*time.Second {
		t.Fatalf("expected fallback code TTL, got %s", cfg.CodeTTL)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("expected fallback rate limit, got %d", cfg.RateLimitPerMin)
	}
	if cfg.DebugErrors {
		t.Fatal("expected fallback debug errors")
	}
}
