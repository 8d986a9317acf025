package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/financify/financify/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL == "" {
		t.Fatalf("expected default redis URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.UndoWindow != 5*time.Second {
		t.Fatalf("expected default undo window 5s, got %s", cfg.UndoWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("UNDO_WINDOW", "10s")
	t.Setenv("JWT_SECRET", "top-secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.UndoWindow != 10*time.Second {
		t.Fatalf("expected undo window override, got %s", cfg.UndoWindow)
	}

	if cfg.JWTSecret != "top-secret" {
		t.Fatalf("expected JWT secret to be set, got %q", cfg.JWTSecret)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("UNDO_WINDOW")
	t.Setenv("UNDO_WINDOW", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("UNDO_WINDOW", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
