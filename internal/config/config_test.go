package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.DraftTTL != 24*time.Hour {
		t.Fatalf("expected default draft ttl, got %v", cfg.DraftTTL)
	}
	if cfg.BodyLimitBytes != 5*1024*1024 {
		t.Fatalf("expected default body limit, got %d", cfg.BodyLimitBytes)
	}
	if cfg.CORSOrigins != "*" {
		t.Fatalf("expected default cors origins")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DRAFT_TTL", "90m")
	t.Setenv("BODY_LIMIT_BYTES", "1024")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.DraftTTL != 90*time.Minute {
		t.Fatalf("expected override ttl, got %v", cfg.DraftTTL)
	}
	if cfg.BodyLimitBytes != 1024 {
		t.Fatalf("expected override body limit")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("STATIC_DIR=./public\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	old := envFiles
	envFiles = []string{path}
	defer func() { envFiles = old }()
	t.Setenv("STATIC_DIR", "")
	os.Unsetenv("STATIC_DIR")

	cfg := Load()
	if cfg.StaticDir != "./public" {
		t.Fatalf("expected static dir from env file, got %q", cfg.StaticDir)
	}
}
