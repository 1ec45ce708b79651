package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "override:6379")
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("LOGIN_RATE_LIMIT_PER_MINUTE", "30")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "8080"
logLevel: "info"
redisAddr: "localhost:6379"
sessionTTL: "12h"
registerRateLimitPerMinute: 10
loginRateLimitPerMinute: 20
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.RedisAddr != "override:6379" {
		t.Fatalf("redisAddr = %q, want env override", cfg.RedisAddr)
	}
	if cfg.SessionSecret != "from-env" {
		t.Fatalf("sessionSecret = %q, want env override", cfg.SessionSecret)
	}
	if cfg.LoginRateLimitPerMinute != 30 {
		t.Fatalf("loginRateLimitPerMinute = %d, want 30", cfg.LoginRateLimitPerMinute)
	}
	if cfg.RegisterRateLimitPerMinute != 10 {
		t.Fatalf("registerRateLimitPerMinute = %d, want 10", cfg.RegisterRateLimitPerMinute)
	}
	if got := ParseSessionTTL(cfg); got != 12*time.Hour {
		t.Fatalf("session ttl = %v, want 12h", got)
	}
}

func TestLoadRequiresPort(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`logLevel: "info"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Fatalf("expected error for missing port")
	}
}

func TestLoadRejectsInvalidSessionTTL(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "8080"
sessionTTL: "soon"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Fatalf("expected error for invalid sessionTTL")
	}
}

func TestLoadRejectsNegativeRateLimit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "8080"
loginRateLimitPerMinute: -1
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Fatalf("expected error for negative rate limit")
	}
}

func TestParseSessionTTLDefaultsToZero(t *testing.T) {
	if got := ParseSessionTTL(FileConfig{}); got != 0 {
		t.Fatalf("empty ttl = %v, want 0", got)
	}
}
