package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGIN", "")
	t.Setenv("PROJECTION_TTL_SECONDS", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port = %s, want 8080", cfg.Port)
	}
	if cfg.AllowedOrigin != "http://127.0.0.1:3000" {
		t.Fatalf("origin = %s", cfg.AllowedOrigin)
	}
	if cfg.ProjectionTTLSeconds != 60 {
		t.Fatalf("ttl = %d, want 60", cfg.ProjectionTTLSeconds)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("address = %s", cfg.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PROJECTION_TTL_SECONDS", "5")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TAX_RATES_PATH", "/etc/bukukas/rates.json")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("port = %s, want 9090", cfg.Port)
	}
	if cfg.ProjectionTTLSeconds != 5 {
		t.Fatalf("ttl = %d, want 5", cfg.ProjectionTTLSeconds)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("redis db = %d, want 3", cfg.RedisDB)
	}
	if cfg.RatesPath != "/etc/bukukas/rates.json" {
		t.Fatalf("rates path = %s", cfg.RatesPath)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("PROJECTION_TTL_SECONDS", "-4")
	if cfg := Load(); cfg.ProjectionTTLSeconds != 60 {
		t.Fatalf("ttl = %d, want fallback 60", cfg.ProjectionTTLSeconds)
	}
}
