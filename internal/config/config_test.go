package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Flutterwave.Currency != "NGN" {
		t.Errorf("expected default currency NGN, got %s", cfg.Flutterwave.Currency)
	}
	if cfg.Flutterwave.TxRefPrefix != "JHYTERMAX" {
		t.Errorf("expected default tx_ref prefix JHYTERMAX, got %s", cfg.Flutterwave.TxRefPrefix)
	}
	if cfg.Flutterwave.Timeout != 30*time.Second {
		t.Errorf("expected default gateway timeout 30s, got %s", cfg.Flutterwave.Timeout)
	}
	// The gateway retries and bursts from a handful of addresses.
	if cfg.RateLimit.WebhookPerSecond != 200 || cfg.RateLimit.WebhookBurst != 2000 {
		t.Errorf("expected webhook limit 200/s burst 2000, got %v/s burst %d",
			cfg.RateLimit.WebhookPerSecond, cfg.RateLimit.WebhookBurst)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FLUTTERWAVE_TIMEOUT", "5s")
	t.Setenv("WEBHOOK_REQUIRE_SIGNATURE", "true")
	t.Setenv("RATE_LIMIT_AUTH_RPS", "2.5")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Flutterwave.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", cfg.Flutterwave.Timeout)
	}
	if !cfg.Flutterwave.RequireSignature {
		t.Error("expected signatures to be required")
	}
	if cfg.RateLimit.AuthPerSecond != 2.5 {
		t.Errorf("expected auth rps 2.5, got %v", cfg.RateLimit.AuthPerSecond)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("expected invalid REDIS_DB to fall back to 0, got %d", cfg.Redis.DB)
	}
}
