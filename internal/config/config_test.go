package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "STORE_DRIVER", "STORE_PATH", "SMS_MODE", "NOTIFY_INTERVAL", "REQUEST_BODY_LIMIT", "ADDRESS_LOOKUP_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8090" {
		t.Fatalf("expected default port 8090, got %s", cfg.Port)
	}
	if cfg.Env != "local" {
		t.Fatalf("expected default env local, got %s", cfg.Env)
	}
	if cfg.StoreDriver != "json" || !strings.HasSuffix(cfg.StorePath, "loans.json") {
		t.Fatalf("unexpected store defaults: %s %s", cfg.StoreDriver, cfg.StorePath)
	}
	if cfg.SMSMode != "none" || cfg.NotifyInterval != 2*time.Second || cfg.RequestBodyLimit != 1<<20 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AddressLookupTimeout != 5*time.Second {
		t.Fatalf("expected 5s lookup timeout, got %s", cfg.AddressLookupTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("STORE_DRIVER", "BOLT")
	t.Setenv("STORE_PATH", "")
	t.Setenv("SMS_MODE", "Twilio")
	t.Setenv("NOTIFY_INTERVAL", "250ms")
	t.Setenv("REQUEST_BODY_LIMIT", "2048")
	t.Setenv("EXPORT_DIR", "/tmp/exports")

	cfg := Load()

	if cfg.Port != "9000" || cfg.Env != "dev" || cfg.Addr() != ":9000" {
		t.Fatalf("config overrides not applied: %+v", cfg)
	}
	if cfg.StoreDriver != "bolt" || !strings.HasSuffix(cfg.StorePath, "loans.db") {
		t.Fatalf("expected bolt defaults, got %s %s", cfg.StoreDriver, cfg.StorePath)
	}
	if cfg.SMSMode != "twilio" || cfg.NotifyInterval != 250*time.Millisecond || cfg.RequestBodyLimit != 2048 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ExportPath() != filepath.Join("/tmp/exports", "emprestimos.pdf") {
		t.Fatalf("unexpected export path: %s", cfg.ExportPath())
	}
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("NOTIFY_INTERVAL", "soon")
	t.Setenv("REQUEST_BODY_LIMIT", "big")

	cfg := Load()

	if cfg.NotifyInterval != 2*time.Second || cfg.RequestBodyLimit != 1<<20 {
		t.Fatalf("expected fallbacks for malformed values: %+v", cfg)
	}
}

func TestTwilioConfigured(t *testing.T) {
	if (Config{TwilioSID: "AC1", TwilioToken: "t"}).TwilioConfigured() {
		t.Fatalf("expected missing phone to mean unconfigured")
	}
	if !(Config{TwilioSID: "AC1", TwilioToken: "t", TwilioPhone: "+1"}).TwilioConfigured() {
		t.Fatalf("expected configured twilio")
	}
}
