package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Admin:    AdminConfig{Password: "secret"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Session.Backend != SessionBackendBadger || cfg.Session.Dir != "data/sessions" {
		t.Errorf("session defaults: %+v", cfg.Session)
	}
	if cfg.Catalog.Path != "data/services.json" {
		t.Errorf("catalog path = %q", cfg.Catalog.Path)
	}
	if cfg.Invoice.Dir != "temp" {
		t.Errorf("invoice dir = %q", cfg.Invoice.Dir)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("missing token must fail")
	}
}

func TestNormalizeRequiresAdminPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Password = ""
	err := Normalize(cfg)
	if err == nil {
		t.Fatal("missing admin password must fail startup")
	}
	if !strings.Contains(err.Error(), "admin.password") {
		t.Errorf("err = %v", err)
	}
}

func TestNormalizeRunModeValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling" // accepted alias
	if err := Normalize(cfg); err != nil {
		t.Fatalf("alias rejected: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("alias not normalized: %q", cfg.Telegram.RunMode)
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown run mode must fail")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook mode without url/listen/port must fail")
	}
}

func TestNormalizePostgresBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Backend = SessionBackendPostgres
	if err := Normalize(cfg); err == nil {
		t.Fatal("postgres backend without connection settings must fail")
	}

	cfg = validConfig()
	cfg.Session = SessionConfig{
		Backend: SessionBackendPostgres,
		Host:    "localhost",
		User:    "paintbot",
		Name:    "paintbot",
	}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Session.Port != "5432" || cfg.Session.SSLMode != "disable" || cfg.Session.MaxConnections != 4 {
		t.Errorf("postgres defaults: %+v", cfg.Session)
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Errorf("exclusions not normalized: %v", cfg.RateLimit.ExcludeUpdates)
	}

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"carrier-pigeon"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown exclusion must fail")
	}
}

func TestNormalizeInvalidBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Backend = "redis"
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown session backend must fail")
	}
}
