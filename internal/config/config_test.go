package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Admin:    AdminConfig{UserID: 1, PasswordHash: "d0ff"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("expected longpoll default, got %q", cfg.Telegram.RunMode)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Fatalf("expected sslmode default, got %q", cfg.Database.SSLMode)
	}
	if cfg.Health.Port != 10000 {
		t.Fatalf("expected health port default, got %d", cfg.Health.Port)
	}
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "webhook.url") {
		t.Fatalf("expected webhook.url error, got %v", err)
	}

	cfg.Webhook = WebhookConfig{URL: "https://bot.example/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize webhook: %v", err)
	}
}

func TestNormalizeRejectsMissingAdmin(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.PasswordHash = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing password hash")
	}
	cfg = validConfig()
	cfg.Admin.UserID = 0
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing admin user id")
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("alias not normalized: %q", cfg.Telegram.RunMode)
	}
}
