package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewSeedsDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := os.Stat(cfg.ConfigPath()); err != nil {
		t.Fatalf("expected config file to be seeded: %v", err)
	}
	if cfg.File.API.BaseURL != defaultAPIBaseURL {
		t.Fatalf("api base url = %q", cfg.File.API.BaseURL)
	}
	if cfg.RefreshInterval() != 9*time.Minute {
		t.Fatalf("refresh interval = %s", cfg.RefreshInterval())
	}
	if cfg.QuoteDebounce() != 500*time.Millisecond {
		t.Fatalf("quote debounce = %s", cfg.QuoteDebounce())
	}
	if cfg.SnapshotPath() != filepath.Join(dir, OnrampDir, "state", "widget-state.json") {
		t.Fatalf("snapshot path = %q", cfg.SnapshotPath())
	}
}

func TestLoadNormalizesValues(t *testing.T) {
	dir := t.TempDir()
	if err := InitOnrampDir(dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	raw := `version: 1
environment: staging
api:
  base_url: https://api.example.com/v2/
  key: "  pk-123  "
partner_user_id: " partner-1 "
kyb:
  base_url: http://localhost:9000/
session:
  refresh_interval: 3m
  quote_debounce: 250ms
`
	path := filepath.Join(dir, OnrampDir, "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.File.Environment != "STAGING" {
		t.Fatalf("environment = %q", cfg.File.Environment)
	}
	if cfg.File.API.BaseURL != "https://api.example.com/v2" {
		t.Fatalf("api base url = %q", cfg.File.API.BaseURL)
	}
	if cfg.File.API.Key != "pk-123" {
		t.Fatalf("api key = %q", cfg.File.API.Key)
	}
	if cfg.File.PartnerUserID != "partner-1" {
		t.Fatalf("partner user id = %q", cfg.File.PartnerUserID)
	}
	if cfg.RefreshInterval() != 3*time.Minute {
		t.Fatalf("refresh interval = %s", cfg.RefreshInterval())
	}
	if cfg.QuoteDebounce() != 250*time.Millisecond {
		t.Fatalf("quote debounce = %s", cfg.QuoteDebounce())
	}
}

func TestLoadRejectsNegativeInterval(t *testing.T) {
	dir := t.TempDir()
	if err := InitOnrampDir(dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	raw := `version: 1
session:
  refresh_interval: -2m
`
	path := filepath.Join(dir, OnrampDir, "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected validation error for negative refresh interval")
	}
}

func TestBadDurationFallsBack(t *testing.T) {
	if got := parseDurationOr("not-a-duration", time.Minute); got != time.Minute {
		t.Fatalf("parseDurationOr = %s, want 1m", got)
	}
	if got := parseDurationOr("", 2*time.Second); got != 2*time.Second {
		t.Fatalf("parseDurationOr empty = %s", got)
	}
}
