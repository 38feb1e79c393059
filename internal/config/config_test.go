package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesTemplatesAndDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("expected config.toml template: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "credentials.toml")); err != nil {
		t.Errorf("expected credentials.toml template: %v", err)
	}

	if cfg.Analyzer.UnderpoweredMinEnrollment != 20 {
		t.Errorf("expected default enrollment threshold 20, got %d", cfg.Analyzer.UnderpoweredMinEnrollment)
	}
	if cfg.Analyzer.DilutionRunwayMonths != 4.0 {
		t.Errorf("expected default runway threshold 4.0, got %v", cfg.Analyzer.DilutionRunwayMonths)
	}
	if cfg.MarketData.CacheTTL != time.Hour {
		t.Errorf("expected default cache TTL 1h, got %v", cfg.MarketData.CacheTTL)
	}
}

func TestLoadResolvesStateUnderConfigDir(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Dir != dir {
		t.Errorf("expected config dir %q, got %q", dir, cfg.Dir)
	}
	if want := filepath.Join(dir, "biotrial.db"); cfg.DBPath() != want {
		t.Errorf("expected db path %q, got %q", want, cfg.DBPath())
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Analyzer.ScanLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero scan_limit")
	}

	cfg.Analyzer.ScanLimit = 10
	cfg.Notifications.Telegram.Enabled = true
	cfg.Notifications.Telegram.BotToken = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for telegram without bot_token")
	}
}
