package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testSettings = `[Matcher]
threshold = 0.85

[Templates]
dir = assets/templates
preload = true

[Capture]
cacheMs = 250
region = 0,0,1280,720

[Input]
clickDelayMs = 75

[History]
enabled = true
path = data/matches.db

[Logging]
level = DEBUG
file = pixelseek.log
`

func TestLoadFromINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Settings.ini")
	if err := os.WriteFile(path, []byte(testSettings), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	cfg, err := LoadFromINI(path)
	if err != nil {
		t.Fatalf("LoadFromINI failed: %v", err)
	}

	if cfg.Threshold != 0.85 {
		t.Errorf("expected threshold 0.85, got %v", cfg.Threshold)
	}
	if cfg.TemplateDir != "assets/templates" {
		t.Errorf("wrong template dir: %s", cfg.TemplateDir)
	}
	if !cfg.Preload {
		t.Error("expected preload enabled")
	}
	if cfg.CaptureCacheMs != 250 {
		t.Errorf("expected cacheMs 250, got %d", cfg.CaptureCacheMs)
	}
	if cfg.CaptureRegion != "0,0,1280,720" {
		t.Errorf("wrong capture region: %s", cfg.CaptureRegion)
	}
	if cfg.ClickDelayMs != 75 {
		t.Errorf("expected clickDelayMs 75, got %d", cfg.ClickDelayMs)
	}
	if !cfg.HistoryEnabled || cfg.HistoryPath != "data/matches.db" {
		t.Errorf("wrong history settings: %v %s", cfg.HistoryEnabled, cfg.HistoryPath)
	}
	if cfg.LogLevel != "DEBUG" || cfg.LogFile != "pixelseek.log" {
		t.Errorf("wrong logging settings: %s %s", cfg.LogLevel, cfg.LogFile)
	}
	// Key absent from the file keeps its default.
	if !cfg.LoggingEnabled {
		t.Error("expected logging enabled by default")
	}
}

func TestLoadFromINIDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Settings.ini")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	cfg, err := LoadFromINI(path)
	if err != nil {
		t.Fatalf("LoadFromINI failed: %v", err)
	}

	defaults := NewDefaultConfig()
	if *cfg != *defaults {
		t.Errorf("empty file should yield defaults: got %+v, want %+v", cfg, defaults)
	}
}

func TestLoadFromINIMissingFile(t *testing.T) {
	if _, err := LoadFromINI(filepath.Join(t.TempDir(), "nope.ini")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestSaveAndReloadINI(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Threshold = 0.75
	cfg.TemplateDir = "tpl"
	cfg.HistoryEnabled = true
	cfg.CaptureRegion = "10,10,20,20"

	path := filepath.Join(t.TempDir(), "Settings.ini")
	if err := SaveToINI(cfg, path); err != nil {
		t.Fatalf("SaveToINI failed: %v", err)
	}

	loaded, err := LoadFromINI(path)
	if err != nil {
		t.Fatalf("LoadFromINI failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}
