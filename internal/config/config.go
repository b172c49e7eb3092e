package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// DefaultConfigPath is where the tool looks for settings when no
// explicit path is given.
const DefaultConfigPath = "Settings.ini"

// Config holds the tool's settings, loaded from Settings.ini
type Config struct {
	// Matcher
	Threshold float64 // Default similarity threshold when neither template nor caller sets one

	// Templates
	TemplateDir string // Directory holding template images and YAML manifests
	Preload     bool   // Preload all manifest templates marked preload at startup

	// Capture
	CaptureCacheMs int    // How long a captured frame may be reused, in milliseconds
	CaptureRegion  string // Optional "x1,y1,x2,y2" screen region, empty for full screen

	// Input
	ClickDelayMs int // Settle time between moving the cursor and clicking

	// History
	HistoryEnabled bool
	HistoryPath    string

	// Logging
	LogLevel       string
	LogFile        string
	LoggingEnabled bool
}

// NewDefaultConfig creates a config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Threshold:      1.0,
		TemplateDir:    "templates",
		Preload:        false,
		CaptureCacheMs: 100,
		CaptureRegion:  "",
		ClickDelayMs:   50,
		HistoryEnabled: false,
		HistoryPath:    "pixelseek.db",
		LogLevel:       "INFO",
		LogFile:        "",
		LoggingEnabled: true,
	}
}

// LoadFromINI loads configuration from a Settings.ini file
func LoadFromINI(path string) (*Config, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := NewDefaultConfig()

	matcher := cfg.Section("Matcher")
	config.Threshold = matcher.Key("threshold").MustFloat64(1.0)

	tpl := cfg.Section("Templates")
	config.TemplateDir = tpl.Key("dir").MustString("templates")
	config.Preload = tpl.Key("preload").MustBool(false)

	capture := cfg.Section("Capture")
	config.CaptureCacheMs = capture.Key("cacheMs").MustInt(100)
	config.CaptureRegion = capture.Key("region").MustString("")

	input := cfg.Section("Input")
	config.ClickDelayMs = input.Key("clickDelayMs").MustInt(50)

	history := cfg.Section("History")
	config.HistoryEnabled = history.Key("enabled").MustBool(false)
	config.HistoryPath = history.Key("path").MustString("pixelseek.db")

	logging := cfg.Section("Logging")
	config.LogLevel = logging.Key("level").MustString("INFO")
	config.LogFile = logging.Key("file").MustString("")
	config.LoggingEnabled = logging.Key("enabled").MustBool(true)

	return config, nil
}

// SaveToINI saves configuration to an INI file
func SaveToINI(config *Config, path string) error {
	cfg := ini.Empty()

	matcher := cfg.Section("Matcher")
	matcher.Key("threshold").SetValue(fmt.Sprintf("%g", config.Threshold))

	tpl := cfg.Section("Templates")
	tpl.Key("dir").SetValue(config.TemplateDir)
	tpl.Key("preload").SetValue(fmt.Sprintf("%t", config.Preload))

	capture := cfg.Section("Capture")
	capture.Key("cacheMs").SetValue(fmt.Sprintf("%d", config.CaptureCacheMs))
	capture.Key("region").SetValue(config.CaptureRegion)

	input := cfg.Section("Input")
	input.Key("clickDelayMs").SetValue(fmt.Sprintf("%d", config.ClickDelayMs))

	history := cfg.Section("History")
	history.Key("enabled").SetValue(fmt.Sprintf("%t", config.HistoryEnabled))
	history.Key("path").SetValue(config.HistoryPath)

	logging := cfg.Section("Logging")
	logging.Key("level").SetValue(config.LogLevel)
	logging.Key("file").SetValue(config.LogFile)
	logging.Key("enabled").SetValue(fmt.Sprintf("%t", config.LoggingEnabled))

	return cfg.SaveTo(path)
}
