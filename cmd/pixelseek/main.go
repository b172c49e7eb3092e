package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelseek/pixelseek/internal/config"
	"github.com/pixelseek/pixelseek/internal/history"
	"github.com/pixelseek/pixelseek/internal/logging"
	"github.com/pixelseek/pixelseek/pkg/templates"
)

var version = "dev"

// app holds the shared collaborators the subcommands wire on demand.
type app struct {
	cfg *config.Config
	log *logging.Logger

	registry *templates.TemplateRegistry
	store    *history.Store
}

// loadRegistry loads the template registry from the configured directory.
// Commands that match by template name need this; "find" with explicit
// image paths does not.
func (a *app) loadRegistry() (*templates.TemplateRegistry, error) {
	if a.registry != nil {
		return a.registry, nil
	}
	registry := templates.NewTemplateRegistry(a.cfg.TemplateDir).
		WithDefaultThreshold(a.cfg.Threshold)
	if err := registry.LoadFromDirectory(a.cfg.TemplateDir); err != nil {
		return nil, fmt.Errorf("loading templates from %s: %w", a.cfg.TemplateDir, err)
	}
	if a.cfg.Preload {
		if err := registry.PreloadAll(); err != nil {
			a.log.Warn(fmt.Sprintf("template preload: %v", err))
		}
	}
	a.registry = registry
	return registry, nil
}

// openHistory opens the match history store if history is enabled.
// Returns nil without error when disabled.
func (a *app) openHistory() (*history.Store, error) {
	if !a.cfg.HistoryEnabled {
		return nil, nil
	}
	if a.store != nil {
		return a.store, nil
	}
	store, err := history.Open(a.cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening match history: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "pixelseek",
		Short: "Pixelseek locates template images on screen or in image files",
		Long: `Pixelseek searches images pixel by pixel for a template image.
Transparent template pixels act as wildcards, and a per-channel similarity
threshold allows tolerant matching. Templates can be matched against image
files or live screen captures, and matches can be clicked.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newAppLogger(cfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to Settings.ini (defaults apply when omitted)")

	rootCmd.AddCommand(newFindCmd(a))
	rootCmd.AddCommand(newWaitCmd(a))
	rootCmd.AddCommand(newClickCmd(a))
	rootCmd.AddCommand(newCropCmd(a))
	rootCmd.AddCommand(newTemplatesCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			path = config.DefaultConfigPath
		} else {
			return config.NewDefaultConfig(), nil
		}
	}
	cfg, err := config.LoadFromINI(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

func newAppLogger(cfg *config.Config) *logging.Logger {
	log := logging.NewLogger("pixelseek")
	log.SetMinLevel(logging.ParseLevel(cfg.LogLevel))
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			log.AddOutput(f)
		}
	}
	return log
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
