// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/caphetech/wfcatalog/internal/config"
	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/logging"
)

var (
	// NoTUI indicates that TUI/interactive mode should be disabled.
	// This is set by the global --no-tui flag.
	NoTUI bool

	// ConfigPath is the config file given with --config.
	ConfigPath string

	// Verbose enables debug logging.
	Verbose bool

	// globalMutex protects the flag values for concurrent access.
	globalMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text or JSON output")
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"config file path (default ./.wfcatalog.toml, then ~/.config/wfcatalog/config.toml)")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false,
		"log per-file progress")
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return NoTUI
}

// LoadConfig loads the config selected by the global flags and applies its
// log level. --verbose wins over the configured level.
func LoadConfig() (*config.Config, error) {
	globalMutex.RLock()
	path, verbose := ConfigPath, Verbose
	globalMutex.RUnlock()

	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, describeConfigError(err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	if err := logging.SetLevel(level); err != nil {
		return nil, err
	}
	return cfg, nil
}

// useTUI reports whether interactive commands should start the TUI.
func useTUI(cfg *config.Config) bool {
	return cfg.TUI.Enabled && !IsNoTUI()
}

// describeConfigError adds a hint for the common config failures.
func describeConfigError(err error) error {
	ce, ok := wferrors.AsConfigError(err)
	if !ok || ce.Path == "" {
		return fmt.Errorf("failed to load config: %w", err)
	}
	switch {
	case wferrors.IsNotFound(err):
		return fmt.Errorf("config file %s not found; run 'wfcatalog init' to create one: %w", ce.Path, err)
	case wferrors.IsInvalid(err):
		return fmt.Errorf("invalid config %s; fix the file or rerun 'wfcatalog init --force': %w", ce.Path, err)
	default:
		return fmt.Errorf("failed to load config: %w", err)
	}
}
