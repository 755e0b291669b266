// Package config provides configuration management for wfcatalog.
//
// This file contains config loading functionality including:
// - config path detection (working directory, then XDG)
// - TOML file parsing
// - Environment variable overrides
// - Validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	wferrors "github.com/caphetech/wfcatalog/internal/errors"
)

// LocalFileName is the per-project config file looked up in the working directory.
const LocalFileName = ".wfcatalog.toml"

// DetectConfigPath searches for a config file.
// Returns the first config file found, or empty string if none exists.
//
// Search order:
// 1. ./.wfcatalog.toml
// 2. ~/.config/wfcatalog/config.toml
func DetectConfigPath() string {
	if _, err := os.Stat(LocalFileName); err == nil {
		return LocalFileName
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	configPath := filepath.Join(homeDir, ".config", "wfcatalog", "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	return ""
}

// Load loads a config from the specified path.
// If the file doesn't exist, returns an error.
// After loading, applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &wferrors.ConfigError{Path: path, Err: wferrors.ErrNotFound}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &wferrors.ConfigError{Path: path, Err: fmt.Errorf("failed to read: %w", err)}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &wferrors.ConfigError{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	applyEnvOverrides(cfg)
	expandPath(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &wferrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", wferrors.ErrInvalid, err)}
	}

	return cfg, nil
}

// LoadWithDefaults loads the config at path when non-empty, otherwise the
// first detected config file. If none is found, returns a config with all
// default values (plus environment overrides).
func LoadWithDefaults(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	configPath := DetectConfigPath()
	if configPath == "" {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandPath(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, &wferrors.ConfigError{Err: fmt.Errorf("%w: %v", wferrors.ErrInvalid, err)}
		}
		return cfg, nil
	}

	return Load(configPath)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: WFCATALOG_<SECTION>_<FIELD>
//
// Examples:
// - WFCATALOG_CORPUS_ROOT overrides [corpus].root
// - WFCATALOG_INDEX_OUTPUT overrides [index].output
// - WFCATALOG_LOG_LEVEL overrides [log].level
func applyEnvOverrides(c *Config) {
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*target = val
		}
	}

	applyBool := func(key string, target *bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			switch strings.ToLower(val) {
			case "true", "1", "yes", "on":
				*target = true
			case "false", "0", "no", "off":
				*target = false
			}
		}
	}

	applyInt := func(key string, target *int) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			var i int
			if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
				*target = i
			}
		}
	}

	applyString("WFCATALOG_CORPUS_ROOT", &c.Corpus.Root)
	applyString("WFCATALOG_CORPUS_WORKFLOWS_DIR", &c.Corpus.WorkflowsDir)

	applyString("WFCATALOG_INDEX_OUTPUT", &c.Index.Output)
	applyString("WFCATALOG_INDEX_MINIFIED_OUTPUT", &c.Index.MinifiedOutput)
	applyInt("WFCATALOG_INDEX_POPULAR_TAG_LIMIT", &c.Index.PopularTagLimit)

	applyString("WFCATALOG_VALIDATE_REPORT", &c.Validation.Report)

	applyString("WFCATALOG_FIX_SETUP_TIME", &c.Fix.SetupTime)

	applyString("WFCATALOG_LOG_LEVEL", &c.Log.Level)

	applyBool("WFCATALOG_TUI_ENABLED", &c.TUI.Enabled)
}

// expandPath expands ~ to the home directory in the corpus root.
func expandPath(c *Config) {
	if strings.HasPrefix(c.Corpus.Root, "~/") || c.Corpus.Root == "~" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			c.Corpus.Root = filepath.Join(homeDir, strings.TrimPrefix(c.Corpus.Root, "~/"))
		}
	}
}
