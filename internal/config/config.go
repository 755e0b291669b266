// Package config provides configuration management for wfcatalog.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields. Every value has a default that
// matches the catalog's fixed layout, so no config file is required.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config is the top-level configuration struct for wfcatalog.
type Config struct {
	Corpus     CorpusConfig   `toml:"corpus"`
	Index      IndexConfig    `toml:"index"`
	Validation ValidateConfig `toml:"validate"`
	Fix        FixConfig      `toml:"fix"`
	Log        LogConfig      `toml:"log"`
	TUI        TUIConfig      `toml:"tui"`
}

// CorpusConfig describes where metadata documents live.
type CorpusConfig struct {
	// Root is the directory the corpus and all output paths are relative to.
	Root string `toml:"root"`

	// WorkflowsDir is the root-relative directory scanned for metadata.
	WorkflowsDir string `toml:"workflows_dir"`
}

// IndexConfig contains collector settings.
type IndexConfig struct {
	// Output is the pretty-printed index path.
	Output string `toml:"output"`

	// MinifiedOutput is the compact index path.
	MinifiedOutput string `toml:"minified_output"`

	// PopularTagLimit caps the popularTags list.
	PopularTagLimit int `toml:"popular_tag_limit"`
}

// ValidateConfig contains validator settings.
type ValidateConfig struct {
	// Report is the validation report path.
	Report string `toml:"report"`
}

// FixConfig contains settings for the metadata fixer.
type FixConfig struct {
	// SetupTime is written when estimatedSetupTime is missing.
	SetupTime string `toml:"setup_time"`

	// Requirements are written when requirements is missing.
	Requirements []string `toml:"requirements"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `toml:"level"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	// Enabled controls whether interactive commands use the TUI.
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:         ".",
			WorkflowsDir: "workflows",
		},
		Index: IndexConfig{
			Output:          "workflow-index.json",
			MinifiedOutput:  "workflow-index.min.json",
			PopularTagLimit: 50,
		},
		Validation: ValidateConfig{
			Report: "metadata-validation-report.json",
		},
		Fix: FixConfig{
			SetupTime:    "15-30 minutes",
			Requirements: []string{"n8n account", "Basic workflow knowledge"},
		},
		Log: LogConfig{
			Level: "info",
		},
		TUI: TUIConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	if c.Corpus.Root == "" {
		return fmt.Errorf("corpus.root cannot be empty")
	}
	if c.Corpus.WorkflowsDir == "" {
		return fmt.Errorf("corpus.workflows_dir cannot be empty")
	}
	if strings.Contains(c.Corpus.WorkflowsDir, "..") {
		return fmt.Errorf("corpus.workflows_dir cannot contain '..': %q", c.Corpus.WorkflowsDir)
	}
	if filepath.IsAbs(c.Corpus.WorkflowsDir) {
		return fmt.Errorf("corpus.workflows_dir cannot be an absolute path: %q", c.Corpus.WorkflowsDir)
	}

	if c.Index.Output == "" {
		return fmt.Errorf("index.output cannot be empty")
	}
	if c.Index.MinifiedOutput == "" {
		return fmt.Errorf("index.minified_output cannot be empty")
	}
	if c.Index.Output == c.Index.MinifiedOutput {
		return fmt.Errorf("index.output and index.minified_output must differ; both are %q", c.Index.Output)
	}
	if c.Index.PopularTagLimit < 1 {
		return fmt.Errorf("index.popular_tag_limit must be >= 1; got %d", c.Index.PopularTagLimit)
	}

	if c.Validation.Report == "" {
		return fmt.Errorf("validate.report cannot be empty")
	}

	if c.Fix.SetupTime == "" {
		return fmt.Errorf("fix.setup_time cannot be empty")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}

	return nil
}

// Resolve joins a configured path with the corpus root unless it is absolute.
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Corpus.Root, path)
}
