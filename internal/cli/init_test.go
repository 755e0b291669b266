// Package cli provides tests for CLI commands.
package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caphetech/wfcatalog/internal/config"
)

func withNoTUI(t *testing.T) {
	t.Helper()
	prev := NoTUI
	NoTUI = true
	t.Cleanup(func() { NoTUI = prev })
}

func defaultInitOptions(path string) *InitOptions {
	d := config.DefaultConfig()
	return &InitOptions{
		Path:           path,
		WorkflowsDir:   d.Corpus.WorkflowsDir,
		Output:         d.Index.Output,
		MinifiedOutput: d.Index.MinifiedOutput,
		Report:         d.Validation.Report,
		TagLimit:       d.Index.PopularTagLimit,
		LogLevel:       d.Log.Level,
		TUI:            d.TUI.Enabled,
	}
}

// TestInitNonInteractive_WritesConfig verifies that init writes a config
// that loads back with the flag values.
func TestInitNonInteractive_WritesConfig(t *testing.T) {
	withNoTUI(t)
	configPath := filepath.Join(t.TempDir(), "nested", ".wfcatalog.toml")

	opts := defaultInitOptions(configPath)
	opts.WorkflowsDir = "catalog"
	opts.Report = "reports/validation.json"
	opts.TagLimit = 20
	opts.LogLevel = "warn"
	opts.TUI = false

	var out bytes.Buffer
	if err := runInit(opts, &out); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	if cfg.Corpus.WorkflowsDir != "catalog" {
		t.Errorf("Corpus.WorkflowsDir = %s, want catalog", cfg.Corpus.WorkflowsDir)
	}
	if cfg.Validation.Report != "reports/validation.json" {
		t.Errorf("Validation.Report = %s, want reports/validation.json", cfg.Validation.Report)
	}
	if cfg.Index.PopularTagLimit != 20 {
		t.Errorf("Index.PopularTagLimit = %d, want 20", cfg.Index.PopularTagLimit)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
	}
	if cfg.TUI.Enabled {
		t.Error("TUI.Enabled = true, want false")
	}
	if !strings.Contains(out.String(), "Configuration written successfully") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

// TestInitNonInteractive_RefusesOverwrite verifies an existing config is
// kept unless --force is given.
func TestInitNonInteractive_RefusesOverwrite(t *testing.T) {
	withNoTUI(t)
	configPath := filepath.Join(t.TempDir(), ".wfcatalog.toml")
	if err := os.WriteFile(configPath, []byte("# mine\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	opts := defaultInitOptions(configPath)
	err := runInit(opts, &bytes.Buffer{})
	if err == nil {
		t.Fatal("runInit() expected error for existing config, got nil")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error should mention --force, got: %v", err)
	}

	data, _ := os.ReadFile(configPath)
	if string(data) != "# mine\n" {
		t.Errorf("existing config was modified: %q", data)
	}

	opts.Force = true
	if err := runInit(opts, &bytes.Buffer{}); err != nil {
		t.Fatalf("runInit() with force error = %v", err)
	}
	if _, err := config.Load(configPath); err != nil {
		t.Errorf("config.Load() after force error = %v", err)
	}
}

// TestInitNonInteractive_InvalidValues verifies invalid flags are rejected
// before anything is written.
func TestInitNonInteractive_InvalidValues(t *testing.T) {
	withNoTUI(t)
	configPath := filepath.Join(t.TempDir(), ".wfcatalog.toml")

	opts := defaultInitOptions(configPath)
	opts.MinifiedOutput = opts.Output

	if err := runInit(opts, &bytes.Buffer{}); err == nil {
		t.Fatal("runInit() expected validation error, got nil")
	}
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("config should not be written when validation fails")
	}
}
