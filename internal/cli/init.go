package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/caphetech/wfcatalog/internal/config"
)

// InitOptions contains the options for the init command.
type InitOptions struct {
	// Path is where the config is written.
	Path  string
	Force bool

	// Scriptable/flag options for --no-tui mode
	WorkflowsDir   string
	Output         string
	MinifiedOutput string
	Report         string
	TagLimit       int
	LogLevel       string
	TUI            bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a wfcatalog config file",
		Long: `Write a .wfcatalog.toml config in the current directory.

The init command guides you through the settings:
- where the workflows directory is
- where the index and validation report are written
- the log level and whether interactive commands use the TUI

Use --no-tui with flags for scripted setup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd.OutOrStdout())
		},
	}

	defaults := config.DefaultConfig()
	cmd.Flags().StringVar(&opts.Path, "path", config.LocalFileName, "config file to write")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&opts.WorkflowsDir, "workflows-dir", defaults.Corpus.WorkflowsDir, "workflows directory")
	cmd.Flags().StringVar(&opts.Output, "output", defaults.Index.Output, "index output path")
	cmd.Flags().StringVar(&opts.MinifiedOutput, "minified-output", defaults.Index.MinifiedOutput, "minified index output path")
	cmd.Flags().StringVar(&opts.Report, "report", defaults.Validation.Report, "validation report path")
	cmd.Flags().IntVar(&opts.TagLimit, "tag-limit", defaults.Index.PopularTagLimit, "number of popular tags kept in the index")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", defaults.Log.Level, "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.TUI, "tui", defaults.TUI.Enabled, "use the TUI for interactive commands")

	return cmd
}

func runInit(opts *InitOptions, out io.Writer) error {
	if !opts.Force {
		if _, err := os.Stat(opts.Path); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite", opts.Path)
		}
	}

	if !IsNoTUI() {
		if err := runInitForm(opts); err != nil {
			return err
		}
	}

	return writeInitConfig(opts, out)
}

// runInitForm fills opts from an interactive form, using the current
// values as defaults.
func runInitForm(opts *InitOptions) error {
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Workflows directory").
				Description("Directory scanned for *-metadata.json files").
				Value(&opts.WorkflowsDir),
			huh.NewInput().
				Title("Index output").
				Value(&opts.Output),
			huh.NewInput().
				Title("Minified index output").
				Value(&opts.MinifiedOutput),
			huh.NewInput().
				Title("Validation report").
				Value(&opts.Report),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug - per-file progress", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn - skipped files only", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&opts.LogLevel),
			huh.NewConfirm().
				Title("Use the terminal UI for browse and init?").
				Value(&opts.TUI),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

func writeInitConfig(opts *InitOptions, out io.Writer) error {
	cfg := config.DefaultConfig()
	cfg.Corpus.WorkflowsDir = opts.WorkflowsDir
	cfg.Index.Output = opts.Output
	cfg.Index.MinifiedOutput = opts.MinifiedOutput
	cfg.Index.PopularTagLimit = opts.TagLimit
	cfg.Validation.Report = opts.Report
	cfg.Log.Level = opts.LogLevel
	cfg.TUI.Enabled = opts.TUI

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := config.Write(opts.Path, cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Configuration written successfully!")
	fmt.Fprintf(out, "  Config:    %s\n", opts.Path)
	fmt.Fprintf(out, "  Workflows: %s\n", cfg.Corpus.WorkflowsDir)
	fmt.Fprintf(out, "  Index:     %s\n", cfg.Index.Output)
	fmt.Fprintf(out, "  Report:    %s\n", cfg.Validation.Report)
	fmt.Fprintln(out, "\nTry 'wfcatalog validate' next.")
	return nil
}
