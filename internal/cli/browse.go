package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/caphetech/wfcatalog/internal/config"
	"github.com/caphetech/wfcatalog/internal/export"
	"github.com/caphetech/wfcatalog/internal/index"
	"github.com/caphetech/wfcatalog/internal/tui"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "browse [query]",
		Short: "Browse the workflow index interactively",
		Long: `Browse the workflow index in a terminal UI.

Type to filter, move with the arrow keys and press enter to print the
selected workflow as Markdown. With --no-tui the matching workflows are
listed as plain text instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Query = args[0]
			}
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			return runBrowse(cfg, opts, cmd.OutOrStdout())
		},
	}

	addFilterFlags(cmd, opts)

	return cmd
}

func runBrowse(cfg *config.Config, opts *SearchOptions, out io.Writer) error {
	idx, err := loadIndex(cfg)
	if err != nil {
		return err
	}

	if !useTUI(cfg) {
		filter := opts.filter()
		filter.Limit = -1
		return printResults(out, index.Search(idx, filter), FormatPlain)
	}

	model := tui.NewBrowse(idx, opts.filter())
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	m, ok := final.(tui.BrowseModel)
	if !ok || !m.DidConfirm() {
		return nil
	}

	rec := m.Selected()
	if rec == nil {
		return nil
	}
	exporter, err := export.NewExporter(export.Options{Format: export.FormatMarkdown})
	if err != nil {
		return err
	}
	output, err := exporter.Export(*rec)
	if err != nil {
		return err
	}
	fmt.Fprint(out, output)
	return nil
}
