package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/caphetech/wfcatalog/internal/config"
	"github.com/caphetech/wfcatalog/internal/export"
	"github.com/caphetech/wfcatalog/internal/fsutil"
	"github.com/caphetech/wfcatalog/internal/index"
)

// OutputFormat defines the output format for the search command.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatPlain OutputFormat = "plain"
)

// SearchOptions contains the options for the search command.
type SearchOptions struct {
	Query       string
	Category    string
	Difficulty  string
	Tags        []string
	Integration string
	Limit       int
	Format      string
}

func (o *SearchOptions) filter() index.SearchOptions {
	return index.SearchOptions{
		Query:       o.Query,
		Category:    o.Category,
		Difficulty:  o.Difficulty,
		Tags:        o.Tags,
		Integration: o.Integration,
		Limit:       o.Limit,
	}
}

func addFilterFlags(cmd *cobra.Command, opts *SearchOptions) {
	cmd.Flags().StringVar(&opts.Category, "category", "", "filter by category (exact)")
	cmd.Flags().StringVar(&opts.Difficulty, "difficulty", "", "filter by difficulty")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "filter by tag (repeatable, all must match)")
	cmd.Flags().StringVar(&opts.Integration, "integration", "", "filter by integration")
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the generated workflow index",
		Long: `Search the workflow index by text and filters.

The query matches name, id, description, use case, tags and integrations
(case-insensitive). Run 'wfcatalog index' first to build the index.

Examples:
  wfcatalog search intake
  wfcatalog search --category Healthcare --difficulty beginner
  wfcatalog search --tag crm --tag sync --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Query = args[0]
			}
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			return runSearch(cfg, opts, cmd.OutOrStdout())
		},
	}

	addFilterFlags(cmd, opts)
	cmd.Flags().IntVar(&opts.Limit, "limit", index.DefaultLimit, "maximum results (negative for no limit)")
	cmd.Flags().StringVar(&opts.Format, "format", "table", "output format (table, json, yaml, plain)")

	return cmd
}

// loadIndex reads the generated index, with a hint when it is missing.
func loadIndex(cfg *config.Config) (*index.Index, error) {
	path := cfg.Resolve(cfg.Index.Output)
	idx, err := index.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}
	if idx == nil {
		return nil, fmt.Errorf("workflow index not found at %s. Run 'wfcatalog index' to build it", path)
	}
	return idx, nil
}

func runSearch(cfg *config.Config, opts *SearchOptions, out io.Writer) error {
	idx, err := loadIndex(cfg)
	if err != nil {
		return err
	}

	results := index.Search(idx, opts.filter())
	return printResults(out, results, OutputFormat(opts.Format))
}

func printResults(out io.Writer, results []index.Record, format OutputFormat) error {
	switch format {
	case FormatTable:
		printTable(out, results)
	case FormatJSON:
		if results == nil {
			results = []index.Record{}
		}
		data, err := fsutil.EncodeJSON(results, true)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case FormatYAML:
		docs := make([]export.Document, 0, len(results))
		for _, r := range results {
			docs = append(docs, export.ToDocument(r))
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case FormatPlain:
		for _, r := range results {
			fmt.Fprintf(out, "%s\t%s\n", r.ID, r.Name)
		}
	default:
		return fmt.Errorf("invalid format: %s (must be table, json, yaml, or plain)", format)
	}
	return nil
}

var tableHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Underline(true)

// printTable prints results in table format.
func printTable(out io.Writer, results []index.Record) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No workflows found.")
		return
	}

	tbl := table.New("ID", "NAME", "CATEGORY", "DIFFICULTY", "TAGS").
		WithWriter(out).
		WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return tableHeader.Render(fmt.Sprintf(format, vals...))
		})
	for _, r := range results {
		tbl.AddRow(r.ID, r.Name, r.Category, r.Difficulty, truncate(strings.Join(r.Tags, ", "), 40))
	}
	tbl.Print()

	fmt.Fprintf(out, "\n%d workflow(s)\n", len(results))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
