package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/caphetech/wfcatalog/internal/config"
	"github.com/caphetech/wfcatalog/internal/export"
)

// ExportOptions contains the options for the export command.
type ExportOptions struct {
	ID       string
	Format   string
	Out      string
	Template string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export one workflow from the index",
		Long: `Render one index record as Markdown, YAML or JSON.

A custom text/template file can be given with --template. Relative names
are also looked up in .wfcatalog/templates/ and ~/.config/wfcatalog/templates/.

Examples:
  wfcatalog export patient-intake
  wfcatalog export patient-intake --format yaml --out intake.yaml
  wfcatalog export patient-intake --template card.tmpl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ID = args[0]
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			return runExport(cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "md", "output format (md, yaml, json)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.Template, "template", "", "custom template file")

	return cmd
}

func runExport(cfg *config.Config, opts *ExportOptions, out io.Writer) error {
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	idx, err := loadIndex(cfg)
	if err != nil {
		return err
	}

	rec, ok := idx.Find(opts.ID)
	if !ok {
		return fmt.Errorf("workflow %q not found in index", opts.ID)
	}

	exporter, err := export.NewExporter(export.Options{
		Format:         format,
		Out:            opts.Out,
		CustomTemplate: opts.Template,
		Root:           cfg.Corpus.Root,
	})
	if err != nil {
		return err
	}

	output, err := exporter.Export(rec)
	if err != nil {
		return err
	}

	if opts.Out == "" || opts.Out == "-" {
		fmt.Fprint(out, output)
		return nil
	}
	fmt.Fprintf(out, "Exported %s to %s\n", rec.ID, opts.Out)
	return nil
}
