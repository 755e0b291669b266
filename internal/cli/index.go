package cli

import (
	"github.com/spf13/cobra"
)

// IndexOptions contains the options for the index command.
type IndexOptions struct {
	Watch bool
}

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	opts := &IndexOptions{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Generate the workflow index",
		Long: `Scan workflows/**/*-metadata.json and write the aggregated index.

Writes workflow-index.json (pretty) and workflow-index.min.json (compact).
Documents that cannot be read or decoded are skipped with a warning.

Examples:
  wfcatalog index            # build the index once
  wfcatalog index --watch    # rebuild whenever metadata changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if err := RunIndex(ctx, cfg, out); err != nil {
				return err
			}
			if opts.Watch {
				return watchJob(ctx, cfg, out, RunIndex)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "rebuild when metadata changes")

	return cmd
}
