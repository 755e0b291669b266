package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/caphetech/wfcatalog/internal/config"
	"github.com/caphetech/wfcatalog/internal/fix"
)

// FixOptions contains the options for the fix command.
type FixOptions struct {
	DryRun bool
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Repair common metadata problems",
		Long: `Rewrite metadata documents to fix common problems, and create stub
metadata for workflow definitions that have none.

Existing documents:
- difficulty is lower-cased
- tags are rewritten as lowercase-with-hyphens slugs
- missing version, lastUpdated, subcategory, estimatedSetupTime,
  requirements and useCase are filled in

Key order and unknown keys are preserved; unchanged files are not written.
Use --dry-run to see what would change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			return runFix(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show planned changes without writing")

	return cmd
}

func runFix(ctx context.Context, cfg *config.Config, opts *FixOptions, out io.Writer) error {
	fixer := fix.New(
		fix.WithDryRun(opts.DryRun),
		fix.WithDefaults(cfg.Fix.SetupTime, cfg.Fix.Requirements),
	)

	res, err := fixer.Run(ctx, cfg.Corpus.Root, scanOptions(cfg))
	if err != nil {
		return err
	}

	verb := "Fixed"
	created := "Created"
	if res.DryRun {
		verb = "Would fix"
		created = "Would create"
	}

	for _, c := range res.Fixed {
		fmt.Fprintf(out, "%s %s\n", verb, c.Rel)
		for _, change := range c.Changes {
			fmt.Fprintf(out, "  - %s\n", change)
		}
	}
	for _, rel := range res.Created {
		fmt.Fprintf(out, "%s %s\n", created, rel)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(out, "Failed %s: %v\n", f.Rel, f.Err)
	}

	fmt.Fprintf(out, "\n%s: %d, %s: %d, unchanged: %d, failed: %d\n",
		verb, len(res.Fixed), created, len(res.Created), res.Unchanged, len(res.Failed))
	if !res.DryRun && len(res.Fixed)+len(res.Created) > 0 {
		fmt.Fprintln(out, "Run 'wfcatalog validate' to verify the fixes.")
	}
	return nil
}
