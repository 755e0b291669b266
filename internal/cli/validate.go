package cli

import (
	"github.com/spf13/cobra"

	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/logging"
)

// ValidateOptions contains the options for the validate command.
type ValidateOptions struct {
	Watch bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate workflow metadata",
		Long: `Check every metadata document against the catalog schema.

Writes metadata-validation-report.json and exits with status 1 when any
error is found. Warnings never fail the run.

Examples:
  wfcatalog validate
  wfcatalog validate --watch   # revalidate whenever metadata changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			err = RunValidate(ctx, cfg, out)
			if !opts.Watch {
				return err
			}
			if wferrors.IsValidationFailed(err) {
				logging.GetLogger().Warn(err.Error())
			} else if err != nil {
				return err
			}
			return watchJob(ctx, cfg, out, RunValidate)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "revalidate when metadata changes")

	return cmd
}
