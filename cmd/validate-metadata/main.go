// Command validate-metadata checks every metadata document in the corpus,
// writes metadata-validation-report.json and exits 1 when any document has
// errors. It takes no flags and reads no config file or environment.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/caphetech/wfcatalog/internal/cli"
	"github.com/caphetech/wfcatalog/internal/config"
	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		// The summary already lists the errors.
		if !wferrors.IsValidationFailed(err) {
			logging.GetLogger().WithError(err).Error("Validation run failed")
		}
		stop()
		os.Exit(1)
	}
}

// run validates the corpus using the fixed default layout.
func run(ctx context.Context, out io.Writer) error {
	return cli.RunValidate(ctx, config.DefaultConfig(), out)
}
