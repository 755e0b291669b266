// Command generate-index writes workflow-index.json and
// workflow-index.min.json for the corpus in the current directory.
// It takes no flags and reads no config file or environment.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/caphetech/wfcatalog/internal/cli"
	"github.com/caphetech/wfcatalog/internal/config"
	"github.com/caphetech/wfcatalog/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		logging.GetLogger().WithError(err).Error("Index generation failed")
		stop()
		os.Exit(1)
	}
}

// run builds the index from the fixed default layout.
func run(ctx context.Context, out io.Writer) error {
	return cli.RunIndex(ctx, config.DefaultConfig(), out)
}
