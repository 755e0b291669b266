package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/caphetech/wfcatalog/internal/config"
	"github.com/caphetech/wfcatalog/internal/corpus"
	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/index"
	"github.com/caphetech/wfcatalog/internal/logging"
	"github.com/caphetech/wfcatalog/internal/report"
	"github.com/caphetech/wfcatalog/internal/validate"
	"github.com/caphetech/wfcatalog/internal/watch"
)

func scanOptions(cfg *config.Config) corpus.ScanOptions {
	return corpus.ScanOptions{WorkflowsDir: cfg.Corpus.WorkflowsDir}
}

// RunIndex scans the corpus, writes both index files and prints the
// summary to out.
func RunIndex(ctx context.Context, cfg *config.Config, out io.Writer) error {
	refs, err := corpus.Scan(cfg.Corpus.Root, scanOptions(cfg))
	if err != nil {
		return wferrors.Wrap(err, "scan corpus")
	}
	fmt.Fprintf(out, "Found %d metadata files\n", len(refs))

	collector := index.NewCollector(index.WithPopularTagLimit(cfg.Index.PopularTagLimit))
	idx, stats, err := collector.Collect(ctx, refs)
	if err != nil {
		return err
	}

	pretty := cfg.Resolve(cfg.Index.Output)
	minified := cfg.Resolve(cfg.Index.MinifiedOutput)
	if err := index.Write(idx, pretty, minified); err != nil {
		return wferrors.Wrap(err, "write index")
	}

	report.Index(out, idx, stats.UniqueTags)
	report.Outputs(out, pretty, minified)
	return nil
}

// RunValidate validates the corpus, writes the report and prints the
// summary to out. A run with errors returns ErrValidationFailed after the
// report is written.
func RunValidate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	refs, err := corpus.Scan(cfg.Corpus.Root, scanOptions(cfg))
	if err != nil {
		return wferrors.Wrap(err, "scan corpus")
	}
	fmt.Fprintf(out, "Found %d metadata files\n", len(refs))

	r, err := validate.New().Validate(ctx, refs)
	if err != nil {
		return err
	}

	path := cfg.Resolve(cfg.Validation.Report)
	if err := validate.Write(r, path); err != nil {
		return wferrors.Wrap(err, "write report")
	}

	report.Validation(out, r)
	report.Outputs(out, path)

	if !r.Passed() {
		return fmt.Errorf("%w: %d errors", wferrors.ErrValidationFailed, len(r.Errors))
	}
	return nil
}

// watchJob reruns job on every change under the workflows dir until ctx is
// cancelled. Validation failures are expected while editing and only logged.
func watchJob(ctx context.Context, cfg *config.Config, out io.Writer, job func(context.Context, *config.Config, io.Writer) error) error {
	dir := cfg.Resolve(cfg.Corpus.WorkflowsDir)
	w := watch.New(dir)
	return w.Run(ctx, func(ctx context.Context) error {
		err := job(ctx, cfg, out)
		if wferrors.IsValidationFailed(err) {
			logging.GetLogger().Warn(err.Error())
			return nil
		}
		return err
	})
}
