// Package watch re-runs a job whenever metadata under a directory tree
// changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/caphetech/wfcatalog/internal/logging"
)

// DefaultDebounce is the quiet period after the last event before a rerun.
const DefaultDebounce = 300 * time.Millisecond

// Job is one full run. Errors are logged and do not stop the watcher.
type Job func(ctx context.Context) error

// Watcher reruns a Job on changes below a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	log      logrus.FieldLogger
	ready    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New creates a Watcher for dir.
func New(dir string, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		log:      logging.GetLogger(),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once the watcher has registered its directories.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled, calling job after each burst of
// relevant changes. Runs never overlap. The caller runs the job once
// before watching. Returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, job Job) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.dir); err != nil {
		return err
	}
	close(w.ready)
	w.log.WithField("dir", w.dir).Info("watching for changes")

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.addTree(fw, event.Name); err != nil {
					w.log.WithError(err).Warn("cannot watch new directory")
				}
			}
			if !Relevant(event) {
				continue
			}
			w.log.WithField("file", event.Name).Debug("change detected")
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watch error")

		case <-timer.C:
			if err := job(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.log.WithError(err).Error("run failed")
			}
		}
	}
}

// addTree registers dir and every non-hidden directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// Relevant reports whether event should trigger a rerun: a create, write,
// remove or rename of a non-hidden .json file.
func Relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".json")
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
