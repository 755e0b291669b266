// Package fix repairs common metadata problems in place and creates stub
// metadata for definitions that have none.
package fix

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/caphetech/wfcatalog/internal/corpus"
	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/fsutil"
	"github.com/caphetech/wfcatalog/internal/logging"
	"github.com/caphetech/wfcatalog/internal/metadata"
)

const (
	// DefaultSetupTime fills a missing estimatedSetupTime.
	DefaultSetupTime = "15-30 minutes"

	stubAuthorName = "n8n Team"
	stubAuthorURL  = "https://n8n.io"
)

// DefaultRequirements fills a missing requirements list.
var DefaultRequirements = []string{"n8n account", "Basic workflow knowledge"}

// Fixer applies the repairs.
type Fixer struct {
	now          func() time.Time
	log          logrus.FieldLogger
	dryRun       bool
	setupTime    string
	requirements []string
}

// Option configures a Fixer.
type Option func(*Fixer)

// WithClock sets the clock used for lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(f *Fixer) {
		f.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(f *Fixer) {
		f.log = l
	}
}

// WithDryRun plans changes without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(f *Fixer) {
		f.dryRun = dryRun
	}
}

// WithDefaults overrides the setup time and requirements written into
// documents that lack them. Empty values keep the built-in defaults.
func WithDefaults(setupTime string, requirements []string) Option {
	return func(f *Fixer) {
		if setupTime != "" {
			f.setupTime = setupTime
		}
		if len(requirements) > 0 {
			f.requirements = requirements
		}
	}
}

// New creates a Fixer.
func New(opts ...Option) *Fixer {
	f := &Fixer{
		now:          time.Now,
		log:          logging.GetLogger(),
		setupTime:    DefaultSetupTime,
		requirements: DefaultRequirements,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Change is one rewritten metadata document.
type Change struct {
	Rel     string
	Changes []string
}

// Failure is a document the fixer could not process.
type Failure struct {
	Rel string
	Err error
}

// Result summarises a run. In dry-run mode it lists what would happen.
type Result struct {
	Fixed     []Change
	Created   []string
	Unchanged int
	Failed    []Failure
	DryRun    bool
}

// Run repairs every metadata document under root, then creates stubs for
// orphan definitions. Per-file problems are recorded in the result; only an
// inaccessible root or cancellation aborts the run.
func (f *Fixer) Run(ctx context.Context, root string, opts corpus.ScanOptions) (*Result, error) {
	log := logging.ForRun(f.log, "fix")
	today := f.now().UTC().Format("2006-01-02")
	res := &Result{DryRun: f.dryRun}

	refs, err := corpus.Scan(root, opts)
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changes, err := f.fixFile(ref.Path, today)
		switch {
		case err != nil:
			log.WithError(err).Warnf("Skipping %s", ref.Rel)
			res.Failed = append(res.Failed, Failure{Rel: ref.Rel, Err: err})
		case len(changes) == 0:
			res.Unchanged++
		default:
			log.WithField("changes", len(changes)).Debugf("Fixed %s", ref.Rel)
			res.Fixed = append(res.Fixed, Change{Rel: ref.Rel, Changes: changes})
		}
	}

	orphans, err := corpus.Orphans(root, opts)
	if err != nil {
		return nil, err
	}

	for _, def := range orphans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := f.createStub(def, today); err != nil {
			log.WithError(err).Warnf("Cannot create metadata for %s", def.Rel)
			res.Failed = append(res.Failed, Failure{Rel: def.Rel, Err: err})
			continue
		}
		log.Debugf("Created %s", def.MetadataRel())
		res.Created = append(res.Created, def.MetadataRel())
	}

	log.WithFields(logrus.Fields{
		"fixed":     len(res.Fixed),
		"created":   len(res.Created),
		"unchanged": res.Unchanged,
		"failed":    len(res.Failed),
		"dry_run":   f.dryRun,
	}).Info("fix finished")

	return res, nil
}

// fixFile repairs one document and returns a description of each change.
// The file is only rewritten when something changed.
func (f *Fixer) fixFile(path, today string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &wferrors.MetadataError{Op: "read", Path: path, Err: fmt.Errorf("%w: %v", wferrors.ErrIO, err)}
	}

	obj := metadata.NewObject()
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, &wferrors.MetadataError{Op: "decode", Path: path, Err: fmt.Errorf("%w: %v", wferrors.ErrParse, err)}
	}

	changes, err := f.Apply(obj, today)
	if err != nil {
		return nil, &wferrors.MetadataError{Op: "fix", Path: path, Err: err}
	}
	if len(changes) == 0 || f.dryRun {
		return changes, nil
	}

	if err := fsutil.WriteJSON(path, obj, true); err != nil {
		return nil, err
	}
	return changes, nil
}

// Apply repairs obj in place. Key order and unknown keys are preserved and
// new keys are appended.
func (f *Fixer) Apply(obj *metadata.Object, today string) ([]string, error) {
	var changes []string
	set := func(key string, v any, change string) error {
		if err := obj.SetValue(key, v); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		changes = append(changes, change)
		return nil
	}

	if d, ok := stringValue(obj, "difficulty"); ok && d != "" {
		if lower := strings.ToLower(d); lower != d {
			if err := set("difficulty", lower, fmt.Sprintf("difficulty %q -> %q", d, lower)); err != nil {
				return nil, err
			}
		}
	}

	if raw, ok := obj.Get("tags"); ok {
		var tags []string
		if json.Unmarshal(raw, &tags) == nil {
			if fixed, changed := fixTags(tags); changed {
				if err := set("tags", fixed, fmt.Sprintf("tags %s -> %s", strings.Join(tags, ","), strings.Join(fixed, ","))); err != nil {
					return nil, err
				}
			}
		}
	}

	fills := []struct {
		key   string
		value any
	}{
		{"subcategory", metadata.DefaultSubcategory},
		{"estimatedSetupTime", f.setupTime},
		{"requirements", f.requirements},
		{"version", metadata.DefaultVersion},
		{"lastUpdated", today},
	}
	for _, fill := range fills {
		if obj.Truthy(fill.key) {
			continue
		}
		if err := set(fill.key, fill.value, "added "+fill.key); err != nil {
			return nil, err
		}
	}

	if !obj.Truthy("useCase") {
		if desc, ok := stringValue(obj, "description"); ok && desc != "" {
			if err := set("useCase", desc, "added useCase"); err != nil {
				return nil, err
			}
		}
	}

	return changes, nil
}

func stringValue(obj *metadata.Object, key string) (string, bool) {
	raw, ok := obj.Get(key)
	if !ok {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

// fixTags slugifies tags that are not lowercase-with-hyphens and drops
// duplicates and empty results.
func fixTags(tags []string) ([]string, bool) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	changed := false
	for _, tag := range tags {
		slug := Slugify(tag)
		if slug != tag {
			changed = true
		}
		if slug == "" || seen[slug] {
			changed = true
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out, changed
}

// Slugify lower-cases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	s = cases.Lower(language.Und).String(s)
	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
