package index

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/caphetech/wfcatalog/internal/corpus"
	"github.com/caphetech/wfcatalog/internal/logging"
	"github.com/caphetech/wfcatalog/internal/metadata"
)

// Collector aggregates metadata documents into an Index.
type Collector struct {
	now      func() time.Time
	log      logrus.FieldLogger
	tagLimit int
	lang     language.Tag
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock sets the clock used for generatedAt and the lastUpdated default.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// WithLogger sets the logger for progress and per-file failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Collector) {
		c.log = l
	}
}

// WithPopularTagLimit caps popularTags. Values below 1 are ignored.
func WithPopularTagLimit(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.tagLimit = n
		}
	}
}

// NewCollector creates a Collector.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		now:      time.Now,
		log:      logging.GetLogger(),
		tagLimit: DefaultPopularTagLimit,
		lang:     language.English,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Failure is a metadata document the collector skipped.
type Failure struct {
	Ref corpus.Ref
	Err error
}

// CollectStats summarises one run.
type CollectStats struct {
	Scanned   int
	Collected int
	Failures  []Failure
	// UniqueTags counts distinct tags before the popularTags cap.
	UniqueTags int
}

// accumulator holds the per-run counters. A fresh one is built per Collect.
type accumulator struct {
	records      []Record
	categories   *orderedCounter
	subcats      map[string]*orderedCounter
	tags         *orderedCounter
	integrations *orderedCounter
	difficulties Difficulties
}

func newAccumulator() *accumulator {
	return &accumulator{
		categories:   newOrderedCounter(),
		subcats:      make(map[string]*orderedCounter),
		tags:         newOrderedCounter(),
		integrations: newOrderedCounter(),
	}
}

func (a *accumulator) add(rec Record, doc *metadata.Document) {
	a.records = append(a.records, rec)

	a.categories.inc(rec.Category)
	sub, ok := a.subcats[rec.Category]
	if !ok {
		sub = newOrderedCounter()
		a.subcats[rec.Category] = sub
	}
	sub.inc(rec.Subcategory)

	for _, tag := range doc.Tags {
		a.tags.inc(tag)
	}
	for _, integration := range doc.Integrations {
		a.integrations.inc(integration)
	}

	// The record defaults an empty difficulty; the histogram does not.
	if doc.Difficulty != "" {
		a.difficulties.add(rec.Difficulty)
	}
}

// Collect reads every ref and builds the index. Documents that cannot be
// read or decoded are logged, recorded in the stats and skipped entirely.
// Cancellation stops the run between files and returns ctx.Err().
func (c *Collector) Collect(ctx context.Context, refs []corpus.Ref) (*Index, *CollectStats, error) {
	now := c.now().UTC()
	today := now.Format("2006-01-02")
	log := logging.ForRun(c.log, "index")

	stats := &CollectStats{Scanned: len(refs)}
	acc := newAccumulator()

	log.WithField("files", len(refs)).Info("collecting metadata")

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		log.Debugf("[%d/%d] Processing %s", i+1, len(refs), ref.Rel)

		doc, err := metadata.LoadFile(ref.Path)
		if err != nil {
			log.WithField("file", ref.Rel).WithError(err).Warn("skipping metadata document")
			stats.Failures = append(stats.Failures, Failure{Ref: ref, Err: err})
			continue
		}

		acc.add(NewRecord(ref, doc, today), doc)
	}

	idx := c.assemble(acc, now)
	stats.Collected = idx.TotalWorkflows
	stats.UniqueTags = acc.tags.len()

	log.WithFields(logrus.Fields{
		"workflows": stats.Collected,
		"failed":    len(stats.Failures),
	}).Info("index assembled")

	return idx, stats, nil
}

func (c *Collector) assemble(acc *accumulator, now time.Time) *Index {
	idx := &Index{
		Version:        CurrentVersion,
		GeneratedAt:    now.Format("2006-01-02T15:04:05.000Z07:00"),
		TotalWorkflows: len(acc.records),
		Categories:     make([]CategorySummary, 0, acc.categories.len()),
		PopularTags:    []TagCount{},
		Integrations:   make([]IntegrationCount, 0, acc.integrations.len()),
		Difficulties:   acc.difficulties,
		Workflows:      acc.records,
	}

	for _, name := range acc.categories.byCount() {
		sub := acc.subcats[name]
		summary := CategorySummary{
			Name:          name,
			Count:         acc.categories.counts[name],
			Subcategories: make([]SubcategoryCount, 0, sub.len()),
		}
		for _, subName := range sub.byCount() {
			summary.Subcategories = append(summary.Subcategories, SubcategoryCount{
				Name:  subName,
				Count: sub.counts[subName],
			})
		}
		idx.Categories = append(idx.Categories, summary)
	}

	for _, tag := range acc.tags.byCount() {
		if len(idx.PopularTags) == c.tagLimit {
			break
		}
		idx.PopularTags = append(idx.PopularTags, TagCount{Tag: tag, Count: acc.tags.counts[tag]})
	}

	for _, name := range acc.integrations.byCount() {
		idx.Integrations = append(idx.Integrations, IntegrationCount{Name: name, Count: acc.integrations.counts[name]})
	}

	if idx.Workflows == nil {
		idx.Workflows = []Record{}
	}
	SortByName(idx.Workflows, c.lang)

	return idx
}

// SortByName sorts records by name using the collation rules of lang.
// The sort is stable.
func SortByName(records []Record, lang language.Tag) {
	col := collate.New(lang)
	sort.SliceStable(records, func(i, j int) bool {
		return col.CompareString(records[i].Name, records[j].Name) < 0
	})
}
