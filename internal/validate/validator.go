// Package validate checks metadata documents against the catalog schema
// and produces the validation report.
package validate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/caphetech/wfcatalog/internal/corpus"
	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/logging"
	"github.com/caphetech/wfcatalog/internal/metadata"
)

// Validator runs the schema rules over a corpus.
type Validator struct {
	now func() time.Time
	log logrus.FieldLogger
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the clock used for the report timestamp.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithLogger sets the logger for progress lines.
func WithLogger(l logrus.FieldLogger) Option {
	return func(v *Validator) {
		v.log = l
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		now: time.Now,
		log: logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every ref and returns the report. Per-file problems,
// including unreadable or malformed files, are recorded in the report and
// never abort the run. Cancellation stops the run between files.
func (v *Validator) Validate(ctx context.Context, refs []corpus.Ref) (*Report, error) {
	log := logging.ForRun(v.log, "validate")

	report := &Report{
		Timestamp: v.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Stats: Stats{
			Total:        len(refs),
			ByCategory:   NewCountMap(),
			ByDifficulty: NewCountMap(),
			Integrations: NewDistinctSet(),
		},
	}

	log.WithField("files", len(refs)).Info("validating metadata")

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Debugf("[%d/%d] Validating %s", i+1, len(refs), ref.Rel)
		result := v.validateFile(report, ref)
		report.Files = append(report.Files, result)

		if result.Valid() {
			report.Stats.Valid++
		} else {
			report.Stats.Invalid++
		}
	}

	report.finish()

	log.WithFields(logrus.Fields{
		"valid":    report.Summary.ValidFiles,
		"invalid":  report.Summary.InvalidFiles,
		"errors":   report.Summary.ErrorCount,
		"warnings": report.Summary.WarningCount,
	}).Info("validation finished")

	return report, nil
}

func (v *Validator) validateFile(report *Report, ref corpus.Ref) FileResult {
	result := FileResult{File: ref.Rel}

	doc, err := metadata.LoadFile(ref.Path)
	if err != nil {
		report.Errors = append(report.Errors, Issue{
			File:     ref.Rel,
			Message:  loadFailure(err),
			Severity: SeverityError,
		})
		result.Errors++
		return result
	}

	for _, check := range rules {
		for _, f := range check(doc) {
			issue := Issue{File: ref.Rel, Message: f.message, Severity: f.severity}
			if f.severity == SeverityError {
				report.Errors = append(report.Errors, issue)
				result.Errors++
			} else {
				report.Warnings = append(report.Warnings, issue)
				result.Warnings++
			}
		}
	}

	collectStats(&report.Stats, doc)
	return result
}

func collectStats(s *Stats, doc *metadata.Document) {
	if c := doc.Category.String(); c != "" {
		s.ByCategory.Inc(c)
	}
	if d := doc.Difficulty.String(); d != "" {
		s.ByDifficulty.Inc(strings.ToLower(d))
	}
	if doc.Truthy("tags") {
		s.TotalTags += len(doc.Tags)
	}
	for _, integration := range doc.Integrations {
		s.Integrations.Add(integration)
	}
}

// loadFailure renders a read or decode failure as a report message.
func loadFailure(err error) string {
	cause := err
	if me, ok := wferrors.AsMetadataError(err); ok {
		cause = me.Err
	}
	if wferrors.IsIO(err) && !wferrors.IsParse(err) {
		return fmt.Sprintf("failed to read file: %s", cause)
	}
	return fmt.Sprintf("failed to parse JSON: %s", cause)
}
