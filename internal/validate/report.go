package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/caphetech/wfcatalog/internal/fsutil"
)

// DefaultReport is the validation report path.
const DefaultReport = "metadata-validation-report.json"

// Severity separates build-failing errors from advisories.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one validation finding for one file.
type Issue struct {
	File     string
	Message  string
	Severity Severity
}

// String renders the issue the way the report stores it.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.File, i.Message)
}

// MarshalJSON writes the issue as its report string.
func (i Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// Summary holds the headline counts.
type Summary struct {
	TotalFiles   int `json:"totalFiles"`
	ValidFiles   int `json:"validFiles"`
	InvalidFiles int `json:"invalidFiles"`
	ErrorCount   int `json:"errorCount"`
	WarningCount int `json:"warningCount"`
}

// Stats holds the descriptive statistics over parsed files.
type Stats struct {
	Total        int          `json:"total"`
	Valid        int          `json:"valid"`
	Invalid      int          `json:"invalid"`
	ByCategory   *CountMap    `json:"byCategory"`
	ByDifficulty *CountMap    `json:"byDifficulty"`
	TotalTags    int          `json:"totalTags"`
	Integrations *DistinctSet `json:"-"`
	// TotalIntegrations is the number of distinct integrations.
	TotalIntegrations int     `json:"totalIntegrations"`
	AverageTags       float64 `json:"averageTagsPerWorkflow"`
}

// Report is the validator's output document.
type Report struct {
	Timestamp string  `json:"timestamp"`
	Summary   Summary `json:"summary"`
	Stats     Stats   `json:"stats"`
	Errors    []Issue `json:"errors"`
	Warnings  []Issue `json:"warnings"`

	// Files lists every file in scan order with its outcome.
	Files []FileResult `json:"-"`
}

// FileResult is the per-file outcome.
type FileResult struct {
	File     string
	Errors   int
	Warnings int
}

// Valid reports whether the file produced no errors.
func (f FileResult) Valid() bool {
	return f.Errors == 0
}

// Passed reports whether the run produced no errors. Warnings never fail
// a run.
func (r *Report) Passed() bool {
	return len(r.Errors) == 0
}

// finish fills the derived fields once every file has been seen.
func (r *Report) finish() {
	r.Summary = Summary{
		TotalFiles:   r.Stats.Total,
		ValidFiles:   r.Stats.Valid,
		InvalidFiles: r.Stats.Invalid,
		ErrorCount:   len(r.Errors),
		WarningCount: len(r.Warnings),
	}
	r.Stats.TotalIntegrations = r.Stats.Integrations.Len()
	if r.Stats.Total > 0 {
		avg := float64(r.Stats.TotalTags) / float64(r.Stats.Total)
		r.Stats.AverageTags = math.Round(avg*10) / 10
	}
	if r.Errors == nil {
		r.Errors = []Issue{}
	}
	if r.Warnings == nil {
		r.Warnings = []Issue{}
	}
}

// Write writes the report pretty-printed to path, replacing any previous
// report.
func Write(r *Report, path string) error {
	if err := fsutil.WriteJSON(path, r, true); err != nil {
		return fmt.Errorf("failed to write validation report: %w", err)
	}
	return nil
}

// CountMap counts string keys and encodes as a JSON object in first-seen
// key order.
type CountMap struct {
	keys   []string
	counts map[string]int
}

// NewCountMap returns an empty CountMap.
func NewCountMap() *CountMap {
	return &CountMap{counts: make(map[string]int)}
}

// Inc increments key.
func (m *CountMap) Inc(key string) {
	if _, ok := m.counts[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.counts[key]++
}

// Get returns the count for key.
func (m *CountMap) Get(key string) int {
	if m == nil {
		return 0
	}
	return m.counts[key]
}

// Keys returns the keys in first-seen order.
func (m *CountMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// MarshalJSON implements json.Marshaler.
func (m *CountMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, key := range m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := fsutil.EncodeJSON(key, false)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			fmt.Fprintf(&buf, ":%d", m.counts[key])
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DistinctSet collects distinct strings in first-seen order.
type DistinctSet struct {
	items []string
	seen  map[string]struct{}
}

// NewDistinctSet returns an empty DistinctSet.
func NewDistinctSet() *DistinctSet {
	return &DistinctSet{seen: make(map[string]struct{})}
}

// Add inserts s if it is new.
func (s *DistinctSet) Add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}

// Len returns the number of distinct items.
func (s *DistinctSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the items in first-seen order.
func (s *DistinctSet) Items() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
