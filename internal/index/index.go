// Package index builds the aggregated workflow index consumed by the site.
package index

import (
	"github.com/caphetech/wfcatalog/internal/corpus"
	"github.com/caphetech/wfcatalog/internal/metadata"
)

const (
	// CurrentVersion is the index document version.
	CurrentVersion = "1.0.0"

	// DefaultPopularTagLimit caps popularTags.
	DefaultPopularTagLimit = 50

	// DefaultOutput is the pretty-printed index path.
	DefaultOutput = "workflow-index.json"

	// DefaultMinifiedOutput is the compact index path.
	DefaultMinifiedOutput = "workflow-index.min.json"
)

// Index is the aggregated catalog document.
type Index struct {
	Version        string             `json:"version"`
	GeneratedAt    string             `json:"generatedAt"`
	TotalWorkflows int                `json:"totalWorkflows"`
	Categories     []CategorySummary  `json:"categories"`
	PopularTags    []TagCount         `json:"popularTags"`
	Integrations   []IntegrationCount `json:"integrations"`
	Difficulties   Difficulties       `json:"difficulties"`
	Workflows      []Record           `json:"workflows"`
}

// Record is one workflow in the index.
type Record struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory"`
	Difficulty   string          `json:"difficulty"`
	Tags         []string        `json:"tags"`
	Integrations []string        `json:"integrations"`
	TriggerType  string          `json:"triggerType"`
	SetupTime    string          `json:"setupTime"`
	Cost         string          `json:"cost"`
	Version      string          `json:"version"`
	Author       metadata.Author `json:"author"`
	LastUpdated  string          `json:"lastUpdated"`
	FileURL      string          `json:"fileUrl"`
	MetadataURL  string          `json:"metadataUrl"`
	UseCase      string          `json:"useCase"`
	Features     []string        `json:"features"`
	Requirements []string        `json:"requirements"`
}

// CategorySummary counts workflows in one category.
type CategorySummary struct {
	Name          string             `json:"name"`
	Count         int                `json:"count"`
	Subcategories []SubcategoryCount `json:"subcategories"`
}

// SubcategoryCount counts workflows in one subcategory of a category.
type SubcategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagCount is a tag and how many workflows carry it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// IntegrationCount is an integration and how many workflows use it.
type IntegrationCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Difficulties is the histogram over the three known levels.
type Difficulties struct {
	Beginner     int `json:"beginner"`
	Intermediate int `json:"intermediate"`
	Advanced     int `json:"advanced"`
}

func (d *Difficulties) add(level string) {
	switch level {
	case metadata.Beginner:
		d.Beginner++
	case metadata.Intermediate:
		d.Intermediate++
	case metadata.Advanced:
		d.Advanced++
	}
}

// NewRecord builds an index record from a decoded document, applying the
// defaults table. today fills an empty lastUpdated.
func NewRecord(ref corpus.Ref, doc *metadata.Document, today string) Record {
	n := doc.Normalize(today)
	return Record{
		ID:           ref.ID(),
		Name:         n.Name,
		Description:  n.Description,
		Category:     n.Category,
		Subcategory:  n.Subcategory,
		Difficulty:   n.Difficulty,
		Tags:         n.Tags,
		Integrations: n.Integrations,
		TriggerType:  n.TriggerType,
		SetupTime:    n.SetupTime,
		Cost:         n.Cost,
		Version:      n.Version,
		Author:       n.Author,
		LastUpdated:  n.LastUpdated,
		FileURL:      ref.FileURL(),
		MetadataURL:  ref.MetadataURL(),
		UseCase:      n.UseCase,
		Features:     n.Features,
		Requirements: n.Requirements,
	}
}

// Find returns the record with the given id.
func (idx *Index) Find(id string) (Record, bool) {
	if idx == nil {
		return Record{}, false
	}
	for _, r := range idx.Workflows {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}
