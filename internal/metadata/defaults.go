package metadata

import "strings"

// Fallback values used when a field is absent or empty.
const (
	DefaultCategory    = "Uncategorized"
	DefaultSubcategory = "General"
	DefaultDifficulty  = "intermediate"
	DefaultTriggerType = "Manual"
	DefaultSetupTime   = "Unknown"
	DefaultCost        = "Unknown"
	DefaultVersion     = "1.0.0"
	DefaultAuthor      = "Unknown"
)

// Difficulty levels recognised by the histogram and the validator.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Advanced     = "advanced"
)

// Difficulties lists the known levels in display order.
var Difficulties = []string{Beginner, Intermediate, Advanced}

// IsKnownDifficulty reports whether level (already lower-cased) is one of
// the three known levels.
func IsKnownDifficulty(level string) bool {
	switch level {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Normalized is a metadata document with every default applied.
// Lists are never nil.
type Normalized struct {
	Name         string
	Description  string
	Category     string
	Subcategory  string
	Difficulty   string
	Tags         []string
	Integrations []string
	TriggerType  string
	SetupTime    string
	Cost         string
	Version      string
	Author       Author
	LastUpdated  string
	UseCase      string
	Features     []string
	Requirements []string
}

// Normalize applies the defaults table. today is the YYYY-MM-DD date used
// when lastUpdated is empty.
func (m *Metadata) Normalize(today string) Normalized {
	return Normalized{
		Name:         m.Name.String(),
		Description:  m.Description.String(),
		Category:     or(m.Category.String(), DefaultCategory),
		Subcategory:  or(m.Subcategory.String(), DefaultSubcategory),
		Difficulty:   or(strings.ToLower(m.Difficulty.String()), DefaultDifficulty),
		Tags:         list(m.Tags),
		Integrations: list(m.Integrations),
		TriggerType:  or(m.TriggerType.String(), DefaultTriggerType),
		SetupTime:    or(m.EstimatedSetupTime.String(), DefaultSetupTime),
		Cost:         or(m.Pricing.EstimatedMonthlyCost.String(), DefaultCost),
		Version:      or(m.Version.String(), DefaultVersion),
		Author:       m.Author.orDefault(),
		LastUpdated:  or(m.LastUpdated.String(), today),
		UseCase:      or(m.UseCase.String(), m.Description.String()),
		Features:     list(m.Features.Items),
		Requirements: list(m.Requirements),
	}
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func list(items []string) []string {
	if items == nil {
		return []string{}
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// orDefault returns the author, or DefaultAuthor when neither a name nor a
// URL was given.
func (a Author) orDefault() Author {
	if a.Name == "" && a.URL == "" {
		return Author{Name: DefaultAuthor}
	}
	return a
}
