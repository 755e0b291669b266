package index

import (
	"strings"
)

// SearchOptions contains options for searching the index.
type SearchOptions struct {
	Query       string   // Text query (substring search)
	Category    string   // Filter by category (exact)
	Difficulty  string   // Filter by difficulty (case-insensitive)
	Tags        []string // Filter by tags (all must match)
	Integration string   // Filter by integration (case-insensitive)
	Limit       int      // Maximum results (0 = DefaultLimit, <0 = unlimited)
}

// DefaultLimit is the default limit for search results.
const DefaultLimit = 50

// Search searches the index and returns matching records in index order.
func Search(idx *Index, opts SearchOptions) []Record {
	if idx == nil {
		return nil
	}

	if opts.Limit == 0 {
		opts.Limit = DefaultLimit
	}

	var results []Record
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	for _, rec := range idx.Workflows {
		if opts.Category != "" && rec.Category != opts.Category {
			continue
		}

		if opts.Difficulty != "" && !strings.EqualFold(rec.Difficulty, opts.Difficulty) {
			continue
		}

		// Filter by tags (all must match)
		if len(opts.Tags) > 0 && !hasAllTags(rec.Tags, opts.Tags) {
			continue
		}

		if opts.Integration != "" && !containsFold(rec.Integrations, opts.Integration) {
			continue
		}

		if query != "" && !strings.Contains(SearchText(rec), query) {
			continue
		}

		results = append(results, rec)

		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}

	return results
}

// SearchText returns the lower-cased text a query is matched against.
func SearchText(rec Record) string {
	parts := []string{rec.Name, rec.ID, rec.Description, rec.UseCase}
	parts = append(parts, rec.Tags...)
	parts = append(parts, rec.Integrations...)
	return strings.ToLower(strings.Join(parts, " "))
}

// hasAllTags checks if the record has all the required tags.
func hasAllTags(recTags, requiredTags []string) bool {
	tagMap := make(map[string]bool)
	for _, tag := range recTags {
		tagMap[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	for _, tag := range requiredTags {
		if !tagMap[strings.ToLower(strings.TrimSpace(tag))] {
			return false
		}
	}

	return true
}

func containsFold(items []string, want string) bool {
	for _, item := range items {
		if strings.EqualFold(item, want) {
			return true
		}
	}
	return false
}
