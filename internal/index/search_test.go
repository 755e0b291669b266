package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func searchFixture() *Index {
	return &Index{
		Workflows: []Record{
			{ID: "intake", Name: "Patient Intake", Category: "Healthcare", Difficulty: "beginner",
				Tags: []string{"forms", "crm-sync"}, Integrations: []string{"Google Sheets"}},
			{ID: "invoice", Name: "Invoice Chaser", Category: "Finance & Accounting", Difficulty: "advanced",
				Description: "Chases overdue invoices", Tags: []string{"billing"}, Integrations: []string{"Stripe", "Gmail"}},
			{ID: "triage", Name: "Ticket Triage", Category: "Customer Service", Difficulty: "intermediate",
				UseCase: "Route support tickets", Tags: []string{"support", "forms"}, Integrations: []string{"Zendesk"}},
		},
	}
}

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	idx := searchFixture()

	tests := []struct {
		name string
		opts SearchOptions
		want []string
	}{
		{"empty query returns all", SearchOptions{}, []string{"intake", "invoice", "triage"}},
		{"name substring", SearchOptions{Query: "PATIENT"}, []string{"intake"}},
		{"description", SearchOptions{Query: "overdue"}, []string{"invoice"}},
		{"use case", SearchOptions{Query: "route support"}, []string{"triage"}},
		{"integration text", SearchOptions{Query: "stripe"}, []string{"invoice"}},
		{"category", SearchOptions{Category: "Healthcare"}, []string{"intake"}},
		{"category is exact", SearchOptions{Category: "healthcare"}, nil},
		{"difficulty", SearchOptions{Difficulty: "Advanced"}, []string{"invoice"}},
		{"tags all match", SearchOptions{Tags: []string{"forms", "support"}}, []string{"triage"}},
		{"tag any case", SearchOptions{Tags: []string{"FORMS"}}, []string{"intake", "triage"}},
		{"integration filter", SearchOptions{Integration: "gmail"}, []string{"invoice"}},
		{"limit", SearchOptions{Limit: 2}, []string{"intake", "invoice"}},
		{"no match", SearchOptions{Query: "nothing here"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(idx, tt.opts)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearch_NilIndex(t *testing.T) {
	assert.Nil(t, Search(nil, SearchOptions{Query: "x"}))
}

func TestSearch_UnlimitedWithNegativeLimit(t *testing.T) {
	idx := &Index{}
	for i := 0; i < DefaultLimit+5; i++ {
		idx.Workflows = append(idx.Workflows, Record{ID: "x"})
	}

	assert.Len(t, Search(idx, SearchOptions{}), DefaultLimit)
	assert.Len(t, Search(idx, SearchOptions{Limit: -1}), DefaultLimit+5)
}
