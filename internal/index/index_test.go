package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/caphetech/wfcatalog/internal/corpus"
	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/logging"
	"github.com/caphetech/wfcatalog/internal/metadata"
	"github.com/caphetech/wfcatalog/internal/testutil"
)

var fixedNow = time.Date(2025, 3, 1, 12, 30, 45, 123_000_000, time.UTC)

func newTestCollector(opts ...Option) *Collector {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logging.Discard()),
	}
	return NewCollector(append(base, opts...)...)
}

func collect(t *testing.T, root string, opts ...Option) (*Index, *CollectStats) {
	t.Helper()

	refs, err := corpus.Scan(root, corpus.ScanOptions{})
	require.NoError(t, err)

	idx, stats, err := newTestCollector(opts...).Collect(context.Background(), refs)
	require.NoError(t, err)
	return idx, stats
}

func TestCollect_SingleHealthcareWorkflow(t *testing.T) {
	root := testutil.NewCorpus(t)
	md := testutil.ValidMetadata("Patient Intake")
	md["tags"] = []string{"a", "b", "c"}
	testutil.WriteMetadata(t, root, "workflows/healthcare/patient-intake-metadata.json", md)

	idx, stats := collect(t, root)

	assert.Equal(t, 1, idx.TotalWorkflows)
	assert.Equal(t, 1, stats.Collected)
	assert.Equal(t, 1, idx.Difficulties.Beginner)
	assert.Equal(t, 0, idx.Difficulties.Intermediate)
	require.Len(t, idx.Categories, 1)
	assert.Equal(t, "Healthcare", idx.Categories[0].Name)
	assert.Equal(t, 1, idx.Categories[0].Count)
	assert.Equal(t, []SubcategoryCount{{Name: "Clinics", Count: 1}}, idx.Categories[0].Subcategories)

	require.Len(t, idx.Workflows, 1)
	rec := idx.Workflows[0]
	assert.Equal(t, "patient-intake", rec.ID)
	assert.Equal(t, "beginner", rec.Difficulty)
	assert.Equal(t, "/workflows/healthcare/patient-intake.json", rec.FileURL)
	assert.Equal(t, "/workflows/healthcare/patient-intake-metadata.json", rec.MetadataURL)
	assert.Equal(t, "$0", rec.Cost)
	assert.Equal(t, "Ops Team", rec.Author.String())

	assert.Equal(t, CurrentVersion, idx.Version)
	assert.Equal(t, "2025-03-01T12:30:45.123Z", idx.GeneratedAt)
}

func TestCollect_SkipsUnparseableFiles(t *testing.T) {
	root := testutil.NewCorpus(t)
	testutil.WriteMetadata(t, root, "workflows/a/good-metadata.json", testutil.ValidMetadata("Good"))
	testutil.WriteFile(t, root, "workflows/a/broken-metadata.json", `{"name": "Broken",`)

	idx, stats := collect(t, root)

	assert.Equal(t, 1, idx.TotalWorkflows)
	assert.Equal(t, 2, stats.Scanned)
	require.Len(t, stats.Failures, 1)
	assert.True(t, wferrors.IsParse(stats.Failures[0].Err), stats.Failures[0].Err.Error())
	assert.Equal(t, 1, idx.Categories[0].Count)
}

func TestCollect_KeepsUnexpectedShapes(t *testing.T) {
	root := testutil.NewCorpus(t)
	testutil.WriteMetadata(t, root, "workflows/a/good-metadata.json", testutil.ValidMetadata("Good"))
	odd := testutil.ValidMetadata("Odd")
	odd["useCase"] = map[string]any{"primary": "Clinics"}
	odd["requirements"] = map[string]any{"account": "n8n"}
	odd["tags"] = []any{"forms", map[string]any{"a": 1}}
	testutil.WriteMetadata(t, root, "workflows/a/odd-metadata.json", odd)

	idx, stats := collect(t, root)

	assert.Equal(t, 2, stats.Scanned)
	assert.Empty(t, stats.Failures)
	assert.Equal(t, 2, idx.TotalWorkflows)

	rec, ok := idx.Find("odd")
	require.True(t, ok)
	assert.Equal(t, odd["description"], rec.UseCase)
	assert.Equal(t, []string{}, rec.Requirements)
	assert.Equal(t, []string{"forms"}, rec.Tags)
}

func TestCollect_AuthorObjectKept(t *testing.T) {
	root := testutil.NewCorpus(t)
	md := testutil.ValidMetadata("Team Owned")
	md["author"] = map[string]any{"name": "n8n Team", "url": "https://n8n.io"}
	testutil.WriteMetadata(t, root, "workflows/a/team-metadata.json", md)
	testutil.WriteMetadata(t, root, "workflows/a/solo-metadata.json", testutil.ValidMetadata("Solo"))

	idx, _ := collect(t, root)

	pretty := filepath.Join(t.TempDir(), "index.json")
	minified := filepath.Join(t.TempDir(), "index.min.json")
	require.NoError(t, Write(idx, pretty, minified))

	data, err := os.ReadFile(minified)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"author":{"name":"n8n Team","url":"https://n8n.io"}`)
	assert.Contains(t, string(data), `"author":"Ops Team"`)

	loaded, err := Load(minified)
	require.NoError(t, err)
	rec, ok := loaded.Find("team")
	require.True(t, ok)
	assert.Equal(t, metadata.Author{Name: "n8n Team", URL: "https://n8n.io"}, rec.Author)
}

func TestCollect_Defaults(t *testing.T) {
	root := testutil.NewCorpus(t)
	testutil.WriteMetadata(t, root, "workflows/misc/bare-metadata.json", map[string]any{
		"name":        "Bare",
		"description": "Just a description",
		"difficulty":  "",
	})

	idx, _ := collect(t, root)
	require.Len(t, idx.Workflows, 1)
	rec := idx.Workflows[0]

	assert.Equal(t, "Uncategorized", rec.Category)
	assert.Equal(t, "General", rec.Subcategory)
	assert.Equal(t, "intermediate", rec.Difficulty)
	assert.Equal(t, "Manual", rec.TriggerType)
	assert.Equal(t, "Unknown", rec.SetupTime)
	assert.Equal(t, "Unknown", rec.Cost)
	assert.Equal(t, "1.0.0", rec.Version)
	assert.Equal(t, metadata.Author{Name: "Unknown"}, rec.Author)
	assert.Equal(t, "2025-03-01", rec.LastUpdated)
	assert.Equal(t, "Just a description", rec.UseCase)
	assert.Equal(t, []string{}, rec.Tags)
	assert.Equal(t, []string{}, rec.Features)

	// A defaulted difficulty is not counted in the histogram.
	assert.Equal(t, Difficulties{}, idx.Difficulties)
}

func TestCollect_UnknownDifficultyExcludedFromHistogram(t *testing.T) {
	root := testutil.NewCorpus(t)
	md := testutil.ValidMetadata("Expert Flow")
	md["difficulty"] = "Expert"
	testutil.WriteMetadata(t, root, "workflows/x/expert-metadata.json", md)

	idx, _ := collect(t, root)
	assert.Equal(t, 1, idx.TotalWorkflows)
	assert.Equal(t, Difficulties{}, idx.Difficulties)
	assert.Equal(t, "expert", idx.Workflows[0].Difficulty)
}

func TestCollect_KeyedFeaturesFlattened(t *testing.T) {
	root := testutil.NewCorpus(t)
	testutil.WriteFile(t, root, "workflows/x/keyed-metadata.json",
		`{"name": "Keyed", "features": {"second": "B", "first": "A"}}`)

	idx, _ := collect(t, root)
	assert.Equal(t, []string{"B", "A"}, idx.Workflows[0].Features)
}

func TestCollect_OrderingAndTieBreaks(t *testing.T) {
	root := testutil.NewCorpus(t)
	write := func(rel, name, category, subcategory string, tags, integrations []string) {
		testutil.WriteMetadata(t, root, rel, map[string]any{
			"name":         name,
			"category":     category,
			"subcategory":  subcategory,
			"tags":         tags,
			"integrations": integrations,
		})
	}

	// Lexical walk order: a/, b/, c/
	write("workflows/a/one-metadata.json", "zeta", "Finance & Accounting", "Billing", []string{"t1", "t2"}, []string{"Slack"})
	write("workflows/b/two-metadata.json", "Alpha", "Education", "Courses", []string{"t2", "t3"}, []string{"Gmail"})
	write("workflows/c/three-metadata.json", "beta", "Education", "Grades", []string{"t3"}, []string{"Slack", "Gmail"})

	idx, _ := collect(t, root)

	names := make([]string, 0, len(idx.Workflows))
	for _, r := range idx.Workflows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names)

	require.Len(t, idx.Categories, 2)
	assert.Equal(t, "Education", idx.Categories[0].Name)
	assert.Equal(t, 2, idx.Categories[0].Count)
	// Equal subcategory counts keep first-seen order.
	assert.Equal(t, []SubcategoryCount{{"Courses", 1}, {"Grades", 1}}, idx.Categories[0].Subcategories)

	// t2 and t3 both have count 2; t2 was seen first.
	assert.Equal(t, []TagCount{{"t2", 2}, {"t3", 2}, {"t1", 1}}, idx.PopularTags)
	// Slack and Gmail both have count 2; Slack was seen first.
	assert.Equal(t, []IntegrationCount{{"Slack", 2}, {"Gmail", 2}}, idx.Integrations)
}

func TestCollect_PopularTagsCapped(t *testing.T) {
	root := testutil.NewCorpus(t)
	tags := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		tags = append(tags, fmt.Sprintf("tag-%02d", i))
	}
	testutil.WriteMetadata(t, root, "workflows/a/first-metadata.json", map[string]any{"name": "First", "tags": tags})
	testutil.WriteMetadata(t, root, "workflows/a/second-metadata.json", map[string]any{"name": "Second", "tags": tags[55:]})

	idx, stats := collect(t, root)

	require.Len(t, idx.PopularTags, DefaultPopularTagLimit)
	assert.Equal(t, 60, stats.UniqueTags)
	assert.Equal(t, "tag-55", idx.PopularTags[0].Tag)
	for i := 1; i < len(idx.PopularTags); i++ {
		assert.GreaterOrEqual(t, idx.PopularTags[i-1].Count, idx.PopularTags[i].Count)
	}

	idx, _ = collect(t, root, WithPopularTagLimit(3))
	assert.Len(t, idx.PopularTags, 3)
}

func TestCollect_CategoryCountsSumToTotal(t *testing.T) {
	root := testutil.NewCorpus(t)
	categories := []string{"Healthcare", "Education", "Healthcare", "", "E-commerce", "Education", "Healthcare"}
	for i, c := range categories {
		testutil.WriteMetadata(t, root, fmt.Sprintf("workflows/w/wf%d-metadata.json", i), map[string]any{
			"name":     fmt.Sprintf("Workflow %d", i),
			"category": c,
		})
	}

	idx, _ := collect(t, root)

	sum := 0
	for _, c := range idx.Categories {
		sum += c.Count
		subSum := 0
		for _, s := range c.Subcategories {
			subSum += s.Count
		}
		assert.Equal(t, c.Count, subSum, c.Name)
	}
	assert.Equal(t, idx.TotalWorkflows, sum)
	assert.Equal(t, "Healthcare", idx.Categories[0].Name)
}

func TestCollect_Deterministic(t *testing.T) {
	root := testutil.NewCorpus(t)
	for i := 0; i < 10; i++ {
		md := testutil.ValidMetadata(fmt.Sprintf("Workflow %c", 'J'-i))
		md["tags"] = []string{fmt.Sprintf("tag-%d", i%3), "shared"}
		testutil.WriteMetadata(t, root, fmt.Sprintf("workflows/d%d/wf-metadata.json", i), md)
	}

	first, _ := collect(t, root)
	second, _ := collect(t, root, WithClock(func() time.Time { return fixedNow.Add(time.Hour) }))

	for _, pick := range []func(*Index) any{
		func(i *Index) any { return i.Workflows },
		func(i *Index) any { return i.Categories },
		func(i *Index) any { return i.PopularTags },
		func(i *Index) any { return i.Integrations },
	} {
		a, err := json.Marshal(pick(first))
		require.NoError(t, err)
		b, err := json.Marshal(pick(second))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	}
	assert.NotEqual(t, first.GeneratedAt, second.GeneratedAt)
}

func TestCollect_EmptyCorpus(t *testing.T) {
	idx, stats := collect(t, testutil.TempDir(t))

	assert.Equal(t, 0, idx.TotalWorkflows)
	assert.Equal(t, 0, stats.Scanned)

	data, err := json.Marshal(idx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"workflows":[]`)
	assert.Contains(t, string(data), `"categories":[]`)
	assert.Contains(t, string(data), `"popularTags":[]`)
	assert.Contains(t, string(data), `"integrations":[]`)
}

func TestCollect_Cancelled(t *testing.T) {
	root := testutil.NewCorpus(t)
	testutil.WriteMetadata(t, root, "workflows/a/x-metadata.json", testutil.ValidMetadata("X"))
	refs, err := corpus.Scan(root, corpus.ScanOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = newTestCollector().Collect(ctx, refs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortByName_LocaleAware(t *testing.T) {
	records := []Record{{Name: "banana"}, {Name: "Apple"}, {Name: "apple"}, {Name: "Éclair"}, {Name: "cherry"}}
	SortByName(records, language.English)

	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"apple", "Apple", "banana", "cherry", "Éclair"}, names)
}

func TestWriteAndLoad(t *testing.T) {
	root := testutil.NewCorpus(t)
	md := testutil.ValidMetadata("Marketing <Flow> & More")
	md["category"] = "Marketing & Sales"
	testutil.WriteMetadata(t, root, "workflows/m/flow-metadata.json", md)
	idx, _ := collect(t, root)

	out := t.TempDir()
	pretty := filepath.Join(out, DefaultOutput)
	minified := filepath.Join(out, DefaultMinifiedOutput)

	// Pre-existing contents are discarded.
	require.NoError(t, os.WriteFile(pretty, []byte("stale"), 0644))
	require.NoError(t, Write(idx, pretty, minified))

	prettyData, err := os.ReadFile(pretty)
	require.NoError(t, err)
	minData, err := os.ReadFile(minified)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(prettyData), "{\n  \"version\": \"1.0.0\",\n  \"generatedAt\""))
	assert.False(t, strings.HasSuffix(string(prettyData), "\n"))
	assert.Contains(t, string(prettyData), `"Marketing & Sales"`)
	assert.NotContains(t, string(minData), "\n")
	assert.Contains(t, string(minData), `"name":"Marketing <Flow> & More"`)

	loaded, err := Load(pretty)
	require.NoError(t, err)
	assert.Equal(t, idx, loaded)

	loadedMin, err := Load(minified)
	require.NoError(t, err)
	assert.Equal(t, idx, loadedMin)
}

func TestLoad_Missing(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("Failed to load non-existent index: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil for non-existent index, got %+v", loaded)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, wferrors.IsParse(err))
}

func TestFind(t *testing.T) {
	idx := &Index{Workflows: []Record{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}}

	rec, ok := idx.Find("b")
	assert.True(t, ok)
	assert.Equal(t, "B", rec.Name)

	_, ok = idx.Find("zzz")
	assert.False(t, ok)

	var nilIdx *Index
	_, ok = nilIdx.Find("a")
	assert.False(t, ok)
}
