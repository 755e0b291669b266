package fix

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caphetech/wfcatalog/internal/corpus"
	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/logging"
	"github.com/caphetech/wfcatalog/internal/metadata"
	"github.com/caphetech/wfcatalog/internal/testutil"
	"github.com/caphetech/wfcatalog/internal/validate"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
}

func newFixer(opts ...Option) *Fixer {
	return New(append([]Option{WithClock(fixedClock), WithLogger(logging.Discard())}, opts...)...)
}

func readObject(t *testing.T, path string) *metadata.Object {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	obj := metadata.NewObject()
	require.NoError(t, json.Unmarshal(data, obj))
	return obj
}

func stringField(t *testing.T, obj *metadata.Object, key string) string {
	t.Helper()
	raw, ok := obj.Get(key)
	require.True(t, ok, "missing %s", key)
	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

func listField(t *testing.T, obj *metadata.Object, key string) []string {
	t.Helper()
	raw, ok := obj.Get(key)
	require.True(t, ok, "missing %s", key)
	var l []string
	require.NoError(t, json.Unmarshal(raw, &l))
	return l
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"patient-intake":    "patient-intake",
		"Patient Intake":    "patient-intake",
		"CRM_Sync":          "crm-sync",
		"  --AI / ML--  ":   "ai-ml",
		"E-commerce":        "e-commerce",
		"Marketing & Sales": "marketing-sales",
		"Überblick":         "berblick",
		"!!!":               "",
		"v2 API":            "v2-api",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestApply_RepairsDocument(t *testing.T) {
	obj := metadata.NewObject()
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Intake",
		"custom": {"keep": true},
		"description": "Collects forms & syncs them",
		"difficulty": "Beginner",
		"tags": ["Patient Intake", "forms", "FORMS"]
	}`), obj))

	changes, err := newFixer().Apply(obj, "2024-03-01")
	require.NoError(t, err)
	assert.NotEmpty(t, changes)

	assert.Equal(t, []string{
		"name", "custom", "description", "difficulty", "tags",
		"subcategory", "estimatedSetupTime", "requirements", "version", "lastUpdated", "useCase",
	}, obj.Keys())

	assert.Equal(t, "beginner", stringField(t, obj, "difficulty"))
	assert.Equal(t, []string{"patient-intake", "forms"}, listField(t, obj, "tags"))
	assert.Equal(t, metadata.DefaultSubcategory, stringField(t, obj, "subcategory"))
	assert.Equal(t, DefaultSetupTime, stringField(t, obj, "estimatedSetupTime"))
	assert.Equal(t, DefaultRequirements, listField(t, obj, "requirements"))
	assert.Equal(t, "1.0.0", stringField(t, obj, "version"))
	assert.Equal(t, "2024-03-01", stringField(t, obj, "lastUpdated"))
	assert.Equal(t, "Collects forms & syncs them", stringField(t, obj, "useCase"))

	raw, _ := obj.Get("useCase")
	assert.NotContains(t, string(raw), `\u0026`)
}

func TestApply_NoChanges(t *testing.T) {
	data, err := json.Marshal(testutil.ValidMetadata("Intake"))
	require.NoError(t, err)

	obj := metadata.NewObject()
	require.NoError(t, json.Unmarshal(data, obj))
	// ValidMetadata uses a capitalised difficulty.
	require.NoError(t, obj.SetValue("difficulty", "beginner"))

	changes, err := newFixer().Apply(obj, "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestApply_FalsyValuesAreFilled(t *testing.T) {
	obj := metadata.NewObject()
	require.NoError(t, json.Unmarshal([]byte(`{"version": "", "lastUpdated": null, "requirements": []}`), obj))

	changes, err := newFixer(WithDefaults("1 hour", []string{"API key"})).Apply(obj, "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", stringField(t, obj, "version"))
	assert.Equal(t, "2024-03-01", stringField(t, obj, "lastUpdated"))
	assert.Equal(t, "1 hour", stringField(t, obj, "estimatedSetupTime"))
	// An empty array is truthy and left alone.
	assert.Empty(t, listField(t, obj, "requirements"))
	assert.NotContains(t, changes, "added requirements")
	// No description means no useCase.
	_, ok := obj.Get("useCase")
	assert.False(t, ok)
}

func TestRun_FixesAndCreates(t *testing.T) {
	root := testutil.NewCorpus(t)

	broken := testutil.ValidMetadata("Intake")
	delete(broken, "version")
	path := testutil.WriteMetadata(t, root, "workflows/healthcare/clinics/intake-metadata.json", broken)

	good := testutil.ValidMetadata("Good")
	good["difficulty"] = "advanced"
	goodPath := testutil.WriteMetadata(t, root, "workflows/healthcare/clinics/good-metadata.json", good)
	goodBefore, err := os.ReadFile(goodPath)
	require.NoError(t, err)

	testutil.WriteFile(t, root, "workflows/finance-accounting/invoice-reminders/invoice-chaser.json",
		`{"nodes": [{"type": "n8n-nodes-base.scheduleTrigger"}, {"type": "n8n-nodes-base.googleSheets"}, {"type": "n8n-nodes-base.slack"}, {"type": "n8n-nodes-base.set"}]}`)
	testutil.WriteFile(t, root, "workflows/misc/broken.json", `{not json`)

	res, err := newFixer().Run(context.Background(), root, corpus.ScanOptions{})
	require.NoError(t, err)

	require.Len(t, res.Fixed, 1)
	assert.Equal(t, "workflows/healthcare/clinics/intake-metadata.json", res.Fixed[0].Rel)
	assert.Equal(t, 1, res.Unchanged)
	assert.Equal(t, []string{"workflows/finance-accounting/invoice-reminders/invoice-chaser-metadata.json"}, res.Created)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "workflows/misc/broken.json", res.Failed[0].Rel)
	assert.True(t, wferrors.IsParse(res.Failed[0].Err))

	fixed := readObject(t, path)
	assert.Equal(t, "1.0.0", stringField(t, fixed, "version"))
	assert.Equal(t, "beginner", stringField(t, fixed, "difficulty"))

	goodAfter, err := os.ReadFile(goodPath)
	require.NoError(t, err)
	assert.Equal(t, string(goodBefore), string(goodAfter), "unchanged files are not rewritten")

	stub := readObject(t, filepath.Join(root, "workflows/finance-accounting/invoice-reminders/invoice-chaser-metadata.json"))
	assert.Equal(t, "Invoice Chaser", stringField(t, stub, "name"))
	assert.Equal(t, "Finance & Accounting", stringField(t, stub, "category"))
	assert.Equal(t, "Invoice Reminders", stringField(t, stub, "subcategory"))
	assert.Equal(t, "intermediate", stringField(t, stub, "difficulty"))
	assert.Equal(t, "Schedule", stringField(t, stub, "triggerType"))
	assert.Equal(t, "2024-03-01", stringField(t, stub, "lastUpdated"))
	assert.Equal(t, []string{"finance-accounting", "invoice-reminders", "automation"}, listField(t, stub, "tags"))
	assert.Equal(t, []string{"Google Sheets", "Slack"}, listField(t, stub, "integrations"))

	author, _ := stub.Get("author")
	assert.JSONEq(t, `{"name": "n8n Team", "url": "https://n8n.io"}`, string(author))
}

func TestRun_StubPassesRequiredFields(t *testing.T) {
	root := testutil.NewCorpus(t)
	testutil.WriteFile(t, root, "workflows/healthcare/patient-intake.json", `{"nodes": []}`)

	res, err := newFixer().Run(context.Background(), root, corpus.ScanOptions{})
	require.NoError(t, err)
	require.Len(t, res.Created, 1)

	refs, err := corpus.Scan(root, corpus.ScanOptions{})
	require.NoError(t, err)
	report, err := validate.New(validate.WithLogger(logging.Discard())).Validate(context.Background(), refs)
	require.NoError(t, err)
	assert.True(t, report.Passed(), "errors: %v", report.Errors)

	stub := readObject(t, filepath.Join(root, "workflows/healthcare/patient-intake-metadata.json"))
	assert.Equal(t, "Healthcare", stringField(t, stub, "category"))
	assert.Equal(t, metadata.DefaultSubcategory, stringField(t, stub, "subcategory"))
	assert.Equal(t, "Manual", stringField(t, stub, "triggerType"))
}

func TestRun_DryRun(t *testing.T) {
	root := testutil.NewCorpus(t)
	broken := testutil.ValidMetadata("Intake")
	delete(broken, "lastUpdated")
	path := testutil.WriteMetadata(t, root, "workflows/healthcare/intake-metadata.json", broken)
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	testutil.WriteFile(t, root, "workflows/healthcare/orphan.json", `{}`)

	res, err := newFixer(WithDryRun(true)).Run(context.Background(), root, corpus.ScanOptions{})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Len(t, res.Fixed, 1)
	assert.Len(t, res.Created, 1)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	_, err = os.Stat(filepath.Join(root, "workflows/healthcare/orphan-metadata.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_Cancelled(t *testing.T) {
	root := testutil.NewCorpus(t)
	testutil.WriteMetadata(t, root, "workflows/a/x-metadata.json", testutil.ValidMetadata("X"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newFixer().Run(ctx, root, corpus.ScanOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_MissingRoot(t *testing.T) {
	_, err := newFixer().Run(context.Background(), filepath.Join(t.TempDir(), "missing"), corpus.ScanOptions{})
	assert.True(t, wferrors.IsIO(err))
}
