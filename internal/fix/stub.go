package fix

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/caphetech/wfcatalog/internal/corpus"
	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/fsutil"
	"github.com/caphetech/wfcatalog/internal/metadata"
	"github.com/caphetech/wfcatalog/internal/validate"
)

var titler = cases.Title(language.English)

// nodePrefixes are stripped from definition node types.
var nodePrefixes = []string{
	"n8n-nodes-base.",
	"@n8n/n8n-nodes-langchain.",
}

// coreNodes are flow-control nodes that are not integrations.
var coreNodes = map[string]bool{
	"start":            true,
	"manualTrigger":    true,
	"scheduleTrigger":  true,
	"cron":             true,
	"webhook":          true,
	"respondToWebhook": true,
	"set":              true,
	"if":               true,
	"switch":           true,
	"merge":            true,
	"code":             true,
	"function":         true,
	"functionItem":     true,
	"noOp":             true,
	"wait":             true,
	"splitInBatches":   true,
	"stickyNote":       true,
	"httpRequest":      true,
	"executeWorkflow":  true,
}

// definition is the part of a workflow definition the stub reads.
type definition struct {
	Nodes []struct {
		Type string `json:"type"`
	} `json:"nodes"`
}

// createStub writes a metadata document for an orphan definition. The
// definition must be valid JSON.
func (f *Fixer) createStub(def corpus.Definition, today string) error {
	data, err := os.ReadFile(def.Path)
	if err != nil {
		return &wferrors.MetadataError{Op: "read", Path: def.Path, Err: fmt.Errorf("%w: %v", wferrors.ErrIO, err)}
	}

	if !json.Valid(data) {
		return &wferrors.MetadataError{Op: "decode", Path: def.Path, Err: fmt.Errorf("%w: invalid JSON", wferrors.ErrParse)}
	}

	// Definitions that are not node graphs still get a stub.
	var parsed definition
	_ = json.Unmarshal(data, &parsed)

	obj, err := f.stub(def, parsed, today)
	if err != nil {
		return err
	}
	if f.dryRun {
		return nil
	}
	return fsutil.WriteJSON(def.MetadataPath(), obj, true)
}

// stub builds the metadata document for def.
func (f *Fixer) stub(def corpus.Definition, parsed definition, today string) (*metadata.Object, error) {
	stem := def.Stem()
	words := humanize(stem)

	category, subcategory := metadata.DefaultCategory, metadata.DefaultSubcategory
	dirs := def.Dirs()
	if len(dirs) > 0 {
		category = categoryName(dirs[0])
	}
	if len(dirs) > 1 {
		subcategory = titler.String(humanize(dirs[len(dirs)-1]))
	}

	fields := []struct {
		key   string
		value any
	}{
		{"name", titler.String(words)},
		{"description", "Automated workflow for " + words},
		{"category", category},
		{"subcategory", subcategory},
		{"useCase", fmt.Sprintf("Automates %s processes", strings.ToLower(subcategory))},
		{"difficulty", metadata.Intermediate},
		{"estimatedSetupTime", f.setupTime},
		{"requirements", f.requirements},
		{"tags", stubTags(category, subcategory)},
		{"integrations", integrations(parsed)},
		{"triggerType", triggerType(parsed)},
		{"author", metadata.Author{Name: stubAuthorName, URL: stubAuthorURL}},
		{"version", metadata.DefaultVersion},
		{"lastUpdated", today},
	}

	obj := metadata.NewObject()
	for _, field := range fields {
		if err := obj.SetValue(field.key, field.value); err != nil {
			return nil, fmt.Errorf("set %s: %w", field.key, err)
		}
	}
	return obj, nil
}

// categoryName maps a directory name to its standard category, or
// title-cases it when none matches.
func categoryName(dir string) string {
	slug := Slugify(dir)
	for _, c := range validate.Categories {
		if Slugify(c) == slug {
			return c
		}
	}
	return titler.String(humanize(dir))
}

func stubTags(category, subcategory string) []string {
	tags, _ := fixTags([]string{category, subcategory, "automation"})
	return tags
}

func humanize(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	}), " ")
}

// integrations lists the distinct services the definition's nodes talk to.
func integrations(d definition) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, n := range d.Nodes {
		name := n.Type
		for _, p := range nodePrefixes {
			name = strings.TrimPrefix(name, p)
		}
		if coreNodes[name] {
			continue
		}
		name = strings.TrimSuffix(name, "Trigger")
		if name == "" || strings.Contains(name, ".") {
			continue
		}
		label := titler.String(splitCamel(name))
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}

func triggerType(d definition) string {
	for _, n := range d.Nodes {
		t := strings.ToLower(n.Type)
		switch {
		case strings.HasSuffix(t, ".webhook"):
			return "Webhook"
		case strings.HasSuffix(t, ".scheduletrigger"), strings.HasSuffix(t, ".cron"):
			return "Schedule"
		}
	}
	return metadata.DefaultTriggerType
}

// splitCamel turns "googleSheets" into "google Sheets".
func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
