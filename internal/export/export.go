// Package export renders index records with template support.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/caphetech/wfcatalog/internal/fsutil"
	"github.com/caphetech/wfcatalog/internal/index"
)

// Format represents the export format.
type Format string

const (
	// FormatMarkdown exports as Markdown.
	FormatMarkdown Format = "md"
	// FormatYAML exports as YAML.
	FormatYAML Format = "yaml"
	// FormatJSON exports as JSON.
	FormatJSON Format = "json"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Exporter renders records in one format.
type Exporter struct {
	format   Format
	outPath  string
	template *template.Template
}

// Options contains export options.
type Options struct {
	Format Format
	// Out is the output file; empty or "-" means the caller prints.
	Out string
	// CustomTemplate is a text/template file used instead of the built-in
	// rendering for any format.
	CustomTemplate string
	// Root resolves a relative CustomTemplate under <root>/.wfcatalog/templates.
	Root string
}

// NewExporter creates a new exporter.
func NewExporter(opts Options) (*Exporter, error) {
	switch opts.Format {
	case FormatMarkdown, FormatYAML, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}

	e := &Exporter{
		format:  opts.Format,
		outPath: opts.Out,
	}

	switch {
	case opts.CustomTemplate != "":
		tmpl, err := parseTemplateFile(resolveTemplate(opts.CustomTemplate, opts.Root))
		if err != nil {
			return nil, err
		}
		e.template = tmpl
	case opts.Format == FormatMarkdown:
		e.template = template.Must(template.New("export").Parse(builtinMarkdownTemplate))
	}

	return e, nil
}

// resolveTemplate looks a relative template name up in the project
// templates directory, then the user config directory.
func resolveTemplate(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}

	candidates := []string{}
	if root != "" {
		candidates = append(candidates, filepath.Join(root, ".wfcatalog", "templates", filepath.Base(path)))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "wfcatalog", "templates", filepath.Base(path)))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return path
}

func parseTemplateFile(path string) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}
	tmpl, err := template.New("export").Funcs(funcs).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing template file: %w", err)
	}
	return tmpl, nil
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// Export renders rec and, when an output path is set, writes it there.
func (e *Exporter) Export(rec index.Record) (string, error) {
	output, err := e.render(rec)
	if err != nil {
		return "", err
	}

	if e.outPath != "" && e.outPath != "-" {
		if err := fsutil.WriteFileAtomic(e.outPath, []byte(output), 0o644); err != nil {
			return "", fmt.Errorf("writing output file: %w", err)
		}
	}

	return output, nil
}

func (e *Exporter) render(rec index.Record) (string, error) {
	if e.template != nil {
		var buf bytes.Buffer
		if err := e.template.Execute(&buf, templateData(rec)); err != nil {
			return "", fmt.Errorf("executing template: %w", err)
		}
		return buf.String(), nil
	}

	switch e.format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(ToDocument(rec)); err != nil {
			return "", fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.String(), nil
	default:
		data, err := fsutil.EncodeJSON(rec, true)
		if err != nil {
			return "", fmt.Errorf("encoding json: %w", err)
		}
		return string(data) + "\n", nil
	}
}

// Document is the YAML shape of a record.
type Document struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	Category     string   `yaml:"category"`
	Subcategory  string   `yaml:"subcategory"`
	Difficulty   string   `yaml:"difficulty"`
	Tags         []string `yaml:"tags,omitempty"`
	Integrations []string `yaml:"integrations,omitempty"`
	TriggerType  string   `yaml:"trigger_type"`
	SetupTime    string   `yaml:"setup_time"`
	Cost         string   `yaml:"cost"`
	Version      string   `yaml:"version"`
	Author       string   `yaml:"author"`
	AuthorURL    string   `yaml:"author_url,omitempty"`
	LastUpdated  string   `yaml:"last_updated"`
	FileURL      string   `yaml:"file_url"`
	MetadataURL  string   `yaml:"metadata_url"`
	UseCase      string   `yaml:"use_case,omitempty"`
	Features     []string `yaml:"features,omitempty"`
	Requirements []string `yaml:"requirements,omitempty"`
}

// ToDocument converts a record to its YAML shape.
func ToDocument(r index.Record) Document {
	return Document{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Subcategory:  r.Subcategory,
		Difficulty:   r.Difficulty,
		Tags:         r.Tags,
		Integrations: r.Integrations,
		TriggerType:  r.TriggerType,
		SetupTime:    r.SetupTime,
		Cost:         r.Cost,
		Version:      r.Version,
		Author:       r.Author.String(),
		AuthorURL:    r.Author.URL,
		LastUpdated:  r.LastUpdated,
		FileURL:      r.FileURL,
		MetadataURL:  r.MetadataURL,
		UseCase:      r.UseCase,
		Features:     r.Features,
		Requirements: r.Requirements,
	}
}

// templateData exposes a record to templates.
func templateData(r index.Record) map[string]interface{} {
	return map[string]interface{}{
		"ID":                 r.ID,
		"Name":               r.Name,
		"Description":        r.Description,
		"Category":           r.Category,
		"Subcategory":        r.Subcategory,
		"Difficulty":         r.Difficulty,
		"Tags":               r.Tags,
		"TagsString":         strings.Join(r.Tags, ", "),
		"Integrations":       r.Integrations,
		"IntegrationsString": strings.Join(r.Integrations, ", "),
		"TriggerType":        r.TriggerType,
		"SetupTime":          r.SetupTime,
		"Cost":               r.Cost,
		"Version":            r.Version,
		"Author":             r.Author.String(),
		"AuthorURL":          r.Author.URL,
		"LastUpdated":        r.LastUpdated,
		"FileURL":            r.FileURL,
		"MetadataURL":        r.MetadataURL,
		"UseCase":            r.UseCase,
		"Features":           r.Features,
		"Requirements":       r.Requirements,
	}
}

// builtinMarkdownTemplate is the default Markdown template.
const builtinMarkdownTemplate = "# {{.Name}}\n\n" +
	"**ID:** {{.ID}}\n" +
	"**Category:** {{.Category}} / {{.Subcategory}}\n" +
	"**Difficulty:** {{.Difficulty}}\n" +
	"{{if .Tags}}**Tags:** {{.TagsString}}\n{{end}}" +
	"{{if .Integrations}}**Integrations:** {{.IntegrationsString}}\n{{end}}" +
	"\n{{if .Description}}{{.Description}}\n\n{{end}}" +
	"{{if .UseCase}}## Use case\n\n{{.UseCase}}\n\n{{end}}" +
	"{{if .Features}}## Features\n\n{{range .Features}}- {{.}}\n{{end}}\n{{end}}" +
	"{{if .Requirements}}## Requirements\n\n{{range .Requirements}}- {{.}}\n{{end}}\n{{end}}" +
	"## Details\n\n" +
	"- Trigger: {{.TriggerType}}\n" +
	"- Setup time: {{.SetupTime}}\n" +
	"- Estimated cost: {{.Cost}}\n" +
	"- Version: {{.Version}} ({{.LastUpdated}})\n" +
	"- Author: {{.Author}}\n" +
	"- Definition: {{.FileURL}}\n" +
	"\n---\n*Generated by wfcatalog*\n"
