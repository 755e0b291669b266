// Package report prints the human-readable run summaries.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"

	"github.com/caphetech/wfcatalog/internal/index"
	"github.com/caphetech/wfcatalog/internal/validate"
)

// TopN is how many tags and integrations the index summary lists.
const TopN = 10

var (
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func rule(w io.Writer) {
	fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("=", 60)))
}

func banner(w io.Writer, title string) {
	fmt.Fprintln(w)
	rule(w)
	fmt.Fprintln(w, titleStyle.Render(title))
	rule(w)
}

func heading(w io.Writer, text string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render(text))
}

// newTable returns a table printing to w with styled headers.
func newTable(w io.Writer, headers ...interface{}) table.Table {
	return table.New(headers...).
		WithWriter(w).
		WithPadding(2).
		WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return headerStyle.Render(fmt.Sprintf(format, vals...))
		})
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

// Index prints the collector summary. uniqueTags is the distinct tag count
// before the popular-tags cap.
func Index(w io.Writer, idx *index.Index, uniqueTags int) {
	banner(w, "WORKFLOW INDEX GENERATED")

	fmt.Fprintf(w, "\nTotal Workflows: %d\n", idx.TotalWorkflows)
	fmt.Fprintf(w, "Categories:      %d\n", len(idx.Categories))
	fmt.Fprintf(w, "Unique Tags:     %d\n", uniqueTags)
	fmt.Fprintf(w, "Integrations:    %d\n", len(idx.Integrations))

	if len(idx.Categories) > 0 {
		heading(w, "Workflows by Category")
		tbl := newTable(w, "Category", "Subcategory", "Workflows")
		for _, cat := range idx.Categories {
			tbl.AddRow(cat.Name, "", cat.Count)
			for _, sub := range cat.Subcategories {
				tbl.AddRow("", "└─ "+sub.Name, sub.Count)
			}
		}
		tbl.Print()
	}

	heading(w, "Workflows by Difficulty")
	d := idx.Difficulties
	tbl := newTable(w, "Difficulty", "Workflows", "Share")
	tbl.AddRow("Beginner", d.Beginner, percent(d.Beginner, idx.TotalWorkflows))
	tbl.AddRow("Intermediate", d.Intermediate, percent(d.Intermediate, idx.TotalWorkflows))
	tbl.AddRow("Advanced", d.Advanced, percent(d.Advanced, idx.TotalWorkflows))
	tbl.Print()

	if len(idx.PopularTags) > 0 {
		heading(w, fmt.Sprintf("Top %d Tags", TopN))
		tbl := newTable(w, "#", "Tag", "Count")
		for i, tag := range idx.PopularTags {
			if i == TopN {
				break
			}
			tbl.AddRow(i+1, tag.Tag, tag.Count)
		}
		tbl.Print()
	}

	if len(idx.Integrations) > 0 {
		heading(w, fmt.Sprintf("Top %d Integrations", TopN))
		tbl := newTable(w, "#", "Integration", "Count")
		for i, in := range idx.Integrations {
			if i == TopN {
				break
			}
			tbl.AddRow(i+1, in.Name, in.Count)
		}
		tbl.Print()
	}

	fmt.Fprintln(w)
	rule(w)
}

// Outputs prints where the index files were written.
func Outputs(w io.Writer, paths ...string) {
	for _, p := range paths {
		fmt.Fprintf(w, "Saved %s\n", p)
	}
}

// Validation prints the validator summary and issue lists.
func Validation(w io.Writer, r *validate.Report) {
	banner(w, "VALIDATION RESULTS")

	s := r.Stats
	fmt.Fprintln(w)
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("Valid Files:   %d/%d", s.Valid, s.Total)))
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Invalid Files: %d/%d", s.Invalid, s.Total)))
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Warnings:      %d", len(r.Warnings))))
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Errors:        %d", len(r.Errors))))

	if keys := s.ByCategory.Keys(); len(keys) > 0 {
		heading(w, "By Category")
		tbl := newTable(w, "Category", "Workflows")
		for _, k := range keys {
			tbl.AddRow(k, s.ByCategory.Get(k))
		}
		tbl.Print()
	}

	if keys := s.ByDifficulty.Keys(); len(keys) > 0 {
		heading(w, "By Difficulty")
		tbl := newTable(w, "Difficulty", "Workflows")
		for _, k := range keys {
			tbl.AddRow(k, s.ByDifficulty.Get(k))
		}
		tbl.Print()
	}

	fmt.Fprintf(w, "\nTotal Integrations: %d unique services\n", s.TotalIntegrations)
	fmt.Fprintf(w, "Average Tags per Workflow: %.1f\n", s.AverageTags)

	if len(r.Errors) > 0 {
		banner(w, "ERRORS (MUST FIX)")
		for _, issue := range r.Errors {
			fmt.Fprintln(w, "  "+errorStyle.Render("✗ "+issue.String()))
		}
	}

	if len(r.Warnings) > 0 {
		banner(w, "WARNINGS (SHOULD FIX)")
		for _, issue := range r.Warnings {
			fmt.Fprintln(w, "  "+warnStyle.Render("! "+issue.String()))
		}
	}

	fmt.Fprintln(w)
	rule(w)
	if r.Passed() {
		fmt.Fprintln(w, okStyle.Render("All metadata files passed validation!"))
	} else {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Found %d errors that must be fixed", len(r.Errors))))
	}
	rule(w)
}
