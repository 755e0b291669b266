// Package tui provides Bubble Tea models for terminal UI interactions.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/caphetech/wfcatalog/internal/index"
)

// BrowseModel is the TUI model for browsing the workflow index.
type BrowseModel struct {
	index        *index.Index
	filter       index.SearchOptions
	input        textinput.Model
	results      []index.Record
	selected     int
	scrollOffset int
	quit         bool
	confirmed    bool
	width        int
	height       int

	titleStyle    lipgloss.Style
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	detailStyle   lipgloss.Style
	labelStyle    lipgloss.Style
	mutedStyle    lipgloss.Style
}

// NewBrowse creates a browse model over idx. filter supplies the category,
// difficulty, tag and integration filters; its Query seeds the input.
func NewBrowse(idx *index.Index, filter index.SearchOptions) BrowseModel {
	ti := textinput.New()
	ti.Placeholder = "Search workflows..."
	ti.Prompt = "/ "
	ti.SetValue(filter.Query)
	ti.Focus()

	filter.Limit = -1

	m := BrowseModel{
		index:  idx,
		filter: filter,
		input:  ti,
		width:  100,
		height: 30,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")),
		selectedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("59")).
			Padding(0, 1),
		detailStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true),
		mutedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit

		case "enter":
			if len(m.results) > 0 {
				m.confirmed = true
			}
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
				m.updateScrollOffset()
			}
			return m, nil

		case "down", "ctrl+n":
			if m.selected < len(m.results)-1 {
				m.selected++
				m.updateScrollOffset()
			}
			return m, nil

		case "home":
			m.selected = 0
			m.scrollOffset = 0
			return m, nil

		case "end":
			if len(m.results) > 0 {
				m.selected = len(m.results) - 1
				m.updateScrollOffset()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScrollOffset()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// refresh reruns the search for the current query and resets the cursor.
func (m *BrowseModel) refresh() {
	m.filter.Query = m.input.Value()
	m.results = index.Search(m.index, m.filter)
	m.selected = 0
	m.scrollOffset = 0
}

// updateScrollOffset updates the scroll offset to keep the selected item visible.
func (m *BrowseModel) updateScrollOffset() {
	maxVisible := m.maxVisibleItems()
	if m.selected < m.scrollOffset {
		m.scrollOffset = m.selected
	} else if m.selected >= m.scrollOffset+maxVisible {
		m.scrollOffset = m.selected - maxVisible + 1
	}
}

// maxVisibleItems returns the maximum number of visible items.
func (m *BrowseModel) maxVisibleItems() int {
	// Reserve space for header (2), search bar (2), footer (2), padding (2)
	if n := m.height - 8; n > 0 {
		return n
	}
	return 1
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Workflow catalog"))
	b.WriteString("  ")
	b.WriteString(m.mutedStyle.Render(fmt.Sprintf("%d of %d", len(m.results), m.total())))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	listWidth := m.width / 2
	list := lipgloss.NewStyle().Width(listWidth).Render(m.renderResults(listWidth))
	detail := m.renderDetail(m.width - listWidth - 4)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, detail))
	b.WriteString("\n")

	b.WriteString(m.mutedStyle.Render("type to filter • ↑/↓: move • enter: select • esc: quit"))
	return b.String()
}

func (m BrowseModel) total() int {
	if m.index == nil {
		return 0
	}
	return len(m.index.Workflows)
}

// renderResults renders the visible slice of the results list.
func (m BrowseModel) renderResults(width int) string {
	if len(m.results) == 0 {
		return m.mutedStyle.Render("No results found.")
	}

	end := m.scrollOffset + m.maxVisibleItems()
	if end > len(m.results) {
		end = len(m.results)
	}

	var b strings.Builder
	for i := m.scrollOffset; i < end; i++ {
		rec := m.results[i]
		name := rec.Name
		if name == "" {
			name = rec.ID
		}
		if width > 6 && lipgloss.Width(name) > width-4 {
			name = truncate(name, width-5) + "…"
		}

		if i == m.selected {
			b.WriteString(m.selectedStyle.Render(name))
		} else {
			b.WriteString(m.normalStyle.Render("  " + name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderDetail renders the detail pane for the selected record.
func (m BrowseModel) renderDetail(width int) string {
	rec := m.Selected()
	if rec == nil {
		return ""
	}

	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return m.labelStyle.Render(label+": ") + value
	}

	lines := []string{
		m.titleStyle.Render(rec.Name),
		"",
		row("Category", rec.Category+" / "+rec.Subcategory),
		row("Difficulty", rec.Difficulty),
		row("Trigger", rec.TriggerType),
		row("Setup", rec.SetupTime),
		row("Cost", rec.Cost),
		row("Tags", strings.Join(rec.Tags, ", ")),
		row("Integrations", strings.Join(rec.Integrations, ", ")),
		row("Version", rec.Version+" by "+rec.Author.String()),
		row("Updated", rec.LastUpdated),
		row("File", rec.FileURL),
		"",
		rec.UseCase,
	}

	style := m.detailStyle
	if width > 10 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// DidQuit returns true if the user quit without selecting.
func (m BrowseModel) DidQuit() bool {
	return m.quit
}

// DidConfirm returns true if the user confirmed a selection.
func (m BrowseModel) DidConfirm() bool {
	return m.confirmed
}

// Results returns the current results.
func (m BrowseModel) Results() []index.Record {
	return m.results
}

// Selected returns the highlighted record, or nil when there are no results.
func (m BrowseModel) Selected() *index.Record {
	if len(m.results) == 0 || m.selected < 0 || m.selected >= len(m.results) {
		return nil
	}
	return &m.results[m.selected]
}
