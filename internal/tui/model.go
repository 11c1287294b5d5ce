// Package tui is the terminal selection prompt for the desktop picker.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jun/drivepicker/internal/desktop"
	"github.com/jun/drivepicker/internal/schema"
)

// Model is a navigable list of Drive documents.
type Model struct {
	title       string
	docs        []schema.Document
	multiselect bool
	cursor      int
	chosen      map[int]bool
	styles      *Styles
	width       int
	height      int

	finished  bool
	cancelled bool
}

// NewModel returns a model listing docs. A nil styles uses DefaultStyles.
func NewModel(title string, docs []schema.Document, multiselect bool, s *Styles) *Model {
	if s == nil {
		s = DefaultStyles()
	}
	return &Model{
		title:       title,
		docs:        docs,
		multiselect: multiselect,
		chosen:      make(map[int]bool),
		styles:      s,
		width:       80,
		height:      20,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.docs)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.docs) > 0 {
			m.cursor = len(m.docs) - 1
		}
	case " ":
		if m.multiselect && len(m.docs) > 0 {
			if m.chosen[m.cursor] {
				delete(m.chosen, m.cursor)
			} else {
				m.chosen[m.cursor] = true
			}
		}
	case "enter":
		if len(m.docs) == 0 {
			m.cancelled = true
		}
		m.finished = true
		return tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true
		m.finished = true
		return tea.Quit
	}
	return nil
}

// Cursor returns the highlighted row.
func (m *Model) Cursor() int { return m.cursor }

// Finished reports whether the user confirmed or cancelled.
func (m *Model) Finished() bool { return m.finished }

// Selection returns the user's choice. An unfinished model counts as
// cancelled. Confirming a multiselect list with nothing toggled picks the
// highlighted row.
func (m *Model) Selection() desktop.Selection {
	if !m.finished || m.cancelled {
		return desktop.Selection{Cancelled: true}
	}
	if !m.multiselect || len(m.chosen) == 0 {
		return desktop.Selection{Docs: []schema.Document{m.docs[m.cursor]}}
	}
	docs := make([]schema.Document, 0, len(m.chosen))
	for i := range m.docs {
		if m.chosen[i] {
			docs = append(docs, m.docs[i])
		}
	}
	return desktop.Selection{Docs: docs}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s (%d)", m.title, len(m.docs))))
	b.WriteString("\n")

	if len(m.docs) == 0 {
		b.WriteString(m.styles.Empty.Render("No matching files"))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("esc cancel"))
		return b.String()
	}

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.docs) {
		end = len(m.docs)
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	help := "↑/↓ move • enter pick • esc cancel"
	if m.multiselect {
		help = fmt.Sprintf("↑/↓ move • space toggle • enter pick %d • esc cancel", max(len(m.chosen), 1))
	}
	b.WriteString(m.styles.Help.Render(help))
	return b.String()
}

func (m *Model) renderRow(i int) string {
	doc := m.docs[i]

	indicator := "  "
	if i == m.cursor {
		indicator = "> "
	}
	box := ""
	if m.multiselect {
		box = "[ ] "
		if m.chosen[i] {
			box = "[x] "
		}
	}

	name := doc.Name
	if name == "" {
		name = "(Untitled)"
	}
	maxName := m.width - 30
	if maxName < 10 {
		maxName = 10
	}
	if len(name) > maxName {
		name = name[:maxName-3] + "..."
	}

	meta := m.styles.Muted.Render(fmt.Sprintf("  %-12s %s", doc.Type, edited(doc.LastEditedUTC)))
	label := fmt.Sprintf("%s%s%-*s", indicator, box, maxName, name)
	switch {
	case i == m.cursor:
		label = m.styles.Cursor.Render(label)
	case m.chosen[i]:
		label = m.styles.Chosen.Render(label)
	default:
		label = m.styles.Normal.Render(label)
	}
	return label + meta
}

func edited(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
