package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jun/drivepicker/internal/schema"
)

func sampleDocs() []schema.Document {
	return []schema.Document{
		{ID: "1", Name: "Roadmap", Type: "document"},
		{ID: "2", Name: "Budget", Type: "spreadsheet", LastEditedUTC: 1767225600000},
		{ID: "3", Name: "Logo", Type: "photo"},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func isQuit(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestNewModel(t *testing.T) {
	m := NewModel("Drive", sampleDocs(), false, nil)

	require.NotNil(t, m.styles)
	assert.Nil(t, m.Init())
	assert.Equal(t, 0, m.Cursor())
	assert.False(t, m.Finished())
	assert.True(t, m.Selection().Cancelled)
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel("Drive", sampleDocs(), false, nil)

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.Cursor())
	press(m, runes("j"), runes("j"))
	assert.Equal(t, 2, m.Cursor(), "cursor stops at the last row")
	press(m, runes("k"))
	assert.Equal(t, 1, m.Cursor())
	press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor(), "cursor stops at the first row")
	press(m, runes("G"))
	assert.Equal(t, 2, m.Cursor())
	press(m, runes("g"))
	assert.Equal(t, 0, m.Cursor())
}

func TestModel_SinglePick(t *testing.T) {
	m := NewModel("Drive", sampleDocs(), false, nil)

	cmd := press(m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})

	isQuit(t, cmd)
	sel := m.Selection()
	assert.False(t, sel.Cancelled)
	require.Len(t, sel.Docs, 1)
	assert.Equal(t, "2", sel.Docs[0].ID)
}

func TestModel_SpaceIgnoredWithoutMultiselect(t *testing.T) {
	m := NewModel("Drive", sampleDocs(), false, nil)

	press(m, tea.KeyMsg{Type: tea.KeySpace}, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Len(t, m.Selection().Docs, 1)
}

func TestModel_MultiPick(t *testing.T) {
	m := NewModel("Drive", sampleDocs(), true, nil)

	press(m,
		tea.KeyMsg{Type: tea.KeySpace},
		runes("j"), runes("j"),
		tea.KeyMsg{Type: tea.KeySpace},
	)
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	isQuit(t, cmd)
	sel := m.Selection()
	require.Len(t, sel.Docs, 2)
	assert.Equal(t, "1", sel.Docs[0].ID)
	assert.Equal(t, "3", sel.Docs[1].ID)
}

func TestModel_MultiPickToggleOff(t *testing.T) {
	m := NewModel("Drive", sampleDocs(), true, nil)

	press(m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeySpace}, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})

	sel := m.Selection()
	require.Len(t, sel.Docs, 1, "nothing toggled falls back to the highlighted row")
	assert.Equal(t, "2", sel.Docs[0].ID)
}

func TestModel_Cancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
		runes("q"),
	} {
		t.Run(key.String(), func(t *testing.T) {
			m := NewModel("Drive", sampleDocs(), true, nil)
			press(m, tea.KeyMsg{Type: tea.KeySpace})

			isQuit(t, press(m, key))
			assert.True(t, m.Finished())
			sel := m.Selection()
			assert.True(t, sel.Cancelled)
			assert.Empty(t, sel.Docs)
		})
	}
}

func TestModel_EmptyListEnterCancels(t *testing.T) {
	m := NewModel("Drive", nil, false, nil)

	press(m, runes("j"), tea.KeyMsg{Type: tea.KeySpace})
	isQuit(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.True(t, m.Selection().Cancelled)
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel("Drive", sampleDocs(), false, nil)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestModel_View(t *testing.T) {
	m := NewModel("Google Drive: DOCS", sampleDocs(), true, nil)
	press(m, tea.KeyMsg{Type: tea.KeySpace})

	view := m.View()

	assert.Contains(t, view, "Google Drive: DOCS (3)")
	assert.Contains(t, view, "Roadmap")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "2026-01-01")
	assert.Contains(t, view, "space toggle")
}

func TestModel_ViewEmpty(t *testing.T) {
	m := NewModel("Drive", nil, false, nil)
	assert.Contains(t, m.View(), "No matching files")
}

func TestModel_ViewScrollsToCursor(t *testing.T) {
	docs := make([]schema.Document, 30)
	for i := range docs {
		docs[i] = schema.Document{ID: fmt.Sprint(i), Name: fmt.Sprintf("file-%02d", i)}
	}
	docs[29].Name = "last-one"
	m := NewModel("Drive", docs, false, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})

	press(m, runes("G"))

	assert.Contains(t, m.View(), "last-one")
	assert.NotContains(t, m.View(), "file-00")
}

func TestModel_ViewBlankWhenFinished(t *testing.T) {
	m := NewModel("Drive", sampleDocs(), false, nil)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.View())
}
