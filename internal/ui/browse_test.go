package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txlens/internal/compare"
	"txlens/internal/report"
)

func browseRepo() *report.Repository {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	return &report.Repository{
		Dir: "reports",
		Runs: []report.Run{
			uiRun("wA-report-2.json", "wA", start.Add(time.Hour), 90, 0.02),
			uiRun("wA-report-1.json", "wA", start, 100, 0.01),
		},
	}
}

func TestBrowseListView(t *testing.T) {
	m := NewBrowseModel(browseRepo(), nil, compare.DefaultNoteThresholds())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(BrowseModel)

	view := m.View()
	assert.Contains(t, view, "Runs in reports")
	assert.Contains(t, view, "wA")
}

func TestBrowseDetailAndBack(t *testing.T) {
	m := NewBrowseModel(browseRepo(), nil, compare.DefaultNoteThresholds())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(BrowseModel)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(BrowseModel)
	assert.Contains(t, m.View(), "Run detail")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(BrowseModel)
	assert.Contains(t, m.View(), "Runs in reports")
}

func TestBrowseComparison(t *testing.T) {
	m := NewBrowseModel(browseRepo(), nil, compare.DefaultNoteThresholds())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m = updated.(BrowseModel)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(BrowseModel)

	require.True(t, m.viewing)
	assert.Contains(t, m.status, "Comparing")
}

func TestBrowseQuit(t *testing.T) {
	m := NewBrowseModel(browseRepo(), nil, compare.DefaultNoteThresholds())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
