package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"txlens/internal/compare"
	"txlens/internal/report"
	"txlens/internal/stats"
)

// runItem adapts a report.Run to the bubbles list item interface.
type runItem struct {
	run report.Run
}

func (i runItem) Title() string { return i.run.Label() }

func (i runItem) Description() string {
	return fmt.Sprintf("achieved %.2f tps | drop %.2f%% | %s | %s",
		i.run.AchievedTPS, i.run.DropRate*100,
		stats.FormatDuration(i.run.DurationSec), i.run.ID)
}

func (i runItem) FilterValue() string {
	return i.run.WorkloadName + " " + i.run.ID
}

// BrowseModel is the Bubble Tea model for interactive run browsing:
// a filterable run list, a detail view and an in-place comparison view.
type BrowseModel struct {
	list       list.Model
	viewport   viewport.Model
	repo       *report.Repository
	thresholds compare.Thresholds
	noteT      compare.NoteThresholds

	viewing bool
	status  string

	width  int
	height int
}

// NewBrowseModel builds the browser over a loaded repository snapshot.
func NewBrowseModel(repo *report.Repository, thresholds compare.Thresholds, noteT compare.NoteThresholds) BrowseModel {
	items := make([]list.Item, 0, len(repo.Runs))
	for _, r := range repo.Runs {
		items = append(items, runItem{run: r})
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = fmt.Sprintf("Runs in %s", repo.Dir)
	l.SetShowHelp(true)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
			key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compare")),
		}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run detail")),
			key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compare vs prior runs (by name)")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
		}
	}

	return BrowseModel{
		list:       l,
		viewport:   viewport.New(0, 0),
		repo:       repo,
		thresholds: thresholds,
		noteT:      noteT,
	}
}

func (m BrowseModel) Init() tea.Cmd { return nil }

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if m.viewing {
				m.viewing = false
				m.status = ""
				return m, nil
			}
		case "enter":
			if !m.viewing {
				if item, ok := m.list.SelectedItem().(runItem); ok {
					m.showDetail(item.run)
				}
				return m, nil
			}
		case "c":
			if !m.viewing {
				if item, ok := m.list.SelectedItem().(runItem); ok {
					m.showComparison(item.run)
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.viewing {
		m.viewport, cmd = m.viewport.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *BrowseModel) showDetail(r report.Run) {
	m.viewing = true
	m.status = "Run detail"
	m.viewport.SetContent(DetailText(r) + "\n" + StatsTable(r))
	m.viewport.GotoTop()
}

func (m *BrowseModel) showComparison(r report.Run) {
	set, err := compare.Match(m.repo, r.ID, compare.MatchByName)
	if err != nil {
		m.status = "Comparison failed"
		m.viewport.SetContent(err.Error())
		m.viewing = true
		return
	}
	m.viewing = true
	if len(set.Candidates) == 0 {
		m.status = "No comparable runs"
		m.viewport.SetContent(fmt.Sprintf("No prior runs share workload %q.", r.WorkloadName))
		m.viewport.GotoTop()
		return
	}
	results := compare.Compare(set, m.thresholds)
	m.status = fmt.Sprintf("Comparing %s against %d runs", r.ID, len(set.Candidates))
	m.viewport.SetContent(CompareTable(set, results, m.noteT, ""))
	m.viewport.GotoTop()
}

func (m BrowseModel) View() string {
	if m.viewing {
		return Title(m.status) + "\n" + m.viewport.View() + "\n" + Dim("esc: back  q: quit")
	}
	return m.list.View()
}
