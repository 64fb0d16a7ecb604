// Package tui implements the interactive terminal front end: the
// multi-select repository list and the typed delete confirmation. The core
// packages never import it; it drives the selection session and hands the
// confirmed set back to the caller.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naka-gawa/repo-sweeper/internal/domain"
	"github.com/naka-gawa/repo-sweeper/internal/usecase"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(1, 0)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(1, 0)

	markedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")) // Red - slated for deletion

	privateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")) // Yellow

	archivedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// repoItem implements list.Item for one catalog entry.
type repoItem struct {
	repo  domain.Repository
	score float64
}

// FilterValue implements list.Item.
func (i repoItem) FilterValue() string {
	return i.repo.FullName
}

// repoDelegate renders catalog entries with their selection checkbox and
// metadata. It reads selection state live from the session so toggles show
// up without rebuilding items.
type repoDelegate struct {
	session *usecase.SelectionSession
}

// Height implements list.ItemDelegate.
func (d repoDelegate) Height() int {
	return 2 // Two lines per item (name + metadata)
}

// Spacing implements list.ItemDelegate.
func (d repoDelegate) Spacing() int {
	return 0
}

// Update implements list.ItemDelegate.
func (d repoDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render implements list.ItemDelegate.
func (d repoDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(repoItem)
	if !ok {
		return
	}
	repo := item.repo

	cursor := " "
	if index == m.Index() {
		cursor = ">"
	}
	checkbox := "[ ]"
	if d.session.Selected(repo.ID()) {
		checkbox = markedStyle.Render("[x]")
	}

	line1 := fmt.Sprintf("%s %s %s", cursor, checkbox, repo.FullName)
	line1 = normalStyle.Render(line1)
	switch repo.Visibility {
	case domain.VisibilityPublic:
	default:
		line1 += " " + privateStyle.Render("["+repo.Visibility+"]")
	}
	if repo.Fork {
		line1 += " " + dimStyle.Render("(fork)")
	}
	if repo.Archived {
		line1 += " " + archivedStyle.Render("(archived)")
	}

	meta := fmt.Sprintf("★%d  %s", repo.Stars, repo.DefaultBranch)
	if pushed := formatRelativeTime(repo.PushedAt); pushed != "" {
		meta += "  pushed " + pushed
	}
	if item.score > 0 {
		meta += fmt.Sprintf("  staleness %.2f", item.score)
	}
	line2 := dimStyle.Render("      " + meta)

	fmt.Fprint(w, line1+"\n"+line2)
}

// Picker is the Bubble Tea component for marking repositories to delete.
type Picker struct {
	list    list.Model
	session *usecase.SelectionSession
	err     error

	// Result fields - set by component, read by the caller after Run
	Confirmed bool
	Aborted   bool
}

// NewPicker builds the picker over the session's catalog. Scores are the
// optional staleness hints keyed by repository id.
func NewPicker(session *usecase.SelectionSession, scores map[string]float64) *Picker {
	records := session.Catalog().Records()
	items := make([]list.Item, len(records))
	for i, repo := range records {
		items[i] = repoItem{repo: repo, score: scores[repo.ID()]}
	}

	l := list.New(items, repoDelegate{session: session}, 80, 28)
	l.SetShowTitle(false) // We render our own title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false) // We render our own help

	return &Picker{
		list:    l,
		session: session,
	}
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetSize(msg.Width, msg.Height-6)
		return p, nil

	case tea.KeyMsg:
		// While filtering, every key belongs to the filter input.
		if p.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			p.list, cmd = p.list.Update(msg)
			return p, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			p.Aborted = true
			return p, tea.Quit

		case " ":
			if item, ok := p.list.SelectedItem().(repoItem); ok {
				if _, err := p.session.Toggle(item.repo.ID()); err != nil {
					// Catalog and list are built from the same snapshot,
					// so this can only be a wiring bug. Treat it as fatal.
					p.err = err
					return p, tea.Quit
				}
			}
			return p, nil

		case "a":
			p.session.SelectAll()
			return p, nil

		case "c":
			p.session.Clear()
			return p, nil

		case "enter":
			if p.session.Count() == 0 {
				return p, nil
			}
			p.Confirmed = true
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

// View implements tea.Model.
func (p *Picker) View() string {
	title := titleStyle.Render(fmt.Sprintf("Select repositories to delete (%d/%d marked)",
		p.session.Count(), p.session.Catalog().Len()))
	help := helpStyle.Render("space toggle • a all • c none • / filter • enter confirm • q quit")
	return title + "\n" + p.list.View() + "\n" + help
}

// Err reports a fatal selection error encountered while running.
func (p *Picker) Err() error {
	return p.err
}

// Run drives the picker to completion and reports whether the user asked
// to proceed with the current selection. A quit without confirmation is a
// clean abort, not an error.
func Run(session *usecase.SelectionSession, scores map[string]float64) (bool, error) {
	picker := NewPicker(session, scores)
	final, err := tea.NewProgram(picker, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	p, ok := final.(*Picker)
	if !ok {
		return false, fmt.Errorf("unexpected final model %T", final)
	}
	if p.Err() != nil {
		return false, p.Err()
	}
	return p.Confirmed && !p.Aborted, nil
}
