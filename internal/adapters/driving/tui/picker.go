// Package tui provides the interactive terminal picker used when a keyword
// matches several repositories.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driving/tui/keymap"
	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driving/tui/styles"
	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
)

// ErrNotInteractive is returned when the picker has no terminal to run in.
var ErrNotInteractive = errors.New("tui: not an interactive terminal")

const (
	defaultWidth = 80
	maxHeight    = 24
)

// Picker asks the person at the terminal to choose a repository.
type Picker struct {
	in     io.Reader
	out    io.Writer
	styles *styles.Styles
	keys   *keymap.KeyMap
}

var _ driven.Chooser = (*Picker)(nil)

// NewPicker creates a picker reading keys from in and drawing on out.
// Drawing on stderr keeps stdout free for command output.
func NewPicker(in io.Reader, out io.Writer) *Picker {
	return &Picker{
		in:     in,
		out:    out,
		styles: styles.DefaultStyles(),
		keys:   keymap.DefaultKeyMap(),
	}
}

// IsInteractive reports whether both files are terminals.
func IsInteractive(in, out *os.File) bool {
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// Choose runs the picker until a repository is selected or the picker is
// dismissed.
func (p *Picker) Choose(ctx context.Context, keyword string, candidates []domain.SearchResult) (string, bool, error) {
	if len(candidates) == 0 {
		return "", false, nil
	}

	m := newModel(keyword, candidates, p.styles, p.keys)
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		return "", false, fmt.Errorf("running picker: %w", err)
	}

	fm, ok := final.(model)
	if !ok || fm.choice == "" {
		return "", false, nil
	}
	return fm.choice, true, nil
}

// item is one repository in the list.
type item struct {
	result domain.SearchResult
	styles *styles.Styles
}

func (i item) Title() string {
	return i.result.FullName() + "  " + i.styles.Stars.Render(domain.FormatStars(i.result.Stars)+"★")
}

func (i item) Description() string {
	if i.result.Description == "" {
		return "No description"
	}
	return i.result.Description
}

func (i item) FilterValue() string {
	return i.result.FullName()
}

// model is the bubbletea model behind the picker.
type model struct {
	list   list.Model
	keys   *keymap.KeyMap
	choice string
	done   bool
}

func newModel(keyword string, candidates []domain.SearchResult, s *styles.Styles, keys *keymap.KeyMap) model {
	items := make([]list.Item, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, item{result: c, styles: s})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.SelectedTitle
	delegate.Styles.SelectedDesc = s.SelectedDesc

	height := len(items)*3 + 6
	if height > maxHeight {
		height = maxHeight
	}

	l := list.New(items, delegate, defaultWidth, height)
	l.Title = fmt.Sprintf("Multiple repositories match %q", keyword)
	l.Styles.Title = s.Title
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = keys.ShortHelp

	return model{list: l, keys: keys}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 1
		if height > maxHeight {
			height = maxHeight
		}
		m.list.SetSize(msg.Width, height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.done = true
			return m, tea.Quit
		}
		// Keys belong to the filter while one is being typed or shown.
		if m.list.FilterState() != list.Unfiltered && !key.Matches(msg, m.keys.Select) {
			break
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Select):
			if it, ok := m.list.SelectedItem().(item); ok {
				m.choice = it.result.FullName()
			}
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done {
		return ""
	}
	return lipgloss.NewStyle().Margin(1, 2).Render(m.list.View())
}
