// Package picker provides an interactive fuzzy layer picker.
//
// The picker lists layers with their icons, filters them as the user types
// and offers to create a new layer when the filter matches none exactly.
package picker

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/bb/internal/ui/styles"
)

// ErrCancelled is returned when the user leaves the picker without choosing.
var ErrCancelled = errors.New("layer selection cancelled")

// maxVisible bounds the number of rows shown at once.
const maxVisible = 10

// Item is one selectable layer.
type Item struct {
	Name   string
	Icon   string
	Scope  string
	Marks  int
	Active bool
}

// itemSource implements fuzzy.Source for items.
type itemSource []Item

func (s itemSource) String(i int) string { return s[i].Name }
func (s itemSource) Len() int            { return len(s) }

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

var (
	titleStyle    = styles.Bold
	filterStyle   = styles.AccentStyle
	selectedStyle = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	matchStyle    = lipgloss.NewStyle().Foreground(styles.Accent).Underline(true)
)

// model is the bubbletea model behind Run.
type model struct {
	title    string
	items    []Item
	filter   string
	filtered []fuzzy.Match
	cursor   int // index into rows(); the create row comes last
	choice   string
	done     bool
	canceled bool
	help     help.Model
}

func newModel(title string, items []Item) model {
	m := model{title: title, items: items, help: help.New()}
	for i, it := range items {
		if it.Active {
			m.cursor = i
		}
	}
	m.applyFilter()
	return m
}

func (m *model) applyFilter() {
	if m.filter == "" {
		m.filtered = make([]fuzzy.Match, len(m.items))
		for i, it := range m.items {
			m.filtered[i] = fuzzy.Match{Str: it.Name, Index: i}
		}
	} else {
		m.filtered = fuzzy.FindFrom(m.filter, itemSource(m.items))
	}
	m.cursor = max(0, min(m.cursor, m.rows()-1))
}

// canCreate reports whether the filter names a layer that does not exist.
func (m model) canCreate() bool {
	name := strings.TrimSpace(m.filter)
	if name == "" {
		return false
	}
	return !slices.ContainsFunc(m.items, func(it Item) bool { return it.Name == name })
}

func (m model) rows() int {
	n := len(m.filtered)
	if m.canCreate() {
		n++
	}
	return n
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kp, keys.Cancel):
		m.canceled = true
		m.done = true
		return m, tea.Quit
	case key.Matches(kp, keys.Select):
		if m.cursor < len(m.filtered) {
			m.choice = m.filtered[m.cursor].Str
		} else if m.canCreate() {
			m.choice = strings.TrimSpace(m.filter)
		} else {
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	case key.Matches(kp, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(kp, keys.Down):
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case kp.String() == "backspace":
		if m.filter != "" {
			r := []rune(m.filter)
			m.filter = string(r[:len(r)-1])
			m.cursor = 0
			m.applyFilter()
		}
	default:
		if kp.Text != "" {
			m.filter += kp.Text
			m.cursor = 0
			m.applyFilter()
		}
	}
	return m, nil
}

func (m model) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString("Filter: " + filterStyle.Render(m.filter) + "\n\n")

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.filtered))

	for i := start; i < end; i++ {
		match := m.filtered[i]
		it := m.items[match.Index]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		icon := styles.LayerStyle(it.Scope).Render(orDefault(it.Icon, " "))
		name := highlightMatches(it.Name, match.MatchedIndexes, i == m.cursor)

		line := fmt.Sprintf("%s%s %s", cursor, icon, name)
		if it.Marks > 0 {
			line += styles.MutedStyle.Render(fmt.Sprintf(" (%d)", it.Marks))
		}
		if it.Active {
			line += styles.MutedStyle.Render(" active")
		}
		b.WriteString(line + "\n")
	}

	if m.canCreate() {
		cursor := "  "
		label := fmt.Sprintf("+ create %q", strings.TrimSpace(m.filter))
		if m.cursor == len(m.filtered) {
			cursor = "> "
			label = selectedStyle.Render(label)
		}
		b.WriteString(cursor + label + "\n")
	} else if len(m.filtered) == 0 {
		b.WriteString(styles.MutedStyle.Render("  No matching layers") + "\n")
	}

	b.WriteString("\n" + m.help.View(keys))
	return tea.NewView(b.String())
}

func highlightMatches(label string, matched []int, selected bool) string {
	base := styles.NormalStyle
	if selected {
		base = selectedStyle
	}
	if len(matched) == 0 {
		return base.Render(label)
	}

	var b strings.Builder
	for i, r := range label {
		if slices.Contains(matched, i) {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Run shows the picker on stderr and returns the chosen layer name.
// Returns ErrCancelled if the user quits.
func Run(title string, items []Item) (string, error) {
	profile := colorprofile.Detect(os.Stderr, os.Environ())

	p := tea.NewProgram(newModel(title, items),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)
	final, err := p.Run()
	if err != nil {
		return "", err
	}

	m := final.(model)
	if m.canceled || m.choice == "" {
		return "", ErrCancelled
	}
	return m.choice, nil
}
