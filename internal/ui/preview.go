package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/corpeningc/unconflict/internal/conflict"
)

// PreviewModel pages through a file with each conflict region annotated:
// resolved regions show the removed block and the replacement, unresolved
// regions are highlighted in place.
type PreviewModel struct {
	path     string
	original []string
	result   conflict.Result
	viewport viewport.Model
	ready    bool

	titleStyle   lipgloss.Style
	addedStyle   lipgloss.Style
	removedStyle lipgloss.Style
	keptStyle    lipgloss.Style
	contextStyle lipgloss.Style
	helpStyle    lipgloss.Style
}

func NewPreviewModel(path string, original []string, result conflict.Result) PreviewModel {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()

	return PreviewModel{
		path:     path,
		original: original,
		result:   result,
		viewport: vp,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),

		addedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),

		removedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		keptStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight)
			m.viewport.Style = lipgloss.NewStyle()
			m.viewport.SetContent(m.render())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "d", "ctrl+d":
			m.viewport.HalfPageDown()
		case "u", "ctrl+u":
			m.viewport.HalfPageUp()
		case "f", "pgdn":
			m.viewport.PageDown()
		case "b", "pgup":
			m.viewport.PageUp()
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m PreviewModel) View() string {
	if !m.ready {
		return "Loading preview..."
	}

	title := m.titleStyle.Render(fmt.Sprintf("Preview - %s (%s)", m.path, m.result.Summary()))
	help := m.helpStyle.Render("j/k: line by line | d/u: half page | f/b: full page | g/G: top/bottom | q: close")

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), help)
}

// render lays out the original file with numbered lines. Lines of resolved
// regions are prefixed "-" and their replacement "+"; unresolved regions
// are prefixed "!".
func (m PreviewModel) render() string {
	if len(m.result.Outcomes) == 0 {
		return m.contextStyle.Render("No conflicts in this file.")
	}

	width := len(fmt.Sprint(len(m.original)))
	var b strings.Builder
	line := func(n int, mark string, text string, style lipgloss.Style) {
		num := strings.Repeat(" ", width)
		if n > 0 {
			num = fmt.Sprintf("%*d", width, n)
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s %s", num, mark, text)))
		b.WriteByte('\n')
	}

	pos := 0
	for _, o := range m.result.Outcomes {
		for ; pos < o.Region.Start; pos++ {
			line(pos+1, " ", m.original[pos], m.contextStyle)
		}
		style, mark := m.keptStyle, "!"
		if o.Resolvable {
			style, mark = m.removedStyle, "-"
		}
		for ; pos <= o.Region.End; pos++ {
			line(pos+1, mark, m.original[pos], style)
		}
		for _, r := range o.Replacement {
			line(0, "+", r, m.addedStyle)
		}
	}
	for ; pos < len(m.original); pos++ {
		line(pos+1, " ", m.original[pos], m.contextStyle)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// ShowPreview runs the pager until the user closes it.
func ShowPreview(path string, original []string, result conflict.Result) error {
	m := NewPreviewModel(path, original, result)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
