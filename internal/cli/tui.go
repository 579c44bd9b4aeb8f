package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/layermerge/pkg/pipeline"
)

// Pane styles
var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	paneFocusedStyle = paneStyle.BorderForeground(colorCyan)
	paneTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Before/after outline browser
// =============================================================================

// pane is one scrollable outline.
type pane struct {
	title  string
	lines  []string
	offset int
}

func (p *pane) scroll(delta, height int) {
	p.offset = max(0, min(p.offset+delta, len(p.lines)-height))
}

// InspectModel is the bubbletea model that shows a tree before and after a
// flatten pass side by side.
type InspectModel struct {
	Panes  [2]pane
	Focus  int
	Synced bool
	Status string
	Width  int
	Height int // visible outline lines per pane
}

// NewInspectModel creates a model from two outlines and the pass result.
func NewInspectModel(before, after []string, res *pipeline.Result) InspectModel {
	return InspectModel{
		Panes: [2]pane{
			{title: fmt.Sprintf("Before · %d containers · %d leaves", res.Report.Shape.Containers, res.Report.Shape.Leaves), lines: before},
			{title: fmt.Sprintf("After · %d containers · %d leaves", res.Shape.Containers, res.Shape.Leaves), lines: after},
		},
		Synced: true,
		Status: resultLine(res),
		Width:  120,
		Height: 20,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "left", "right", "h", "l":
			m.Focus = 1 - m.Focus
		case "s":
			m.Synced = !m.Synced
		case "up", "k":
			m.scroll(-1)
		case "down", "j":
			m.scroll(1)
		case "pgup", "b":
			m.scroll(-m.Height)
		case "pgdown", "f", " ":
			m.scroll(m.Height)
		case "g", "home":
			m.scroll(-maxLines(m.Panes))
		case "G", "end":
			m.scroll(maxLines(m.Panes))
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = max(msg.Height-7, 5)
		for i := range m.Panes {
			m.Panes[i].scroll(0, m.Height)
		}
	}
	return m, nil
}

func (m *InspectModel) scroll(delta int) {
	if m.Synced {
		for i := range m.Panes {
			m.Panes[i].scroll(delta, m.Height)
		}
		return
	}
	m.Panes[m.Focus].scroll(delta, m.Height)
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  tab switch  s sync  q quit"))
	b.WriteString("\n")

	width := max(m.Width/2-2, 20)
	views := make([]string, len(m.Panes))
	for i, p := range m.Panes {
		style := paneStyle
		if i == m.Focus {
			style = paneFocusedStyle
		}
		end := min(p.offset+m.Height, len(p.lines))
		body := strings.Join(p.lines[p.offset:end], "\n")
		pad := m.Height - (end - p.offset)
		if pad > 0 {
			body += strings.Repeat("\n", pad)
		}
		views[i] = style.Width(width).Render(paneTitleStyle.Render(p.title) + "\n" + body)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, views...))
	b.WriteString("\n")
	b.WriteString(m.Status)
	if m.Synced {
		b.WriteString(listDimStyle.Render("  [synced]"))
	}

	return b.String()
}

func maxLines(panes [2]pane) int {
	return max(len(panes[0].lines), len(panes[1].lines))
}
