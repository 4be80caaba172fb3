package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/njfio/issuegraph/pkg/hierarchy"
)

var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	treeOrphanStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

// treeRow is one selectable line in the browser.
type treeRow struct {
	text   string
	orphan bool
}

// TreeModel is the bubbletea model for the interactive tree browser.
// It shows the in-scope tree followed by missing links and orphans, with
// the usual j/k navigation and viewport scrolling.
type TreeModel struct {
	Rows   []treeRow
	Cursor int
	Height int
	Offset int
	root   int
}

// NewTreeModel creates a tree browser over an extracted graph document.
func NewTreeModel(d *hierarchy.Document) TreeModel {
	rows := make([]treeRow, 0, len(d.Nodes)+len(d.OrphanNodes))
	for _, line := range hierarchy.RenderTreeLines(d) {
		rows = append(rows, treeRow{text: line})
	}
	for _, o := range d.OrphanNodes {
		rows = append(rows, treeRow{
			text:   fmt.Sprintf("#%d %s (%s)", o.Number, o.Title, o.Reason),
			orphan: true,
		})
	}

	return TreeModel{
		Rows:   rows,
		Cursor: 0,
		Height: 15,
		Offset: 0,
		root:   d.RootIssueNumber,
	}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g":
			m.Cursor = 0
			m.Offset = 0
		case "G":
			m.Cursor = len(m.Rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Issue Hierarchy · #%d", m.root)))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  g/G jump  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}
	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]

		style := treeNormalStyle
		if row.orphan {
			style = treeOrphanStyle
		}
		if i == m.Cursor {
			style = treeSelectedStyle
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		b.WriteString(cursor + style.Render(row.text) + "\n")
	}

	if len(m.Rows) > m.Height {
		b.WriteString("\n")
		b.WriteString(treeDimStyle.Render(fmt.Sprintf("%d/%d", m.Cursor+1, len(m.Rows))))
	}

	return b.String()
}
