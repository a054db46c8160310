package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/flickergrid/flickergrid/pkg/design"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// SessionListModel - Interactive session selection
// =============================================================================

// SessionEntry is one saved design as shown in the browser.
type SessionEntry struct {
	Name       string
	Text       string
	Patches    int
	Duplicates int
}

// SessionListModel is the bubbletea model for interactive session selection.
type SessionListModel struct {
	Sessions []SessionEntry
	Cursor   int
	Selected *SessionEntry
	Height   int
	Offset   int
}

// NewSessionListModel creates a new session list model.
func NewSessionListModel(entries []SessionEntry) SessionListModel {
	return SessionListModel{Sessions: entries, Height: 15}
}

func (m SessionListModel) Init() tea.Cmd {
	return nil
}

func (m SessionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Sessions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Sessions) == 0 {
				return m, tea.Quit
			}
			entry := m.Sessions[m.Cursor]
			m.Selected = &entry
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SessionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Session"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ print  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Sessions))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Sessions[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		dups := "—"
		if s.Duplicates > 0 {
			dups = strconv.Itoa(s.Duplicates)
		}
		rows = append(rows, []string{cursor, s.Name, strconv.Itoa(s.Patches), dups})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Session", "Patches", "Duplicate ids").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Sessions) {
				return lipgloss.NewStyle()
			}
			s := m.Sessions[idx]
			base := lipgloss.NewStyle()
			if s.Duplicates > 0 && col == 3 {
				base = base.Foreground(colorYellow)
			}
			if idx == m.Cursor {
				if col != 3 || s.Duplicates == 0 {
					base = base.Foreground(colorGreen)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(m.Sessions) > 0 {
		cues := design.Cues(design.Parse(m.Sessions[m.Cursor].Text))
		b.WriteString(listDimStyle.Render("  cues: " + strings.Join(cues, " ")))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Sessions))))

	return b.String()
}
