package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/render/shape"
	"github.com/matzehuels/treeflow/pkg/render/styles"
)

// Row styles follow the diagram: hover is green, selection is red.
var (
	listHoverStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listSelectedStyle = lipgloss.NewStyle().Foreground(colorRed)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive tree browser
// =============================================================================

// InspectModel is the bubbletea model behind the inspect command. The
// cursor row is the hovered node; space toggles selection.
type InspectModel struct {
	Nodes     []graph.Node
	Currency  string
	Cursor    int
	Height    int
	Offset    int
	Selected  map[string]bool
	Confirmed bool
}

// NewInspectModel creates a browser over the nodes of g in pre-order.
func NewInspectModel(g *graph.Graph, currency string) InspectModel {
	if currency == "" {
		currency = styles.DefaultCurrency
	}
	return InspectModel{
		Nodes:    g.Nodes,
		Currency: currency,
		Height:   15,
		Selected: make(map[string]bool),
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
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Nodes) > 0 {
				id := m.Nodes[m.Cursor].ID
				if m.Selected[id] {
					delete(m.Selected, id)
				} else {
					m.Selected[id] = true
				}
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// States returns the interaction state of every non-default node: the
// cursor node is hovered and toggled nodes are selected. Selection wins.
func (m InspectModel) States() map[string]string {
	states := make(map[string]string, len(m.Selected)+1)
	if m.Cursor < len(m.Nodes) {
		states[m.Nodes[m.Cursor].ID] = string(shape.StateHover)
	}
	for id := range m.Selected {
		states[id] = string(shape.StateSelected)
	}
	return states
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space select  ⏎ write svg  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if m.Selected[n.ID] {
			mark = "●"
		}
		price := "—"
		if n.HasPrice() {
			price = styles.FormatPrice(m.Currency, *n.Price)
		}
		badge := n.Badge
		if badge == "" {
			badge = "—"
		}
		label := strings.Repeat("  ", n.Depth) + n.Label
		rows = append(rows, []string{cursor, mark, label, string(n.Type), price, badge, n.ID})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Label", "Type", "Price", "Badge", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			switch {
			case m.Selected[m.Nodes[idx].ID]:
				return listSelectedStyle.Bold(idx == m.Cursor)
			case idx == m.Cursor:
				return listHoverStyle
			case col == 6:
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Nodes), len(m.Selected))))

	return b.String()
}
