package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/drag"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#402579")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	ghostStyle  = lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Foreground(lipgloss.Color("238"))
	cloneStyle  = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("205")).Bold(true)
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (m Model) View() string {
	var b strings.Builder

	title := "kanban"
	if m.snap.Board.ID != "" {
		title = board.DisplayTitle(m.snap.Board.Title, "Board")
	}
	if m.snap.Board.Archived {
		title += " (archived)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	state := m.engine.State()
	lines := m.boardLines(state)
	if state.Clicked != nil && state.Clicked.Dragging {
		lines = m.overlayClone(lines, state)
	}
	for _, line := range lines {
		if m.width > 0 {
			line = ansi.Truncate(line, m.width, "")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(m.statusLine(state)))
	return b.String()
}

// boardLines renders every list as a fixed-width column, full board height.
func (m Model) boardLines(state drag.State) []string {
	height := int(m.grid.Height())
	width := int(m.cfg.ColumnWidth)
	gap := strings.Repeat(" ", int(m.cfg.ColumnGap))

	cols := make([]string, 0, 2*len(m.snap.Lists))
	for i, l := range m.snap.Lists {
		if i > 0 {
			cols = append(cols, gap)
		}
		cols = append(cols, m.column(l, state, width, height))
	}
	if len(cols) == 0 {
		return []string{statusStyle.Render("no lists")}
	}
	return strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, cols...), "\n")
}

func (m Model) column(l board.ListView, state drag.State, width, height int) string {
	dragged := func(kind board.EntityKind, id string) bool {
		c := state.Clicked
		return c != nil && c.Dragging && c.Kind == kind && c.ID == id
	}

	header := headerStyle
	if t := state.Target; t != nil && state.Clicked != nil && state.Clicked.Dragging &&
		state.Clicked.Kind == board.KindItem && t.ListID == l.ID {
		header = targetStyle
	}
	parts := []string{
		header.Render(ansi.Truncate(board.DisplayTitle(l.Title, "List"), width, "…")),
		ruleStyle.Render(strings.Repeat("─", width)),
	}
	for _, it := range l.Items {
		style := cardStyle
		if dragged(board.KindItem, it.ID) {
			style = ghostStyle
		}
		parts = append(parts, card(style, board.DisplayTitle(it.Title, "item"), width))
	}

	col := lipgloss.JoinVertical(lipgloss.Left, parts...)
	colStyle := lipgloss.NewStyle().Width(width).Height(height)
	if dragged(board.KindList, l.ID) {
		colStyle = colStyle.Faint(true)
	}
	return colStyle.Render(col)
}

// card renders a three-row card of the given total width.
func card(style lipgloss.Style, title string, width int) string {
	inner := max(width-2, 1)
	return style.Width(inner).Render(ansi.Truncate(title, inner, "…"))
}

// overlayClone draws the floating copy of the dragged entity at the clone
// position on top of the board lines.
func (m Model) overlayClone(lines []string, state drag.State) []string {
	c := state.Clicked
	var clone []string
	width := int(m.cfg.ColumnWidth)
	switch c.Kind {
	case board.KindItem:
		clone = strings.Split(card(cloneStyle, m.itemTitle(c.ID), width), "\n")
	case board.KindList:
		clone = []string{targetStyle.Render(ansi.Truncate(m.listTitle(c.ID), width, "…"))}
	}

	x := max(int(state.Clone.X), 0)
	y := max(int(state.Clone.Y), 0)
	for i, row := range clone {
		at := y + i
		if at >= len(lines) {
			break
		}
		lines[at] = overlay(lines[at], row, x)
	}
	return lines
}

// overlay replaces the cells of base starting at column x with top.
func overlay(base, top string, x int) string {
	if pad := x + ansi.StringWidth(top) - ansi.StringWidth(base); pad > 0 {
		base += strings.Repeat(" ", pad)
	}
	left := ansi.Truncate(base, x, "")
	right := ansi.TruncateLeft(base, x+ansi.StringWidth(top), "")
	return left + top + right
}

func (m Model) statusLine(state drag.State) string {
	var parts []string
	if state.Phase != drag.Idle {
		parts = append(parts, state.Phase.String())
	}
	if t := state.Target; t != nil && state.Clicked != nil && state.Clicked.Dragging {
		if state.Clicked.Kind == board.KindItem {
			parts = append(parts, fmt.Sprintf("→ %s #%d", m.listTitle(t.ListID), t.Index))
		} else {
			parts = append(parts, fmt.Sprintf("→ #%d", t.Index))
		}
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if len(parts) == 0 {
		return "drag cards or list headers · esc cancel · r reload · q quit"
	}
	return strings.Join(parts, " · ")
}

func (m Model) listTitle(id string) string {
	if i := m.snap.FindList(id); i >= 0 {
		return board.DisplayTitle(m.snap.Lists[i].Title, "List")
	}
	return "?"
}

func (m Model) itemTitle(id string) string {
	if li, ii, ok := m.snap.FindItem(id); ok {
		return board.DisplayTitle(m.snap.Lists[li].Items[ii].Title, "item")
	}
	return "?"
}
