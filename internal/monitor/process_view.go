package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/rtop/internal/util"
)

// processColumns sizes the table columns for a terminal width. The command
// column takes whatever is left.
func processColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "PID", Width: 7},
		{Title: "USER", Width: 10},
		{Title: "S", Width: 2},
		{Title: "THR", Width: 4},
		{Title: "CPU%", Width: 6},
		{Title: "MEM%", Width: 6},
		{Title: "RSS", Width: 9},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	name := width - used - 2
	if name < 12 {
		name = 12
	}
	return append(cols, table.Column{Title: "COMMAND", Width: name})
}

func tableStyles(s Styles) table.Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.Bold(true)
	if s.enabled {
		t := s.Theme()
		ts.Header = ts.Header.BorderForeground(t.Border).Foreground(t.Accent)
		ts.Selected = ts.Selected.Foreground(t.Text).Background(t.Border)
	} else {
		ts.Selected = ts.Selected.Reverse(true)
	}
	return ts
}

// refreshProcessTable rebuilds the table rows from the process monitor,
// keeping the cursor within range.
func (m *Model) refreshProcessTable() {
	m.rows = m.mons.Process.Rows()
	tree := m.mons.Process.Tree()

	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		name := r.Name
		if r.Command != "" && !tree {
			name = r.Command
		}
		if tree && r.Depth > 0 {
			name = strings.Repeat("  ", r.Depth-1) + "└─ " + name
		}
		state := r.State
		if len(state) > 1 {
			state = state[:1]
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.PID),
			util.Truncate(r.User, 10),
			state,
			fmt.Sprintf("%d", r.Threads),
			fmt.Sprintf("%.1f", r.CPU),
			fmt.Sprintf("%.1f", r.MemPercent),
			util.Bytes(r.RSS),
			name,
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// renderProcessPage shows the full process table.
func (m Model) renderProcessPage() string {
	s := m.styles
	procs := m.mons.Process
	order, rev := procs.Sort()

	info := []string{fmt.Sprintf("%d of %d", len(m.rows), procs.Total()), "sort " + order.String()}
	if rev {
		info = append(info, "reversed")
	}
	if procs.Tree() {
		info = append(info, "tree")
	}
	if f := procs.Filter(); f != "" {
		info = append(info, "filter /"+f+"/")
	}

	title := s.Title.Render("Processes") + "  " + s.Muted.Render(strings.Join(info, " | "))
	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View())
}

// renderDialog renders the kill confirmation or signal menu, if open.
func (m Model) renderDialog() string {
	s := m.styles
	switch {
	case m.confirm != nil:
		p := m.confirm
		body := fmt.Sprintf("Send TERM to %d (%s)?\n\n", p.PID, p.Name) +
			s.HelpKey.Render("y") + s.Label.Render("yes   ") +
			s.HelpKey.Render("n / esc") + s.Label.Render("no")
		return s.Dialog.Render(body)

	case m.signalMenu:
		p, _ := m.selectedProcess()
		lines := []string{s.Title.Render(fmt.Sprintf("Signal %d (%s)", p.PID, p.Name)), ""}
		for i, sig := range Signals {
			cursor := "  "
			if i == m.signalIdx {
				cursor = "> "
			}
			line := fmt.Sprintf("%s%-5s %s", cursor, sig, sig.Description())
			if i == m.signalIdx {
				line = s.Title.Render(line)
			} else {
				line = s.Label.Render(line)
			}
			lines = append(lines, line)
		}
		lines = append(lines, "", s.Muted.Render("↑/↓ select  enter send  esc cancel"))
		return s.Dialog.Render(strings.Join(lines, "\n"))
	}
	return ""
}

// refreshHelp lays the full key map out into the help viewport.
func (m *Model) refreshHelp() {
	s := m.styles
	var lines []string
	lines = append(lines, s.Title.Render("Keyboard Shortcuts"), "")
	for i, group := range m.keys.FullHelp() {
		if i > 0 {
			lines = append(lines, "")
		}
		for _, b := range group {
			h := b.Help()
			lines = append(lines, s.HelpKey.Render(h.Key)+s.Label.Render(h.Desc))
		}
	}
	lines = append(lines, "", s.Muted.Render("Press h, ? or esc to close"))

	w, h := m.viewWidth()-8, m.height-6
	if w > 60 {
		w = 60
	}
	if h < 5 {
		h = 5
	}
	if h > len(lines) {
		h = len(lines)
	}
	m.helpView.Width = w
	m.helpView.Height = h
	m.helpView.SetContent(strings.Join(lines, "\n"))
}

// renderHelpOverlay renders a centered, scrollable help box.
func (m Model) renderHelpOverlay() string {
	box := m.styles.HelpBox.Render(m.helpView.View())
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
