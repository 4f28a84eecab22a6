package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/worklog/pkg/selection"
	"tableflip.dev/worklog/pkg/timeutil"
	"tableflip.dev/worklog/pkg/tui/ui/overlay"
)

const (
	levelWidth    = 16
	dateWidth     = 10
	durationWidth = 8
	minTaskWidth  = 8
	columnGap     = "  "
)

var levelTitles = map[selection.Kind]string{
	selection.Months:   "1 Months",
	selection.Dates:    "2 Dates",
	selection.Tasks:    "3 Tasks",
	selection.Worklogs: "4 Worklogs",
}

// View renders the levels, the table, the footer and the editor overlay.
func (m *Model) View() string {
	footer := m.renderFooter()
	// frame border and title line
	rows := max(1, m.height-lipgloss.Height(footer)-3)

	panels := []string{
		m.renderLevel(selection.Months, rows),
		m.renderLevel(selection.Dates, rows),
		m.renderLevel(selection.Tasks, rows),
	}
	used := 0
	for _, p := range panels {
		used += lipgloss.Width(p)
	}
	panels = append(panels, m.renderTable(max(m.width-used-4, dateWidth+durationWidth+minTaskWidth), rows))

	screen := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, panels...),
		footer,
	)
	if m.editor != nil {
		screen = overlay.Compose(screen, m.width, m.height, m.editor.View(), overlay.Centered)
	}
	return screen
}

func (m *Model) frame(k selection.Kind) lipgloss.Style {
	if k == m.focus {
		return m.theme.Level.FocusedFrame
	}
	return m.theme.Level.Frame
}

func (m *Model) renderLevel(k selection.Kind, rows int) string {
	st := m.theme.Level
	level := m.State().Level(k)
	items := level.Items()
	start, end := window(len(items), level.Cursor(), rows)

	lines := []string{st.Title.Render(levelTitles[k])}
	for _, it := range items[start:end] {
		if it.Placeholder {
			lines = append(lines, st.Placeholder.Render(it.Label))
			continue
		}
		box := "[ ] "
		if it.Selected {
			box = "[x] "
		}
		text := truncate.StringWithTail(box+displayLabel(k, it.Label), levelWidth, "…")
		switch {
		case it.Highlighted && k == m.focus:
			lines = append(lines, st.Highlight.Render(text))
		case it.Highlighted:
			lines = append(lines, st.Item.Underline(true).Render(text))
		default:
			lines = append(lines, st.Item.Render(text))
		}
	}
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.frame(k).Width(levelWidth + 2).Height(rows + 1).Render(body)
}

// displayLabel adds the month name to "01".."12".
func displayLabel(k selection.Kind, label string) string {
	if k != selection.Months {
		return label
	}
	n, err := strconv.Atoi(label)
	if err != nil || n < 1 || n > 12 {
		return label
	}
	return label + " " + time.Month(n).String()[:3]
}

func (m *Model) renderTable(width, rows int) string {
	st := m.theme.Table
	tbl := m.State().Worklogs

	widths := []int{dateWidth, 0, durationWidth}
	header := []string{"date", "task", "duration"}
	for _, c := range m.columns {
		header = append(header, c.Name)
		widths = append(widths, max(len(c.Name), 4))
	}
	fixed := 0
	for _, w := range widths {
		fixed += w + len(columnGap)
	}
	widths[1] = max(minTaskWidth, width-fixed)

	lines := []string{
		m.theme.Level.Title.Render(levelTitles[selection.Worklogs]),
		st.Header.Render(joinCells(header, widths)),
	}
	all := tbl.Rows()
	durations := make([]string, len(all))
	for i, e := range all {
		durations[i] = e.Duration
	}
	start, end := window(len(all), tbl.Cursor(), max(1, rows-2))
	for i := start; i < end; i++ {
		e := all[i]
		cells := []string{e.Date, e.Task, e.Duration}
		for _, c := range m.columns {
			cells = append(cells, c.Cell(e))
		}
		line := joinCells(cells, widths)
		if i == tbl.Cursor() && m.focus == selection.Worklogs {
			lines = append(lines, st.Cursor.Render(line))
		} else {
			lines = append(lines, st.Row.Render(line))
		}
	}
	if len(all) == 0 {
		lines = append(lines, m.theme.Level.Placeholder.Render(selection.Placeholder))
	}

	total, skipped := timeutil.Sum(durations)
	summary := fmt.Sprintf("%d rows · total %s", len(all), timeutil.FormatDuration(total))
	if skipped > 0 {
		summary += fmt.Sprintf(" (%d unparsed)", skipped)
	}
	lines = append(lines, st.Total.Render(summary))

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.frame(selection.Worklogs).Width(width + 2).Height(rows + 1).Render(body)
}

func joinCells(cells []string, widths []int) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fitCell(c, widths[i])
	}
	return strings.Join(out, columnGap)
}

func fitCell(s string, width int) string {
	s = truncate.StringWithTail(s, uint(width), "…")
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func (m *Model) renderFooter() string {
	st := m.theme.Footer
	status := m.status
	if m.cascade.Busy() {
		status = strings.TrimSpace("loading… " + status)
	}
	status = truncate.StringWithTail(status, uint(max(m.width, 1)), "…")
	style := st.Status
	if m.statusErr {
		style = st.Error
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		style.Render(status),
		st.Help.Render(m.help.View(m.keys)),
	)
}

// window returns the visible slice of n rows that keeps cursor in view.
func window(n, cursor, size int) (int, int) {
	if size <= 0 || n <= size {
		return 0, n
	}
	start := max(0, cursor-size/2)
	if start+size > n {
		start = n - size
	}
	return start, start + size
}
