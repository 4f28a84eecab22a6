// Package editor is the modal form that collects a date, task and duration
// for a new or existing worklog entry.
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/worklog/pkg/tui/theme"
	"tableflip.dev/worklog/pkg/worklog"
)

type field int

const (
	fieldDate field = iota
	fieldTask
	fieldDuration
	fieldCount
)

var fieldNames = [fieldCount]worklog.Field{worklog.FieldDate, worklog.FieldTask, worklog.FieldDuration}

// SubmitMsg carries a confirmed entry. Entity.ID is set when editing.
type SubmitMsg struct {
	Entity worklog.Entity
}

// Creating reports whether the entry has never been saved.
func (m SubmitMsg) Creating() bool { return !m.Entity.Persisted() }

// CancelMsg is emitted when the user closes the editor without submitting.
type CancelMsg struct{}

// Model is the editor overlay.
type Model struct {
	id     *int64
	inputs [fieldCount]textinput.Model
	focus  field
	hint   string
	width  int
	theme  theme.Theme
}

// NewCreate returns an empty editor for a new entry.
func NewCreate(th theme.Theme) *Model {
	return newModel(th, worklog.Entity{})
}

// NewUpdate returns an editor pre-filled with e.
func NewUpdate(th theme.Theme, e worklog.Entity) *Model {
	return newModel(th, e)
}

func newModel(th theme.Theme, e worklog.Entity) *Model {
	m := &Model{id: e.ID, theme: th}
	values := [fieldCount]string{e.Date, e.Task, e.Duration}
	placeholders := [fieldCount]string{"YYYY-MM-DD", "what did you work on", "2H30M"}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 128
		in.Placeholder = placeholders[i]
		in.SetValue(values[i])
		m.inputs[i] = in
	}
	m.inputs[fieldDate].CharLimit = len(worklog.DateLayout)
	m.SetWidth(48)
	return m
}

// Title names the operation the editor performs.
func (m *Model) Title() string {
	if m.id != nil {
		return "Update worklog"
	}
	return "Create new worklog"
}

// Focused returns the field holding the cursor.
func (m *Model) Focused() worklog.Field { return fieldNames[m.focus] }

// Hint is the inline message shown after a rejected submission.
func (m *Model) Hint() string { return m.hint }

// Entity returns the current, trimmed form contents.
func (m *Model) Entity() worklog.Entity {
	e := worklog.New(
		strings.TrimSpace(m.inputs[fieldDate].Value()),
		strings.TrimSpace(m.inputs[fieldTask].Value()),
		strings.TrimSpace(m.inputs[fieldDuration].Value()),
	)
	e.ID = m.id
	return e
}

// SetWidth sizes the input fields.
func (m *Model) SetWidth(width int) {
	m.width = max(width, 24)
	for i := range m.inputs {
		m.inputs[i].SetWidth(m.width - 14)
	}
}

// Init focuses the first field.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.setFocus(fieldDate), textinput.Blink)
}

// Update handles key presses while the editor is open.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return CancelMsg{} }
	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if m.focus < fieldCount-1 {
			return m, m.setFocus(m.focus + 1)
		}
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	e := m.Entity()
	if f, reason, ok := check(e); !ok {
		m.hint = string(fieldNames[f]) + " " + reason
		return m.setFocus(f)
	}
	m.hint = ""
	return func() tea.Msg { return SubmitMsg{Entity: e} }
}

// check returns the first field that blocks submission.
func check(e worklog.Entity) (field, string, bool) {
	switch {
	case e.Date == "":
		return fieldDate, "is required", false
	case !worklog.ValidDate(e.Date):
		return fieldDate, "must be a calendar date as YYYY-MM-DD", false
	case e.Task == "":
		return fieldTask, "is required", false
	case e.Duration == "":
		return fieldDuration, "is required", false
	}
	return 0, "", true
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if field(i) == f {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

// View renders the framed form.
func (m *Model) View() string {
	st := m.theme.Modal
	labels := [fieldCount]string{"Date", "Task", "Duration"}
	lines := []string{st.Title.Render(m.Title()), ""}
	for i := range m.inputs {
		label := st.Label
		if field(i) == m.focus {
			label = st.Active
		}
		lines = append(lines, label.Width(10).Render(labels[i])+"  "+m.inputs[i].View())
	}
	lines = append(lines, "")
	if m.hint != "" {
		lines = append(lines, st.Hint.Render(m.hint))
	} else {
		lines = append(lines, st.Label.Render("enter next/save · tab switch · esc cancel"))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return st.Frame.Width(m.width).Render(body)
}
