package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/worklog/pkg/tui/theme"
	"tableflip.dev/worklog/pkg/worklog"
)

func press(m *Model, code rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestEmptyTaskBlocksSubmit(t *testing.T) {
	m := NewCreate(theme.Default())
	m.Init()
	if m.Title() != "Create new worklog" {
		t.Fatalf("title = %q", m.Title())
	}

	typeText(m, "2024-01-05")
	press(m, tea.KeyEnter)
	if m.Focused() != worklog.FieldTask {
		t.Fatalf("enter should advance to task, focus = %s", m.Focused())
	}
	press(m, tea.KeyEnter)
	typeText(m, "2H")
	press(m, tea.KeyEnter)

	if m.Focused() != worklog.FieldTask {
		t.Fatalf("focus = %s, want task", m.Focused())
	}
	if !strings.Contains(m.Hint(), "task") {
		t.Fatalf("hint = %q", m.Hint())
	}
	if got := m.Entity(); got.Date != "2024-01-05" || got.Duration != "2H" {
		t.Fatalf("form lost input: %+v", got)
	}
}

func TestInvalidDateFocusesDate(t *testing.T) {
	m := NewUpdate(theme.Default(), worklog.New("2024-1-5", "build", "2H").WithID(4))
	m.Init()
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	press(m, tea.KeyEnter)

	if m.Focused() != worklog.FieldDate {
		t.Fatalf("focus = %s, want date", m.Focused())
	}
	if !strings.Contains(m.Hint(), "YYYY-MM-DD") {
		t.Fatalf("hint = %q", m.Hint())
	}
}

func TestUpdateSubmitsPrefilledEntry(t *testing.T) {
	m := NewUpdate(theme.Default(), worklog.New("2024-01-05", "  build ", "2H").WithID(4))
	m.Init()
	if m.Title() != "Update worklog" {
		t.Fatalf("title = %q", m.Title())
	}
	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)
	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg")
	}
	if msg.Creating() || msg.Entity.Key() != 4 || msg.Entity.Task != "build" {
		t.Fatalf("unexpected submission %+v", msg.Entity)
	}
	if m.Hint() != "" {
		t.Fatalf("hint should clear on submit, got %q", m.Hint())
	}
}

func TestCreateSubmitsNewEntry(t *testing.T) {
	m := NewCreate(theme.Default())
	m.Init()
	typeText(m, "2024-02-01")
	press(m, tea.KeyEnter)
	typeText(m, "deploy")
	press(m, tea.KeyEnter)
	typeText(m, "3H")
	msg, ok := press(m, tea.KeyEnter)().(SubmitMsg)
	if !ok || !msg.Creating() {
		t.Fatalf("expected a creating submission, got %+v", msg)
	}
	if want := worklog.New("2024-02-01", "deploy", "3H"); msg.Entity != want {
		t.Fatalf("entity = %+v, want %+v", msg.Entity, want)
	}
}

func TestEscCancels(t *testing.T) {
	m := NewCreate(theme.Default())
	m.Init()
	cmd := press(m, tea.KeyEscape)
	if _, ok := cmd().(CancelMsg); !ok {
		t.Fatalf("esc should cancel")
	}
}

func TestShiftTabWraps(t *testing.T) {
	m := NewCreate(theme.Default())
	m.Init()
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.Focused() != worklog.FieldDuration {
		t.Fatalf("focus = %s, want duration", m.Focused())
	}
}

func TestViewShowsTitleAndHint(t *testing.T) {
	m := NewCreate(theme.Default())
	m.Init()
	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)
	view := m.View()
	if !strings.Contains(view, "Create new worklog") || !strings.Contains(view, "date is required") {
		t.Fatalf("view missing title or hint:\n%s", view)
	}
}
