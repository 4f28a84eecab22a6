package cascade

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/worklog/pkg/selection"
	"tableflip.dev/worklog/pkg/worklog"
)

// RefreshRequestedMsg clears every level and restarts the whole cascade.
type RefreshRequestedMsg struct{}

// MonthsChangedMsg reloads the months level.
type MonthsChangedMsg struct{}

// DatesChangedMsg reloads the dates level from the selected months.
type DatesChangedMsg struct{}

// TasksChangedMsg reloads the tasks level from the selected dates.
type TasksChangedMsg struct{}

// WorklogsChangedMsg rebuilds the worklog table from the selected dates and
// tasks.
type WorklogsChangedMsg struct{}

// LoadedMsg carries the result of one cascade link back to the update loop.
type LoadedMsg struct {
	Kind       selection.Kind
	Generation uint64
	Labels     []string
	Worklogs   []worklog.Entity
	Err        error
}

// Describe renders the result for logs.
func (m LoadedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`kind:%q gen:%d err:%q`, m.Kind, m.Generation, m.Err)
	}
	if m.Kind == selection.Worklogs {
		return fmt.Sprintf(`kind:%q gen:%d rows:%d`, m.Kind, m.Generation, len(m.Worklogs))
	}
	return fmt.Sprintf(`kind:%q gen:%d labels:%d`, m.Kind, m.Generation, len(m.Labels))
}

// FailedMsg reports a cascade link aborted by a repository error. The level
// keeps whatever it showed before.
type FailedMsg struct {
	Kind selection.Kind
	Err  error
}

func (m FailedMsg) Error() string {
	return fmt.Sprintf("load %s: %v", m.Kind, m.Err)
}

// changed returns the event that restarts the cascade at k.
func changed(k selection.Kind) tea.Msg {
	switch k {
	case selection.Months:
		return MonthsChangedMsg{}
	case selection.Dates:
		return DatesChangedMsg{}
	case selection.Tasks:
		return TasksChangedMsg{}
	case selection.Worklogs:
		return WorklogsChangedMsg{}
	}
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	if msg == nil {
		return nil
	}
	return func() tea.Msg { return msg }
}
