package cascade

import (
	"context"
	"errors"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/worklog/pkg/selection"
	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/store/storetest"
	"tableflip.dev/worklog/pkg/worklog"
)

// drain runs cmd and feeds each resulting message back into the controller
// until the chain ends. It returns every message produced.
func drain(t *testing.T, c *Controller, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var msgs []tea.Msg
	for i := 0; cmd != nil; i++ {
		if i > 32 {
			t.Fatalf("cascade did not settle: %v", msgs)
		}
		msg := cmd()
		msgs = append(msgs, msg)
		next, ok := c.Update(msg)
		if !ok {
			break
		}
		cmd = next
	}
	return msgs
}

func refresh(t *testing.T, c *Controller) []tea.Msg {
	t.Helper()
	cmd, ok := c.Update(RefreshRequestedMsg{})
	if !ok {
		t.Fatalf("refresh not handled")
	}
	return drain(t, c, cmd)
}

func labels(l *selection.Level) []string {
	if l.Empty() {
		return nil
	}
	return l.Labels()
}

func rowDates(tbl *selection.Table) []string {
	var out []string
	for _, e := range tbl.Rows() {
		out = append(out, e.Date+" "+e.Task)
	}
	return out
}

func expect(t *testing.T, what string, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}

func newScenario() (*Controller, *store.Memory) {
	repo := store.NewMemory(storetest.Fixture()...)
	return New(repo, nil), repo
}

func TestRefreshPopulatesEveryLevel(t *testing.T) {
	c, _ := newScenario()
	refresh(t, c)

	s := c.State()
	expect(t, "months", labels(s.Months), []string{"01", "02"})
	expect(t, "selected months", s.Months.Selected(), []string{"01", "02"})
	expect(t, "dates", labels(s.Dates), []string{"2024-01-05", "2024-01-06", "2024-02-01"})
	expect(t, "tasks", labels(s.Tasks), []string{"build", "deploy"})
	expect(t, "worklogs", rowDates(s.Worklogs), []string{
		"2024-01-05 build", "2024-01-06 build", "2024-02-01 deploy",
	})
	if c.Busy() {
		t.Fatalf("controller still busy after cascade settled")
	}
}

func TestSelectOnlyMonthRestartsAtDates(t *testing.T) {
	c, _ := newScenario()
	refresh(t, c)

	cmd := c.SelectOnly(selection.Months)
	if cmd == nil {
		t.Fatalf("expected a cascade restart")
	}
	first := cmd()
	if _, ok := first.(DatesChangedMsg); !ok {
		t.Fatalf("months action emitted %T, want DatesChangedMsg", first)
	}
	next, _ := c.Update(first)
	drain(t, c, next)

	s := c.State()
	expect(t, "months kept", s.Months.Selected(), []string{"01"})
	expect(t, "dates", labels(s.Dates), []string{"2024-01-05", "2024-01-06"})
	expect(t, "tasks", labels(s.Tasks), []string{"build"})
	expect(t, "worklogs", rowDates(s.Worklogs), []string{"2024-01-05 build", "2024-01-06 build"})
}

func TestActionsEmitNextLevel(t *testing.T) {
	tests := []struct {
		kind selection.Kind
		want tea.Msg
	}{
		{selection.Months, DatesChangedMsg{}},
		{selection.Dates, TasksChangedMsg{}},
		{selection.Tasks, WorklogsChangedMsg{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c, _ := newScenario()
			refresh(t, c)
			cmd := c.Toggle(tt.kind)
			if cmd == nil {
				t.Fatalf("toggle emitted nothing")
			}
			if got := cmd(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("toggle emitted %T, want %T", got, tt.want)
			}
			if c.SelectAll(tt.kind) == nil {
				t.Fatalf("select all emitted nothing")
			}
		})
	}
}

func TestStaleResultIsDropped(t *testing.T) {
	c, repo := newScenario()

	older, _ := c.Update(MonthsChangedMsg{})
	oldMsg := older()

	storetest.Seed(t, repo, worklog.New("2024-03-09", "review", "1H"))
	newer, _ := c.Update(MonthsChangedMsg{})
	newMsg := newer()

	// Newest result lands first, the superseded one arrives late.
	if next, _ := c.Update(newMsg); next == nil {
		t.Fatalf("current result should emit DatesChanged")
	}
	if next, ok := c.Update(oldMsg); !ok || next != nil {
		t.Fatalf("stale result should be consumed and emit nothing, got %v", next)
	}
	expect(t, "months", labels(c.State().Months), []string{"01", "02", "03"})
}

func TestRepeatedRefreshKeepsLatest(t *testing.T) {
	c, repo := newScenario()

	first, _ := c.Update(RefreshRequestedMsg{})
	firstMonths, _ := c.Update(first())
	pending := firstMonths()

	storetest.Seed(t, repo, worklog.New("2023-12-30", "plan", "30M"))
	drain(t, c, func() tea.Msg { return RefreshRequestedMsg{} })

	if next, _ := c.Update(pending); next != nil {
		t.Fatalf("result of the earlier refresh must not continue the cascade")
	}
	expect(t, "months", labels(c.State().Months), []string{"01", "02", "12"})
	if got := c.State().Worklogs.Len(); got != 4 {
		t.Fatalf("worklogs = %d, want 4", got)
	}
}

func TestUpstreamSupersedesDownstream(t *testing.T) {
	c, repo := newScenario()
	refresh(t, c)

	dates, _ := c.Update(DatesChangedMsg{})
	pendingDates := dates()

	if _, err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	months, _ := c.Update(MonthsChangedMsg{})
	if !c.Pending(selection.Months) || c.Pending(selection.Dates) {
		t.Fatalf("months link should supersede the pending dates link")
	}
	if next, _ := c.Update(pendingDates); next != nil {
		t.Fatalf("superseded dates result should be dropped")
	}
	expect(t, "dates untouched", labels(c.State().Dates), []string{"2024-01-05", "2024-01-06", "2024-02-01"})

	drain(t, c, months)
	expect(t, "months", labels(c.State().Months), []string{"01"})
	expect(t, "dates", labels(c.State().Dates), []string{"2024-01-05", "2024-01-06"})
}

type flakyRepo struct {
	store.Repository
	failTasks bool
}

var errOffline = errors.New("disk offline")

func (f *flakyRepo) Tasks(ctx context.Context, dates []string) ([]string, error) {
	if f.failTasks {
		return nil, worklog.Unavailable("tasks", errOffline)
	}
	return f.Repository.Tasks(ctx, dates)
}

func TestRepositoryErrorKeepsState(t *testing.T) {
	repo := &flakyRepo{Repository: store.NewMemory(storetest.Fixture()...)}
	c := New(repo, nil)
	refresh(t, c)

	repo.failTasks = true
	if _, err := repo.Repository.Save(context.Background(), worklog.New("2024-01-05", "triage", "1H")); err != nil {
		t.Fatalf("save: %v", err)
	}
	msgs := drain(t, c, func() tea.Msg { return TasksChangedMsg{} })

	failed, ok := msgs[len(msgs)-1].(FailedMsg)
	if !ok {
		t.Fatalf("last message %T, want FailedMsg", msgs[len(msgs)-1])
	}
	if failed.Kind != selection.Tasks || !errors.Is(failed.Err, worklog.ErrUnavailable) || !errors.Is(failed.Err, errOffline) {
		t.Fatalf("unexpected failure %+v", failed)
	}
	expect(t, "tasks", labels(c.State().Tasks), []string{"build", "deploy"})
	if got := c.State().Worklogs.Len(); got != 3 {
		t.Fatalf("worklogs = %d, want 3", got)
	}
	if c.Pending(selection.Tasks) {
		t.Fatalf("failed link should release its slot")
	}
}

func TestEmptyStoreShowsPlaceholders(t *testing.T) {
	c := New(store.NewMemory(), nil)
	refresh(t, c)

	s := c.State()
	for _, k := range []selection.Kind{selection.Months, selection.Dates, selection.Tasks} {
		items := s.Level(k).Items()
		if len(items) != 1 || !items[0].Placeholder || items[0].Label != selection.Placeholder {
			t.Fatalf("%s items = %+v, want placeholder", k, items)
		}
		if _, ok := s.Level(k).Highlighted(); ok {
			t.Fatalf("%s should have no highlight", k)
		}
		if cmd := c.Toggle(k); cmd != nil {
			t.Fatalf("action on empty %s should emit nothing", k)
		}
	}
	if s.Worklogs.Len() != 0 {
		t.Fatalf("worklogs should be empty")
	}
}

func TestDeselectingEverythingEmptiesBelow(t *testing.T) {
	c, _ := newScenario()
	refresh(t, c)

	months := c.State().Months
	drain(t, c, c.Toggle(selection.Months))
	months.Move(1)
	drain(t, c, c.Toggle(selection.Months))

	if got := months.Selected(); len(got) != 0 {
		t.Fatalf("selected months = %v", got)
	}
	if !c.State().Dates.Empty() || !c.State().Tasks.Empty() || c.State().Worklogs.Len() != 0 {
		t.Fatalf("levels below an empty selection should be empty")
	}
}

func TestCloseDropsPendingResults(t *testing.T) {
	c, _ := newScenario()
	cmd, _ := c.Update(MonthsChangedMsg{})
	c.Close()
	if next, _ := c.Update(cmd()); next != nil {
		t.Fatalf("result after close should be dropped")
	}
	if !c.State().Months.Empty() {
		t.Fatalf("months should stay empty")
	}
}

func TestUnknownMessage(t *testing.T) {
	c, _ := newScenario()
	if _, ok := c.Update(tea.KeyPressMsg{}); ok {
		t.Fatalf("key press should not be handled by the controller")
	}
}
