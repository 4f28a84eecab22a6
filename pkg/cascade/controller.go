// Package cascade keeps the months, dates, tasks and worklog levels consistent
// with each other. Every change re-queries the repository for the levels
// below it, one link at a time, and results that were superseded while in
// flight are dropped.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/worklog/pkg/selection"
	"tableflip.dev/worklog/pkg/store"
)

type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// Controller owns the selection state and the four cascade task slots. It
// must only be used from the Bubble Tea update loop.
type Controller struct {
	repo   store.Repository
	state  *selection.State
	logger *slog.Logger

	ctx   context.Context
	stop  context.CancelFunc
	slots [4]slot
}

// New returns a controller over repo with empty state.
func New(repo store.Repository, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Controller{
		repo:   repo,
		state:  selection.New(),
		logger: logger.With("component", "cascade"),
		ctx:    ctx,
		stop:   stop,
	}
}

// State exposes the selection state for rendering and cursor movement.
func (c *Controller) State() *selection.State { return c.state }

// Pending reports whether a link for k is in flight.
func (c *Controller) Pending(k selection.Kind) bool {
	return c.slots[k].cancel != nil
}

// Busy reports whether any link is in flight.
func (c *Controller) Busy() bool {
	for _, k := range selection.Kinds {
		if c.Pending(k) {
			return true
		}
	}
	return false
}

// Close cancels every pending link. Results that still arrive are dropped.
func (c *Controller) Close() {
	c.supersede(selection.Months)
	c.stop()
}

// Update handles cascade events and link results. It reports false for
// messages it does not own.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case RefreshRequestedMsg:
		c.supersede(selection.Months)
		c.state.Clear()
		c.logger.Debug("refresh requested")
		return emit(MonthsChangedMsg{}), true

	case MonthsChangedMsg:
		return c.start(selection.Months, func(ctx context.Context) LoadedMsg {
			years, err := c.repo.Years(ctx)
			if err != nil {
				return LoadedMsg{Err: fmt.Errorf("cascade: years: %w", err)}
			}
			months, err := c.repo.Months(ctx, years)
			if err != nil {
				return LoadedMsg{Err: fmt.Errorf("cascade: months: %w", err)}
			}
			return LoadedMsg{Labels: months}
		}), true

	case DatesChangedMsg:
		months := c.state.Months.Selected()
		return c.start(selection.Dates, func(ctx context.Context) LoadedMsg {
			years, err := c.repo.Years(ctx)
			if err != nil {
				return LoadedMsg{Err: fmt.Errorf("cascade: years: %w", err)}
			}
			dates, err := c.repo.Dates(ctx, years, months)
			if err != nil {
				return LoadedMsg{Err: fmt.Errorf("cascade: dates: %w", err)}
			}
			return LoadedMsg{Labels: dates}
		}), true

	case TasksChangedMsg:
		dates := c.state.Dates.Selected()
		return c.start(selection.Tasks, func(ctx context.Context) LoadedMsg {
			tasks, err := c.repo.Tasks(ctx, dates)
			if err != nil {
				return LoadedMsg{Err: fmt.Errorf("cascade: tasks: %w", err)}
			}
			return LoadedMsg{Labels: tasks}
		}), true

	case WorklogsChangedMsg:
		dates := c.state.Dates.Selected()
		tasks := c.state.Tasks.Selected()
		return c.start(selection.Worklogs, func(ctx context.Context) LoadedMsg {
			rows, err := c.repo.Worklogs(ctx, dates, tasks)
			if err != nil {
				return LoadedMsg{Err: fmt.Errorf("cascade: worklogs: %w", err)}
			}
			return LoadedMsg{Worklogs: rows}
		}), true

	case LoadedMsg:
		return c.apply(msg), true
	}
	return nil, false
}

// Toggle flips the highlighted label of k and restarts the cascade below it.
func (c *Controller) Toggle(k selection.Kind) tea.Cmd {
	return c.act(k, (*selection.Level).Toggle)
}

// SelectOnly selects only the highlighted label of k.
func (c *Controller) SelectOnly(k selection.Kind) tea.Cmd {
	return c.act(k, (*selection.Level).SelectOnlyHighlighted)
}

// SelectAll selects every label of k.
func (c *Controller) SelectAll(k selection.Kind) tea.Cmd {
	return c.act(k, (*selection.Level).SelectAll)
}

func (c *Controller) act(k selection.Kind, action func(*selection.Level) bool) tea.Cmd {
	level := c.state.Level(k)
	if level == nil || level.Empty() {
		return nil
	}
	if !action(level) {
		return nil
	}
	return emit(changed(k + 1))
}

// start supersedes the slot for k and every slot below it, then returns the
// command running load under a fresh generation.
func (c *Controller) start(k selection.Kind, load func(ctx context.Context) LoadedMsg) tea.Cmd {
	c.supersede(k)
	ctx, cancel := context.WithCancel(c.ctx)
	s := &c.slots[k]
	s.cancel = cancel
	gen := s.gen
	c.logger.Debug("cascade link started", "kind", k.String(), "generation", gen)
	return func() tea.Msg {
		msg := load(ctx)
		msg.Kind = k
		msg.Generation = gen
		return msg
	}
}

func (c *Controller) supersede(from selection.Kind) {
	for k := from; int(k) < len(c.slots); k++ {
		s := &c.slots[k]
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.gen++
	}
}

func (c *Controller) apply(msg LoadedMsg) tea.Cmd {
	if int(msg.Kind) < 0 || int(msg.Kind) >= len(c.slots) {
		return nil
	}
	s := &c.slots[msg.Kind]
	if msg.Generation != s.gen || s.cancel == nil {
		c.logger.Debug("cascade link dropped", "result", msg.Describe(), "current", s.gen)
		return nil
	}
	s.cancel()
	s.cancel = nil

	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			c.logger.Debug("cascade link canceled", "kind", msg.Kind.String())
			return nil
		}
		c.logger.Warn("cascade link failed", "kind", msg.Kind.String(), "error", msg.Err)
		return emit(FailedMsg{Kind: msg.Kind, Err: msg.Err})
	}

	c.logger.Debug("cascade link applied", "result", msg.Describe())
	if msg.Kind == selection.Worklogs {
		c.state.Worklogs.Rebuild(msg.Worklogs)
		return nil
	}
	c.state.Level(msg.Kind).Populate(msg.Labels)
	return emit(changed(msg.Kind + 1))
}
