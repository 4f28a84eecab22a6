// Package app is the full-screen worklog browser: three filter levels, the
// worklog table and the entry editor overlay.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/worklog/pkg/cascade"
	"tableflip.dev/worklog/pkg/plugin"
	"tableflip.dev/worklog/pkg/selection"
	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/tui/editor"
	"tableflip.dev/worklog/pkg/tui/theme"
	"tableflip.dev/worklog/pkg/worklog"
)

// Options wires the screen to its collaborators.
type Options struct {
	Repository store.Repository
	Plugins    *plugin.Registry
	Logger     *slog.Logger
	Theme      theme.Theme
}

// messages
type savedMsg struct {
	entity    worklog.Entity
	pluginErr error
}
type updatedMsg struct{ entity worklog.Entity }
type deletedMsg struct{ id int64 }
type errMsg struct {
	op  string
	err error
}

// Model contains UI state.
type Model struct {
	ctx     context.Context
	repo    store.Repository
	plugins *plugin.Registry
	logger  *slog.Logger
	theme   theme.Theme

	cascade *cascade.Controller
	columns []plugin.Column
	keys    keyMap
	help    help.Model

	focus  selection.Kind
	editor *editor.Model

	status    string
	statusErr bool

	width  int
	height int
}

// New creates the screen. Plugin columns are read once, here.
func New(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	plugins := opts.Plugins
	if plugins == nil {
		plugins = plugin.NewRegistry(logger)
	}
	return &Model{
		ctx:     ctx,
		repo:    opts.Repository,
		plugins: plugins,
		logger:  logger,
		theme:   opts.Theme,
		cascade: cascade.New(opts.Repository, logger),
		columns: plugins.Columns(),
		keys:    defaultKeys(),
		help:    help.New(),
		focus:   selection.Months,
		width:   100,
		height:  30,
	}
}

// State exposes the browsing state.
func (m *Model) State() *selection.State { return m.cascade.State() }

// Focus is the level receiving cursor keys.
func (m *Model) Focus() selection.Kind { return m.focus }

// Editing reports whether the editor overlay is open.
func (m *Model) Editing() bool { return m.editor != nil }

// Status returns the status line text and whether it reports an error.
func (m *Model) Status() (string, bool) { return m.status, m.statusErr }

// Init starts the first cascade.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return cascade.RefreshRequestedMsg{} }
}

// Update handles messages and keybindings.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.cascade.Update(msg); ok {
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.editor != nil {
			m.editor.SetWidth(min(60, m.width-4))
		}
		return m, nil

	case cascade.FailedMsg:
		m.setError(msg)
		return m, nil

	case editor.SubmitMsg:
		m.editor = nil
		if msg.Creating() {
			return m, m.save(msg.Entity)
		}
		return m, m.update(msg.Entity)

	case editor.CancelMsg:
		m.editor = nil
		m.setStatus("cancelled")
		return m, nil

	case savedMsg:
		m.logger.Info("worklog created", "id", msg.entity.Key(), "date", msg.entity.Date, "task", msg.entity.Task)
		m.setStatus("saved " + msg.entity.String())
		if msg.pluginErr != nil {
			m.setError(fmt.Errorf("saved #%d, %w", msg.entity.Key(), msg.pluginErr))
		}
		return m, emit(cascade.MonthsChangedMsg{})

	case updatedMsg:
		m.logger.Info("worklog updated", "id", msg.entity.Key(), "date", msg.entity.Date, "task", msg.entity.Task)
		m.setStatus("updated " + msg.entity.String())
		s := m.State()
		if !s.Dates.Has(msg.entity.Date) || !s.Tasks.Has(msg.entity.Task) {
			return m, emit(cascade.MonthsChangedMsg{})
		}
		return m, emit(cascade.WorklogsChangedMsg{})

	case deletedMsg:
		m.logger.Info("worklog deleted", "id", msg.id)
		m.State().Worklogs.Remove(msg.id)
		m.setStatus(fmt.Sprintf("deleted #%d", msg.id))
		return m, nil

	case errMsg:
		m.setError(fmt.Errorf("%s: %w", msg.op, msg.err))
		return m, nil

	case tea.KeyPressMsg:
		if m.editor != nil && msg.String() != "ctrl+c" {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		}
		return m, m.handleKey(msg)
	}

	if m.editor != nil {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	s := m.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cascade.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("refreshing")
		return emit(cascade.RefreshRequestedMsg{})
	case key.Matches(msg, m.keys.Focus):
		m.focus = selection.Kind(msg.String()[0] - '1')
	case key.Matches(msg, m.keys.Left):
		if m.focus > selection.Months {
			m.focus--
		}
	case key.Matches(msg, m.keys.Right):
		if m.focus < selection.Worklogs {
			m.focus++
		}
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Top):
		if l := s.Level(m.focus); l != nil {
			l.Home()
		} else {
			s.Worklogs.Home()
		}
	case key.Matches(msg, m.keys.Bottom):
		if l := s.Level(m.focus); l != nil {
			l.End()
		} else {
			s.Worklogs.End()
		}
	case key.Matches(msg, m.keys.Toggle):
		return m.cascade.Toggle(m.focus)
	case key.Matches(msg, m.keys.SelectOnly):
		return m.cascade.SelectOnly(m.focus)
	case key.Matches(msg, m.keys.SelectAll):
		return m.cascade.SelectAll(m.focus)
	case key.Matches(msg, m.keys.New):
		return m.openEditor(editor.NewCreate(m.theme))
	case key.Matches(msg, m.keys.Edit):
		if e, ok := m.current(); ok {
			return m.openEditor(editor.NewUpdate(m.theme, e))
		}
	case key.Matches(msg, m.keys.Delete):
		if e, ok := m.current(); ok {
			return m.delete(e.Key())
		}
	}
	return nil
}

func (m *Model) move(delta int) {
	if l := m.State().Level(m.focus); l != nil {
		l.Move(delta)
		return
	}
	m.State().Worklogs.Move(delta)
}

// current is the highlighted worklog row, only while the table has focus.
func (m *Model) current() (worklog.Entity, bool) {
	if m.focus != selection.Worklogs {
		return worklog.Entity{}, false
	}
	return m.State().Worklogs.Current()
}

func (m *Model) openEditor(ed *editor.Model) tea.Cmd {
	ed.SetWidth(min(60, m.width-4))
	m.editor = ed
	return ed.Init()
}

func (m *Model) save(e worklog.Entity) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.repo.Save(m.ctx, e)
		if err != nil {
			return errMsg{op: "save", err: err}
		}
		return savedMsg{entity: saved, pluginErr: m.plugins.NotifySave(m.ctx, saved)}
	}
}

func (m *Model) update(e worklog.Entity) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.repo.Update(m.ctx, e)
		if err != nil {
			return errMsg{op: "update", err: err}
		}
		return updatedMsg{entity: updated}
	}
}

func (m *Model) delete(id int64) tea.Cmd {
	return func() tea.Msg {
		deleted, err := m.repo.Delete(m.ctx, id)
		if err != nil {
			return errMsg{op: "delete", err: err}
		}
		return deletedMsg{id: deleted}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	level := slog.LevelError
	if errors.Is(err, worklog.ErrNotFound) || errors.Is(err, worklog.ErrValidation) {
		level = slog.LevelWarn
	}
	m.logger.Log(m.ctx, level, "worklog session error", "error", err)
	m.status = err.Error()
	m.statusErr = true
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Run starts the full-screen session and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
