package store

import (
	"context"
	"sync"

	"tableflip.dev/worklog/pkg/worklog"
)

func init() {
	Register("memory", func(_ context.Context, _ Options) (Repository, error) {
		return NewMemory(), nil
	})
}

// Memory is an in-process repository. Contents are lost on exit.
type Memory struct {
	mu      sync.Mutex
	counter int64
	entries map[int64]worklog.Entity
}

var _ Repository = (*Memory)(nil)

// NewMemory returns a repository preloaded with entries. Preloaded entries
// always receive fresh ids.
func NewMemory(entries ...worklog.Entity) *Memory {
	m := &Memory{entries: make(map[int64]worklog.Entity)}
	for _, e := range entries {
		m.counter++
		m.entries[m.counter] = e.WithID(m.counter)
	}
	return m
}

func (m *Memory) snapshot() []worklog.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]worklog.Entity, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out
}

func (m *Memory) Years(_ context.Context) ([]string, error) {
	return scanYears(m.snapshot()), nil
}

func (m *Memory) Months(_ context.Context, years []string) ([]string, error) {
	return scanMonths(m.snapshot(), years), nil
}

func (m *Memory) Dates(_ context.Context, years, months []string) ([]string, error) {
	return scanDates(m.snapshot(), years, months), nil
}

func (m *Memory) Tasks(_ context.Context, dates []string) ([]string, error) {
	return scanTasks(m.snapshot(), dates), nil
}

func (m *Memory) Worklogs(_ context.Context, dates, tasks []string) ([]worklog.Entity, error) {
	return scanWorklogs(m.snapshot(), dates, tasks), nil
}

func (m *Memory) Save(_ context.Context, e worklog.Entity) (worklog.Entity, error) {
	if err := e.Validate(); err != nil {
		return worklog.Entity{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	saved := e.WithID(m.counter)
	m.entries[m.counter] = saved
	return saved, nil
}

func (m *Memory) Update(_ context.Context, e worklog.Entity) (worklog.Entity, error) {
	if err := checkUpdate(e); err != nil {
		return worklog.Entity{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := *e.ID
	if _, ok := m.entries[id]; !ok {
		return worklog.Entity{}, worklog.NotFound(id)
	}
	updated := e.WithID(id)
	m.entries[id] = updated
	return updated, nil
}

func (m *Memory) Delete(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return id, nil
}

func (m *Memory) Close() error { return nil }
