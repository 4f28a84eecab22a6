// Package logsink is the built-in plugin that records every created worklog
// entry as a structured log record and marks it in a "sync" column.
package logsink

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"tableflip.dev/worklog/pkg/plugin"
	"tableflip.dev/worklog/pkg/worklog"
)

// Name is the plugin's registry name.
const Name = "log"

const (
	columnSync = "sync"
	synced     = "✓"
)

func init() {
	plugin.RegisterFactory(Name, func(logger *slog.Logger) (plugin.Plugin, error) {
		return New(logger), nil
	})
}

// Sink logs saved entries and remembers which ids it has seen.
type Sink struct {
	logger *slog.Logger

	mu   sync.Mutex
	seen map[int64]worklog.Entity
}

var (
	_ plugin.Plugin       = (*Sink)(nil)
	_ plugin.CellRenderer = (*Sink)(nil)
)

// New returns a sink writing to logger.
func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sink{
		logger: logger.With("plugin", Name),
		seen:   make(map[int64]worklog.Entity),
	}
}

func (s *Sink) Columns() []string {
	return []string{columnSync}
}

func (s *Sink) OnSave(ctx context.Context, e worklog.Entity) error {
	s.mu.Lock()
	s.seen[e.Key()] = e
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "worklog saved",
		"id", e.Key(),
		"date", e.Date,
		"task", e.Task,
		"duration", e.Duration,
	)
	return nil
}

func (s *Sink) Cell(e worklog.Entity, column string) string {
	if column != columnSync || !e.Persisted() {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[e.Key()]; ok {
		return synced
	}
	return ""
}
