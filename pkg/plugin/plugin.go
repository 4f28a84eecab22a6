// Package plugin fans saved worklog entries out to extensions and lets them
// add columns to the worklog table.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"tableflip.dev/worklog/pkg/worklog"
)

// Plugin is notified of every newly created entry.
type Plugin interface {
	// Columns are appended to the worklog table, after date, task and
	// duration. Called once when the screen is built.
	Columns() []string
	// OnSave is called once per successful creation.
	OnSave(ctx context.Context, e worklog.Entity) error
}

// CellRenderer is implemented by plugins that fill their own columns.
type CellRenderer interface {
	Cell(e worklog.Entity, column string) string
}

// Factory builds a plugin instance.
type Factory func(logger *slog.Logger) (Plugin, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// RegisterFactory makes a compiled-in plugin available by name. It panics on
// duplicate registration.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if f == nil {
		panic("plugin: RegisterFactory factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("plugin: RegisterFactory called twice for " + name)
	}
	factories[name] = f
}

// Available returns the registered plugin names, sorted.
func Available() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrUnknownPlugin is reported for names with no registered factory.
var ErrUnknownPlugin = errors.New("plugin: unknown plugin")

// Load instantiates the named plugins in order. Plugins that cannot be built
// are skipped; their errors are joined into the returned error.
func Load(names []string, logger *slog.Logger) (*Registry, error) {
	r := NewRegistry(logger)
	var errs []error
	for _, name := range names {
		factoriesMu.RLock()
		f, ok := factories[name]
		factoriesMu.RUnlock()
		if !ok {
			errs = append(errs, fmt.Errorf("%w %q (have %v)", ErrUnknownPlugin, name, Available()))
			continue
		}
		p, err := f(logger)
		if err != nil {
			errs = append(errs, fmt.Errorf("plugin: build %q: %w", name, err))
			continue
		}
		r.Register(name, p)
	}
	return r, errors.Join(errs...)
}
