// Package store defines the repository contract for worklog entries and the
// registry of concrete implementations.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"tableflip.dev/worklog/pkg/worklog"
)

// Repository is the persistence contract the cascade controller and the UI
// depend on. Filters are exact set membership. An empty filter matches
// nothing.
type Repository interface {
	// Years lists the distinct four digit years present, ascending.
	Years(ctx context.Context) ([]string, error)
	// Months lists the distinct months ("01".."12") of entries whose year is
	// in years, ascending.
	Months(ctx context.Context, years []string) ([]string, error)
	// Dates lists the distinct dates whose year is in years and month is in
	// months, ascending.
	Dates(ctx context.Context, years, months []string) ([]string, error)
	// Tasks lists the distinct task labels of entries whose date is in dates.
	Tasks(ctx context.Context, dates []string) ([]string, error)
	// Worklogs returns entries matching both filters ordered by date, task.
	Worklogs(ctx context.Context, dates, tasks []string) ([]worklog.Entity, error)

	// Save stores a new entry and returns it with its assigned id. Any id on
	// the input is ignored.
	Save(ctx context.Context, e worklog.Entity) (worklog.Entity, error)
	// Update replaces the entry with the same id. Returns worklog.ErrNotFound
	// when no such entry exists.
	Update(ctx context.Context, e worklog.Entity) (worklog.Entity, error)
	// Delete removes the entry with id. Deleting a missing id is a no-op.
	Delete(ctx context.Context, id int64) (int64, error)

	Close() error
}

// Factory opens a repository for the given options.
type Factory func(ctx context.Context, opts Options) (Repository, error)

// ErrUnknownDriver is returned by Open for an unregistered driver name.
var ErrUnknownDriver = errors.New("store: unknown driver")

var (
	driversMu sync.RWMutex
	drivers   = map[string]Factory{}
)

// Register makes a repository implementation available under name. It panics
// on duplicate registration.
func Register(name string, f Factory) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if f == nil {
		panic("store: Register factory is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("store: Register called twice for driver " + name)
	}
	drivers[name] = f
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the repository named by opts.Driver.
func Open(ctx context.Context, opts Options) (Repository, error) {
	name := opts.Driver
	if name == "" {
		name = DefaultDriver
	}
	driversMu.RLock()
	f, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownDriver, name, Drivers())
	}
	opts.Driver = name
	return f(ctx, opts)
}
