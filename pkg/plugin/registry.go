package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"tableflip.dev/worklog/pkg/worklog"
)

// Failure reports a plugin whose OnSave returned an error or panicked.
type Failure struct {
	Plugin string
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("plugin %s: %v", f.Plugin, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

type registered struct {
	name   string
	plugin Plugin
}

// Column is a plugin-provided worklog table column.
type Column struct {
	Name   string
	Plugin string
	render CellRenderer
}

// Cell returns the value for e, blank when the plugin does not render cells.
func (c Column) Cell(e worklog.Entity) string {
	if c.render == nil {
		return ""
	}
	return c.render.Cell(e, c.Name)
}

// Registry is the ordered set of active plugins. Registration order is
// notification and column order.
type Registry struct {
	plugins []registered
	logger  *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{logger: logger}
}

// Register appends p under name.
func (r *Registry) Register(name string, p Plugin) {
	r.plugins = append(r.plugins, registered{name: name, plugin: p})
}

// Names returns the registered plugin names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.plugins))
	for i, p := range r.plugins {
		names[i] = p.name
	}
	return names
}

// Columns collects every plugin's columns in registration order.
func (r *Registry) Columns() []Column {
	var cols []Column
	for _, p := range r.plugins {
		render, _ := p.plugin.(CellRenderer)
		for _, name := range p.plugin.Columns() {
			cols = append(cols, Column{Name: name, Plugin: p.name, render: render})
		}
	}
	return cols
}

// NotifySave calls OnSave on every plugin in order. A failing or panicking
// plugin does not stop the others; failures are returned joined, each as a
// *Failure.
func (r *Registry) NotifySave(ctx context.Context, e worklog.Entity) error {
	var errs []error
	for _, p := range r.plugins {
		if err := r.call(ctx, p, e); err != nil {
			r.logger.Warn("plugin on save failed", "plugin", p.name, "id", e.Key(), "error", err)
			errs = append(errs, &Failure{Plugin: p.name, Err: err})
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) call(ctx context.Context, p registered, e worklog.Entity) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return p.plugin.OnSave(ctx, e)
}
