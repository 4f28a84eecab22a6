package store

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
)

const (
	// DefaultDriver is used when no driver is configured.
	DefaultDriver = "sqlite"
	// DefaultPath is the default location of the store.
	DefaultPath = "~/.worklog.db"
)

// Options selects and configures a repository implementation.
type Options struct {
	Driver string
	// Path is a database file for sqlite and a base directory for diskv. A
	// leading ~ is expanded to the user's home directory.
	Path string
}

// ResolvedPath returns Path with ~ expanded, or the expanded default.
func (o Options) ResolvedPath() (string, error) {
	p := o.Path
	if p == "" {
		p = DefaultPath
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("store: expand path %q: %w", p, err)
	}
	return expanded, nil
}
