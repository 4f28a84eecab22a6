package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"tableflip.dev/worklog/pkg/config"
	"tableflip.dev/worklog/pkg/plugin"
	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/tui/app"
	"tableflip.dev/worklog/pkg/tui/theme"
)

// ErrNotTerminal is returned when stdin cannot drive the full-screen UI.
var ErrNotTerminal = errors.New("worklog: stdin is not a terminal")

// session holds everything opened for one run of the UI.
type session struct {
	logger  *slog.Logger
	repo    store.Repository
	plugins *plugin.Registry
	theme   theme.Theme
	closers []io.Closer
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	return errors.Join(errs...)
}

// openSession builds the logger, repository, plugins and theme from cfg.
// Plugin problems are reported on warn and do not stop the session.
func openSession(ctx context.Context, warn io.Writer, cfg config.Config) (*session, error) {
	s := &session{}
	logger, closer, err := openLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s.logger = logger
	if closer != nil {
		s.closers = append(s.closers, closer)
	}

	repo, err := store.Open(ctx, cfg.Store)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.repo = repo
	s.closers = append(s.closers, repo)

	plugins, err := plugin.Load(cfg.Plugins, logger)
	if err != nil {
		logger.Warn("plugins skipped", "error", err)
		_, _ = color.New(color.FgYellow).Fprintf(warn, "warning: %v\n", err)
	}
	s.plugins = plugins

	s.theme, err = theme.New(cfg.Accent, termenv.HasDarkBackground())
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	logger.Info("session opened",
		"config", cfg.File,
		"driver", cfg.Store.Driver,
		"plugins", plugins.Names(),
	)
	return s, nil
}

func runSession(ctx context.Context, warn io.Writer, cfg config.Config) error {
	s, err := openSession(ctx, warn, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if fd := os.Stdin.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNotTerminal
	}

	err = app.Run(ctx, app.Options{
		Repository: s.repo,
		Plugins:    s.plugins,
		Logger:     s.logger,
		Theme:      s.theme,
	})
	s.logger.Info("session closed", "error", err)
	return err
}

// openLogger writes JSON records to path. Without a path logs are dropped,
// the terminal belongs to the UI.
func openLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}
