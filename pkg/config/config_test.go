package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/tui/theme"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(NewViper(), "", t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != store.DefaultDriver || cfg.Store.Path != store.DefaultPath {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if !reflect.DeepEqual(cfg.Plugins, []string{"log"}) {
		t.Fatalf("plugins = %v", cfg.Plugins)
	}
	if cfg.Accent != theme.DefaultAccent || cfg.LogFile != "" || cfg.LogLevel != slog.LevelInfo || cfg.File != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestSearchedFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`
store:
  driver: diskv
  path: /tmp/worklog-data
plugins: []
log:
  file: /tmp/worklog.log
  level: debug
theme:
  accent: "#ff8800"
`)
	if err := os.WriteFile(filepath.Join(dir, ".worklog.yaml"), body, 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(NewViper(), "", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Store:    store.Options{Driver: "diskv", Path: "/tmp/worklog-data"},
		LogFile:  "/tmp/worklog.log",
		LogLevel: slog.LevelDebug,
		Accent:   "#ff8800",
		File:     filepath.Join(dir, ".worklog.yaml"),
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("config = %+v, want %+v", cfg, want)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WORKLOG_STORE_DRIVER", "memory")
	t.Setenv("WORKLOG_PLUGINS", "log,audit")
	cfg, err := Load(NewViper(), "", t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("driver = %q", cfg.Store.Driver)
	}
	if !reflect.DeepEqual(cfg.Plugins, []string{"log", "audit"}) {
		t.Fatalf("plugins = %v", cfg.Plugins)
	}
}

func TestExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestBadLogLevel(t *testing.T) {
	t.Setenv("WORKLOG_LOG_LEVEL", "loud")
	if _, err := Load(NewViper(), "", t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestSearchPathsHonourOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/worklog")
	paths := SearchPaths()
	if len(paths) < 2 || paths[0] != "/etc/worklog" || paths[1] != "./" {
		t.Fatalf("paths = %v", paths)
	}
}
