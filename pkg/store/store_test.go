package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/store/storetest"
)

func TestMemoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		return store.NewMemory()
	})
}

func TestSQLiteContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "worklog.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return repo
	})
}

func TestDiskvContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		repo, err := store.OpenDiskv(filepath.Join(t.TempDir(), "worklog"))
		if err != nil {
			t.Fatalf("open diskv: %v", err)
		}
		return repo
	})
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "worklog.db")
	repo, err := store.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	saved := storetest.Seed(t, repo, storetest.Fixture()...)
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	repo, err = store.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	logs, err := repo.Worklogs(ctx, []string{"2024-02-01"}, []string{"deploy"})
	if err != nil {
		t.Fatalf("worklogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Key() != saved[2].Key() {
		t.Fatalf("expected persisted deploy entry, got %v", logs)
	}
}

func TestDiskvContinuesIDsAcrossOpen(t *testing.T) {
	base := filepath.Join(t.TempDir(), "worklog")
	repo, err := store.OpenDiskv(base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first := storetest.Seed(t, repo, storetest.Fixture()...)

	repo, err = store.OpenDiskv(base)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	next := storetest.Seed(t, repo, storetest.Fixture()[0])
	if next[0].Key() <= first[2].Key() {
		t.Fatalf("id %d reused after reopen (last was %d)", next[0].Key(), first[2].Key())
	}
}

func TestOpenByDriver(t *testing.T) {
	ctx := context.Background()
	for _, tt := range []struct {
		driver string
		path   string
	}{
		{driver: "memory"},
		{driver: "sqlite", path: filepath.Join(t.TempDir(), "w.db")},
		{driver: "diskv", path: filepath.Join(t.TempDir(), "w")},
	} {
		repo, err := store.Open(ctx, store.Options{Driver: tt.driver, Path: tt.path})
		if err != nil {
			t.Fatalf("open %s: %v", tt.driver, err)
		}
		_ = repo.Close()
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := store.Open(context.Background(), store.Options{Driver: "postgres"})
	if !errors.Is(err, store.ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestDriversRegistered(t *testing.T) {
	want := map[string]bool{"diskv": false, "memory": false, "sqlite": false}
	for _, name := range store.Drivers() {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("driver %q not registered", name)
		}
	}
}

func TestResolvedPathDefaults(t *testing.T) {
	p, err := store.Options{}.ResolvedPath()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p == store.DefaultPath || filepath.Base(p) != ".worklog.db" {
		t.Fatalf("expected expanded default path, got %q", p)
	}
}
