// Package storetest holds the behaviour every store.Repository must share.
package storetest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/worklog"
)

// Opener returns an empty repository. The suite closes it.
type Opener func(t *testing.T) store.Repository

// Fixture is the three entry scenario used throughout the suite.
func Fixture() []worklog.Entity {
	return []worklog.Entity{
		worklog.New("2024-01-05", "build", "2H"),
		worklog.New("2024-01-06", "build", "1H"),
		worklog.New("2024-02-01", "deploy", "3H"),
	}
}

// Seed saves entries into repo and returns them with ids.
func Seed(t *testing.T, repo store.Repository, entries ...worklog.Entity) []worklog.Entity {
	t.Helper()
	out := make([]worklog.Entity, 0, len(entries))
	for _, e := range entries {
		saved, err := repo.Save(context.Background(), e)
		if err != nil {
			t.Fatalf("seed %v: %v", e, err)
		}
		out = append(out, saved)
	}
	return out
}

// Run exercises the repository contract against fresh repositories.
func Run(t *testing.T, open Opener) {
	tests := map[string]func(t *testing.T, repo store.Repository){
		"Scenario":            testScenario,
		"AllMonthsPresent":    testAllMonthsPresent,
		"EmptyFilters":        testEmptyFilters,
		"ExactMembership":     testExactMembership,
		"SaveRoundTrip":       testSaveRoundTrip,
		"SaveIgnoresID":       testSaveIgnoresID,
		"SaveValidation":      testSaveValidation,
		"InvalidDate":         testInvalidDate,
		"Update":              testUpdate,
		"UpdateMissing":       testUpdateMissing,
		"DeleteIdempotent":    testDeleteIdempotent,
		"WorklogOrdering":     testWorklogOrdering,
		"EmptyStoreHasNoYear": testEmptyStore,
	}
	for name, fn := range tests {
		fn := fn
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			t.Cleanup(func() { _ = repo.Close() })
			fn(t, repo)
		})
	}
}

func equal(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}

// must takes a (value, error) pair and fails the test on error once t is supplied.
func must[T any](v T, err error) func(t *testing.T) T {
	return func(t *testing.T) T {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

func testScenario(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	Seed(t, repo, Fixture()...)

	years := must(repo.Years(ctx))(t)
	equal(t, "years", years, []string{"2024"})
	equal(t, "months", must(repo.Months(ctx, years))(t), []string{"01", "02"})

	dates := must(repo.Dates(ctx, years, []string{"01"}))(t)
	equal(t, "dates", dates, []string{"2024-01-05", "2024-01-06"})

	tasks := must(repo.Tasks(ctx, dates))(t)
	equal(t, "tasks", tasks, []string{"build"})

	logs := must(repo.Worklogs(ctx, dates, tasks))(t)
	if len(logs) != 2 {
		t.Fatalf("expected 2 worklogs, got %v", logs)
	}
	if logs[0].Date != "2024-01-05" || logs[1].Date != "2024-01-06" {
		t.Fatalf("worklogs not in date order: %v", logs)
	}
}

func testAllMonthsPresent(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	Seed(t, repo,
		worklog.New("2023-12-31", "a", "1H"),
		worklog.New("2024-03-01", "b", "1H"),
		worklog.New("2024-03-02", "b", "1H"),
		worklog.New("2025-07-14", "c", "1H"),
	)
	years := must(repo.Years(ctx))(t)
	equal(t, "years", years, []string{"2023", "2024", "2025"})
	equal(t, "months", must(repo.Months(ctx, years))(t), []string{"03", "07", "12"})
}

func testEmptyFilters(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	Seed(t, repo, Fixture()...)

	equal(t, "months of no year", must(repo.Months(ctx, nil))(t), nil)
	equal(t, "dates of no month", must(repo.Dates(ctx, []string{"2024"}, nil))(t), nil)
	equal(t, "dates of no year", must(repo.Dates(ctx, nil, []string{"01"}))(t), nil)
	equal(t, "tasks of no date", must(repo.Tasks(ctx, []string{}))(t), nil)
	if logs := must(repo.Worklogs(ctx, []string{"2024-01-05"}, nil))(t); len(logs) != 0 {
		t.Fatalf("expected no worklogs without tasks, got %v", logs)
	}
	if logs := must(repo.Worklogs(ctx, nil, []string{"build"}))(t); len(logs) != 0 {
		t.Fatalf("expected no worklogs without dates, got %v", logs)
	}
}

func testExactMembership(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	Seed(t, repo,
		worklog.New("2024-01-05", "build", "2H"),
		worklog.New("2024-01-05", "build-docs", "1H"),
	)
	equal(t, "prefix month", must(repo.Dates(ctx, []string{"2024"}, []string{"1"}))(t), nil)
	equal(t, "prefix year", must(repo.Months(ctx, []string{"202"}))(t), nil)
	equal(t, "prefix date", must(repo.Tasks(ctx, []string{"2024-01"}))(t), nil)

	logs := must(repo.Worklogs(ctx, []string{"2024-01-05"}, []string{"build"}))(t)
	if len(logs) != 1 || logs[0].Task != "build" {
		t.Fatalf("expected only the exact task, got %v", logs)
	}
}

func testSaveRoundTrip(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	e := worklog.New("2024-05-10", "review", "45M")
	saved := must(repo.Save(ctx, e))(t)
	if !saved.Persisted() {
		t.Fatalf("expected assigned id, got %v", saved)
	}
	logs := must(repo.Worklogs(ctx, []string{e.Date}, []string{e.Task}))(t)
	if len(logs) != 1 {
		t.Fatalf("expected exactly one worklog, got %v", logs)
	}
	got := logs[0]
	if got.Key() != saved.Key() || got.Date != e.Date || got.Task != e.Task || got.Duration != e.Duration {
		t.Fatalf("round trip mismatch: saved %v, got %v", saved, got)
	}
}

func testSaveIgnoresID(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	first := must(repo.Save(ctx, worklog.New("2024-05-10", "a", "1H")))(t)
	second := must(repo.Save(ctx, worklog.New("2024-05-10", "b", "1H").WithID(first.Key())))(t)
	if second.Key() == first.Key() {
		t.Fatalf("save reused caller id %d", first.Key())
	}
	logs := must(repo.Worklogs(ctx, []string{"2024-05-10"}, []string{"a", "b"}))(t)
	if len(logs) != 2 {
		t.Fatalf("expected both entries kept, got %v", logs)
	}
}

func testSaveValidation(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	for _, e := range []worklog.Entity{
		worklog.New("", "a", "1H"),
		worklog.New("2024-05-10", "", "1H"),
		worklog.New("2024-05-10", "a", ""),
	} {
		if _, err := repo.Save(ctx, e); !errors.Is(err, worklog.ErrValidation) {
			t.Fatalf("Save(%v) error = %v, want validation error", e, err)
		}
	}
	equal(t, "years", must(repo.Years(ctx))(t), nil)
}

func testInvalidDate(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	for _, date := range []string{"2024-02-30", "2024-13-01", "2024-1-05", "05-01-2024"} {
		_, err := repo.Save(ctx, worklog.New(date, "a", "1H"))
		var verr *worklog.ValidationError
		if !errors.As(err, &verr) || verr.Field != worklog.FieldDate {
			t.Fatalf("Save(%q) error = %v, want date validation error", date, err)
		}
	}
	equal(t, "years", must(repo.Years(ctx))(t), nil)

	saved := Seed(t, repo, Fixture()...)
	changed := saved[0]
	changed.Date = "2024-02-30"
	if _, err := repo.Update(ctx, changed); !errors.Is(err, worklog.ErrValidation) {
		t.Fatalf("Update to %q error = %v, want validation error", changed.Date, err)
	}
	equal(t, "months", must(repo.Months(ctx, []string{"2024"}))(t), []string{"01", "02"})
}

func testUpdate(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	saved := Seed(t, repo, Fixture()...)
	changed := saved[0]
	changed.Duration = "4H"
	changed.Task = "build-fix"
	got := must(repo.Update(ctx, changed))(t)
	if got.Key() != saved[0].Key() || got.Duration != "4H" {
		t.Fatalf("unexpected update result %v", got)
	}
	logs := must(repo.Worklogs(ctx, []string{"2024-01-05"}, []string{"build", "build-fix"}))(t)
	if len(logs) != 1 || logs[0].Task != "build-fix" || logs[0].Duration != "4H" {
		t.Fatalf("update not persisted: %v", logs)
	}
}

func testUpdateMissing(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	Seed(t, repo, Fixture()...)
	_, err := repo.Update(ctx, worklog.New("2024-01-05", "x", "1H").WithID(9999))
	if !errors.Is(err, worklog.ErrNotFound) {
		t.Fatalf("Update missing id error = %v, want not found", err)
	}
	if _, err := repo.Update(ctx, worklog.New("2024-01-05", "x", "1H")); !errors.Is(err, worklog.ErrValidation) {
		t.Fatalf("Update without id error = %v, want validation", err)
	}
}

func testDeleteIdempotent(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	saved := Seed(t, repo, Fixture()...)
	id := saved[1].Key()
	for i := 0; i < 2; i++ {
		got, err := repo.Delete(ctx, id)
		if err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
		if got != id {
			t.Fatalf("delete returned %d, want %d", got, id)
		}
	}
	logs := must(repo.Worklogs(ctx, []string{"2024-01-05", "2024-01-06"}, []string{"build"}))(t)
	if len(logs) != 1 || logs[0].Key() != saved[0].Key() {
		t.Fatalf("expected only the first entry left, got %v", logs)
	}
}

func testWorklogOrdering(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	Seed(t, repo,
		worklog.New("2024-01-06", "b", "1H"),
		worklog.New("2024-01-05", "z", "1H"),
		worklog.New("2024-01-05", "a", "1H"),
	)
	logs := must(repo.Worklogs(ctx, []string{"2024-01-05", "2024-01-06"}, []string{"a", "b", "z"}))(t)
	got := make([]string, 0, len(logs))
	for _, e := range logs {
		got = append(got, e.Date+"/"+e.Task)
	}
	equal(t, "order", got, []string{"2024-01-05/a", "2024-01-05/z", "2024-01-06/b"})
}

func testEmptyStore(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	equal(t, "years", must(repo.Years(ctx))(t), nil)
	equal(t, "months", must(repo.Months(ctx, []string{"2024"}))(t), nil)
}
