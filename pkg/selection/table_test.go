package selection

import (
	"testing"

	"tableflip.dev/worklog/pkg/worklog"
)

func TestRebuildCollapsesDuplicateIDs(t *testing.T) {
	tbl := NewTable()
	tbl.Rebuild([]worklog.Entity{
		worklog.New("2024-01-05", "build", "2H").WithID(1),
		worklog.New("2024-01-06", "build", "1H").WithID(2),
		worklog.New("2024-01-07", "build", "5H").WithID(1),
		worklog.New("2024-01-08", "unsaved", "1H"),
	})

	rows := tbl.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %v", rows)
	}
	if rows[0].Key() != 1 || rows[0].Duration != "5H" {
		t.Fatalf("expected first row to be id 1 with last values, got %v", rows[0])
	}
	if rows[1].Key() != 2 {
		t.Fatalf("expected second row id 2, got %v", rows[1])
	}
}

func TestRemoveKeepsIndexConsistent(t *testing.T) {
	tbl := NewTable()
	tbl.Rebuild([]worklog.Entity{
		worklog.New("2024-01-05", "a", "1H").WithID(10),
		worklog.New("2024-01-05", "b", "1H").WithID(11),
		worklog.New("2024-01-05", "c", "1H").WithID(12),
	})
	tbl.End()
	if !tbl.Remove(11) {
		t.Fatalf("remove reported missing row")
	}
	if tbl.Remove(11) {
		t.Fatalf("second remove should report missing row")
	}
	if e, ok := tbl.Get(12); !ok || e.Task != "c" {
		t.Fatalf("index stale after remove: %v %v", e, ok)
	}
	if cur, ok := tbl.Current(); !ok || cur.Key() != 12 {
		t.Fatalf("cursor row = %v, want id 12", cur)
	}
	tbl.Remove(12)
	if cur, ok := tbl.Current(); !ok || cur.Key() != 10 {
		t.Fatalf("cursor row = %v, want id 10", cur)
	}
	tbl.Remove(10)
	if _, ok := tbl.Current(); ok || tbl.Cursor() != -1 {
		t.Fatalf("expected no current row on empty table")
	}
}

func TestStateClear(t *testing.T) {
	s := New()
	s.Months.Populate([]string{"01"})
	s.Dates.Populate([]string{"2024-01-05"})
	s.Tasks.Populate([]string{"build"})
	s.Worklogs.Rebuild([]worklog.Entity{worklog.New("2024-01-05", "build", "1H").WithID(1)})

	s.Clear()
	for _, k := range []Kind{Months, Dates, Tasks} {
		if !s.Level(k).Empty() {
			t.Fatalf("%s not cleared", k)
		}
	}
	if s.Worklogs.Len() != 0 {
		t.Fatalf("worklogs not cleared")
	}
	if s.Level(Worklogs) != nil {
		t.Fatalf("worklogs has no label level")
	}
}
