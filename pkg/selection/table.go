package selection

import "tableflip.dev/worklog/pkg/worklog"

// Table is the worklog grid: rows keyed uniquely by entity id in the order
// the repository returned them.
type Table struct {
	rows   []worklog.Entity
	index  map[int64]int
	cursor int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: map[int64]int{}, cursor: -1}
}

// Rebuild replaces every row. A repeated id keeps the position of its first
// occurrence and the values of its last. Unsaved entities are skipped.
func (t *Table) Rebuild(entities []worklog.Entity) {
	t.rows = make([]worklog.Entity, 0, len(entities))
	t.index = make(map[int64]int, len(entities))
	for _, e := range entities {
		if !e.Persisted() {
			continue
		}
		if at, ok := t.index[e.Key()]; ok {
			t.rows[at] = e
			continue
		}
		t.index[e.Key()] = len(t.rows)
		t.rows = append(t.rows, e)
	}
	t.cursor = clamp(t.cursor, 0, len(t.rows)-1)
	if len(t.rows) == 0 {
		t.cursor = -1
	}
}

// Clear removes every row.
func (t *Table) Clear() {
	t.Rebuild(nil)
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []worklog.Entity {
	return append([]worklog.Entity(nil), t.rows...)
}

func (t *Table) Len() int { return len(t.rows) }

// Get returns the row with id.
func (t *Table) Get(id int64) (worklog.Entity, bool) {
	at, ok := t.index[id]
	if !ok {
		return worklog.Entity{}, false
	}
	return t.rows[at], true
}

// Remove drops the row with id, keeping the cursor on a neighbour.
func (t *Table) Remove(id int64) bool {
	at, ok := t.index[id]
	if !ok {
		return false
	}
	t.rows = append(t.rows[:at], t.rows[at+1:]...)
	delete(t.index, id)
	for i := at; i < len(t.rows); i++ {
		t.index[t.rows[i].Key()] = i
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	return true
}

// Current returns the row under the cursor.
func (t *Table) Current() (worklog.Entity, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return worklog.Entity{}, false
	}
	return t.rows[t.cursor], true
}

// Cursor returns the cursor row index, or -1.
func (t *Table) Cursor() int { return t.cursor }

// Move shifts the cursor by delta, clamped to the rows.
func (t *Table) Move(delta int) {
	if len(t.rows) == 0 {
		return
	}
	t.cursor = clamp(t.cursor+delta, 0, len(t.rows)-1)
}

func (t *Table) Home() {
	if len(t.rows) > 0 {
		t.cursor = 0
	}
}

func (t *Table) End() {
	if len(t.rows) > 0 {
		t.cursor = len(t.rows) - 1
	}
}
