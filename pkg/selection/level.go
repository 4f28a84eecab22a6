// Package selection holds the browsing state of the screen: three label
// levels (months, dates, tasks) whose selected labels filter the next level
// down, and the worklog table at the bottom of the cascade.
package selection

// Placeholder is the non-selectable label shown for a level with no labels.
const Placeholder = "empty"

// Item is one rendered row of a level.
type Item struct {
	Label       string
	Selected    bool
	Highlighted bool
	// Placeholder marks the single non-selectable row of an empty level.
	Placeholder bool
}

// Level is an ordered set of distinct labels with an independent cursor
// (highlight) and selection set. The selection is always a subset of the
// populated labels.
type Level struct {
	name     string
	labels   []string
	selected map[string]bool
	cursor   int
}

// NewLevel returns an empty level.
func NewLevel(name string) *Level {
	return &Level{name: name, selected: map[string]bool{}, cursor: -1}
}

func (l *Level) Name() string { return l.name }

// Populate replaces the labels wholesale. Every label starts selected and the
// first one is highlighted. Duplicates keep their first position.
func (l *Level) Populate(labels []string) {
	l.labels = make([]string, 0, len(labels))
	l.selected = make(map[string]bool, len(labels))
	for _, label := range labels {
		if _, dup := l.selected[label]; dup {
			continue
		}
		l.labels = append(l.labels, label)
		l.selected[label] = true
	}
	l.cursor = -1
	if len(l.labels) > 0 {
		l.cursor = 0
	}
}

// Clear removes every label.
func (l *Level) Clear() {
	l.Populate(nil)
}

// Empty reports whether the level has no labels.
func (l *Level) Empty() bool { return len(l.labels) == 0 }

// Len is the number of labels.
func (l *Level) Len() int { return len(l.labels) }

// Labels returns a copy of the labels in order.
func (l *Level) Labels() []string {
	return append([]string(nil), l.labels...)
}

// Has reports whether label is populated.
func (l *Level) Has(label string) bool {
	_, ok := l.selected[label]
	return ok
}

// Selected returns the selected labels in level order.
func (l *Level) Selected() []string {
	out := make([]string, 0, len(l.labels))
	for _, label := range l.labels {
		if l.selected[label] {
			out = append(out, label)
		}
	}
	return out
}

// IsSelected reports whether label is selected.
func (l *Level) IsSelected(label string) bool { return l.selected[label] }

// Highlighted returns the label under the cursor.
func (l *Level) Highlighted() (string, bool) {
	if l.cursor < 0 || l.cursor >= len(l.labels) {
		return "", false
	}
	return l.labels[l.cursor], true
}

// Cursor returns the highlighted index, or -1.
func (l *Level) Cursor() int { return l.cursor }

// Move shifts the highlight by delta, clamped to the labels.
func (l *Level) Move(delta int) {
	if len(l.labels) == 0 {
		return
	}
	l.cursor = clamp(l.cursor+delta, 0, len(l.labels)-1)
}

// Home and End jump to the first or last label.
func (l *Level) Home() {
	if len(l.labels) > 0 {
		l.cursor = 0
	}
}

func (l *Level) End() {
	if len(l.labels) > 0 {
		l.cursor = len(l.labels) - 1
	}
}

// Toggle flips the selection of the highlighted label. It reports whether
// anything changed.
func (l *Level) Toggle() bool {
	label, ok := l.Highlighted()
	if !ok {
		return false
	}
	l.selected[label] = !l.selected[label]
	return true
}

// SelectOnlyHighlighted deselects everything but the highlighted label.
func (l *Level) SelectOnlyHighlighted() bool {
	label, ok := l.Highlighted()
	if !ok {
		return false
	}
	for k := range l.selected {
		l.selected[k] = false
	}
	l.selected[label] = true
	return true
}

// SelectAll selects every label.
func (l *Level) SelectAll() bool {
	if len(l.labels) == 0 {
		return false
	}
	for k := range l.selected {
		l.selected[k] = true
	}
	return true
}

// Items renders the level, substituting the placeholder when empty.
func (l *Level) Items() []Item {
	if len(l.labels) == 0 {
		return []Item{{Label: Placeholder, Placeholder: true}}
	}
	items := make([]Item, len(l.labels))
	for i, label := range l.labels {
		items[i] = Item{
			Label:       label,
			Selected:    l.selected[label],
			Highlighted: i == l.cursor,
		}
	}
	return items
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
