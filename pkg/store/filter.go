package store

import (
	"sort"

	"tableflip.dev/worklog/pkg/worklog"
)

// Helpers for repositories that answer queries by scanning every entry.

type stringSet map[string]struct{}

func newStringSet(values []string) stringSet {
	s := make(stringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func scanYears(all []worklog.Entity) []string {
	found := stringSet{}
	for _, e := range all {
		if worklog.ValidDate(e.Date) {
			found[e.Year()] = struct{}{}
		}
	}
	return found.sorted()
}

func scanMonths(all []worklog.Entity, years []string) []string {
	ys := newStringSet(years)
	found := stringSet{}
	for _, e := range all {
		if worklog.ValidDate(e.Date) && ys.has(e.Year()) {
			found[e.Month()] = struct{}{}
		}
	}
	return found.sorted()
}

func scanDates(all []worklog.Entity, years, months []string) []string {
	if len(years) == 0 || len(months) == 0 {
		return []string{}
	}
	ys, ms := newStringSet(years), newStringSet(months)
	found := stringSet{}
	for _, e := range all {
		if worklog.ValidDate(e.Date) && ys.has(e.Year()) && ms.has(e.Month()) {
			found[e.Date] = struct{}{}
		}
	}
	return found.sorted()
}

func scanTasks(all []worklog.Entity, dates []string) []string {
	ds := newStringSet(dates)
	found := stringSet{}
	for _, e := range all {
		if ds.has(e.Date) {
			found[e.Task] = struct{}{}
		}
	}
	return found.sorted()
}

func scanWorklogs(all []worklog.Entity, dates, tasks []string) []worklog.Entity {
	ds, ts := newStringSet(dates), newStringSet(tasks)
	out := make([]worklog.Entity, 0)
	for _, e := range all {
		if ds.has(e.Date) && ts.has(e.Task) {
			out = append(out, e)
		}
	}
	sortEntities(out)
	return out
}

func sortEntities(entries []worklog.Entity) {
	sort.SliceStable(entries, func(i, j int) bool {
		left, right := entries[i], entries[j]
		if left.Date != right.Date {
			return left.Date < right.Date
		}
		if left.Task != right.Task {
			return left.Task < right.Task
		}
		return left.Key() < right.Key()
	})
}

func checkUpdate(e worklog.Entity) error {
	if e.ID == nil {
		return &worklog.ValidationError{Field: worklog.FieldID, Reason: "required"}
	}
	return e.Validate()
}
