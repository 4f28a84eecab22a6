// Package worklog defines the worklog entry model shared by the stores, the
// cascade controller and the terminal UI.
package worklog

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the only accepted calendar date format.
	DateLayout = "2006-01-02"
)

// Entity is one persisted record of time spent on a task on a date. ID is nil
// until the entity has been saved by a repository.
type Entity struct {
	ID       *int64 `json:"id,omitempty"`
	Date     string `json:"date"`
	Task     string `json:"task"`
	Duration string `json:"duration"`
}

// New returns an unsaved entity.
func New(date, task, duration string) Entity {
	return Entity{Date: date, Task: task, Duration: duration}
}

// WithID returns a copy of e carrying id.
func (e Entity) WithID(id int64) Entity {
	e.ID = &id
	return e
}

// Persisted reports whether e has been assigned an id.
func (e Entity) Persisted() bool {
	return e.ID != nil
}

// Key returns the id of a persisted entity, or zero.
func (e Entity) Key() int64 {
	if e.ID == nil {
		return 0
	}
	return *e.ID
}

// Year returns the YYYY part of the date.
func (e Entity) Year() string {
	if len(e.Date) < 4 {
		return ""
	}
	return e.Date[:4]
}

// Month returns the MM part of the date.
func (e Entity) Month() string {
	if len(e.Date) < 7 {
		return ""
	}
	return e.Date[5:7]
}

func (e Entity) String() string {
	id := "new"
	if e.ID != nil {
		id = fmt.Sprintf("%d", *e.ID)
	}
	return fmt.Sprintf("%s %s %s (%s)", e.Date, e.Task, e.Duration, id)
}

// Validate checks that date, task and duration are present and that the
// date is a calendar date.
func (e Entity) Validate() error {
	switch {
	case strings.TrimSpace(e.Date) == "":
		return &ValidationError{Field: FieldDate, Reason: "required"}
	case !ValidDate(e.Date):
		return &ValidationError{Field: FieldDate, Reason: "must be YYYY-MM-DD"}
	case strings.TrimSpace(e.Task) == "":
		return &ValidationError{Field: FieldTask, Reason: "required"}
	case strings.TrimSpace(e.Duration) == "":
		return &ValidationError{Field: FieldDuration, Reason: "required"}
	}
	return nil
}

// ValidDate reports whether s is a real calendar date written exactly as
// YYYY-MM-DD. "2024-1-5" and "2024-02-30" are rejected.
func ValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == s
}
