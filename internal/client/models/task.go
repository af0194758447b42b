// Package models defines the client-side task data model: clients owning
// ordered task lists, task urgency, deadlines and derived progress figures.
package models

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
)

// Urgency is the priority level of a task.
type Urgency string

const (
	UrgencyHigh   Urgency = "alta"
	UrgencyMedium Urgency = "media"
	UrgencyLow    Urgency = "baixa"
)

// Rank orders urgencies: higher is more urgent. Unknown values rank lowest.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

func (u Urgency) Valid() bool { return u.Rank() > 0 }

// ParseUrgency accepts the wire values plus a few English aliases.
// An empty string yields UrgencyMedium.
func ParseUrgency(s string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return UrgencyMedium, nil
	case "alta", "high", "h":
		return UrgencyHigh, nil
	case "media", "média", "medium", "m":
		return UrgencyMedium, nil
	case "baixa", "low", "l":
		return UrgencyLow, nil
	}
	return "", fmt.Errorf("%w: unknown urgency %q", common.ErrValidation, s)
}

// Deadline is an optional local date-time kept in the string form it was
// written with, so documents round-trip byte-for-byte. The zero value means
// "no deadline".
type Deadline string

var deadlineLayouts = []string{
	common.DeadlineLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func NewDeadline(t time.Time) Deadline {
	return Deadline(t.Format(common.DeadlineLayout))
}

// ParseDeadline validates s and returns it in canonical form.
// An empty string is a valid "no deadline".
func ParseDeadline(s string) (Deadline, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, ok := Deadline(s).Time()
	if !ok {
		return "", fmt.Errorf("%w: invalid deadline %q, expected %s", common.ErrValidation, s, common.DeadlineLayout)
	}
	return NewDeadline(t), nil
}

func (d Deadline) IsSet() bool {
	_, ok := d.Time()
	return ok
}

// Time parses the deadline. Zone-less forms are read in local time.
func (d Deadline) Time() (time.Time, bool) {
	if d == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, string(d)); err == nil {
		return t, true
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, string(d), time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Task is a single unit of work owned by a client.
type Task struct {
	ID        int64    `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Archived  bool     `json:"archived"`
	Deadline  Deadline `json:"deadline,omitempty"`
	Urgency   Urgency  `json:"urgency"`
	Notes     string   `json:"notes"`
}

// Pending reports whether the task still needs work.
func (t Task) Pending() bool { return !t.Completed && !t.Archived }

// IsOverdue is true for pending tasks whose deadline is before now.
func (t Task) IsOverdue(now time.Time) bool {
	if !t.Pending() {
		return false
	}
	d, ok := t.Deadline.Time()
	return ok && d.Before(now)
}

// CompareUrgency sorts more urgent tasks first. Ties are broken by putting
// tasks with a deadline before those without, then earlier deadlines first.
func CompareUrgency(a, b Task) int {
	if c := cmp.Compare(b.Urgency.Rank(), a.Urgency.Rank()); c != 0 {
		return c
	}
	da, okA := a.Deadline.Time()
	db, okB := b.Deadline.Time()
	switch {
	case okA && okB:
		return da.Compare(db)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

// TaskView is a task flattened together with its owning client.
type TaskView struct {
	Task
	ClientID   int64  `json:"clientId"`
	ClientName string `json:"clientName"`
}

// SortByUrgency orders views in place, keeping insertion order among equals.
func SortByUrgency(views []TaskView) {
	slices.SortStableFunc(views, func(a, b TaskView) int {
		return CompareUrgency(a.Task, b.Task)
	})
}
