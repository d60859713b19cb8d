// Package views derives flattened, filtered task lists from a store
// snapshot. Functions are pure over (snapshot, now); the flattening is
// memoized on the snapshot version so unrelated state changes never
// trigger a recompute. "Today" checks use calendar-day granularity in
// the caller's reference location; past/future checks compare full
// instants. A task missing the relevant date field is excluded from
// that view, never coerced to now.
package views

import (
	"sync"
	"time"

	"tasksync/internal/model"
	"tasksync/internal/store"
)

// AnnotatedTask is a task tagged with its owning category.
type AnnotatedTask struct {
	model.Task
	CategoryID   string
	CategoryName string
}

// Calculator caches the flattened task list per snapshot version.
type Calculator struct {
	mu      sync.Mutex
	version uint64
	valid   bool
	flat    []AnnotatedTask
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Flatten returns every task of every category of every workspace,
// annotated with its category. The result is shared and read-only.
func (c *Calculator) Flatten(snap store.Snapshot) []AnnotatedTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.version == snap.Version {
		return c.flat
	}
	var flat []AnnotatedTask
	for _, workspace := range snap.Workspaces {
		for _, category := range workspace.Categories {
			for _, task := range category.Tasks {
				flat = append(flat, AnnotatedTask{
					Task:         task,
					CategoryID:   category.ID,
					CategoryName: category.Name,
				})
			}
		}
	}
	c.version = snap.Version
	c.valid = true
	c.flat = flat
	return flat
}

// StartedToday returns tasks whose start date falls on now's calendar day.
func (c *Calculator) StartedToday(snap store.Snapshot, now time.Time) []AnnotatedTask {
	return c.filter(snap, func(t AnnotatedTask) bool {
		return t.StartDate != nil && sameDay(*t.StartDate, now)
	})
}

// DueToday returns tasks whose deadline falls on now's calendar day.
func (c *Calculator) DueToday(snap store.Snapshot, now time.Time) []AnnotatedTask {
	return c.filter(snap, func(t AnnotatedTask) bool {
		return t.Deadline != nil && sameDay(*t.Deadline, now)
	})
}

// InWindow returns tasks where startDate <= now <= deadline. Both
// fields must be present.
func (c *Calculator) InWindow(snap store.Snapshot, now time.Time) []AnnotatedTask {
	return c.filter(snap, func(t AnnotatedTask) bool {
		return t.StartDate != nil && t.Deadline != nil &&
			!t.StartDate.After(now) && !t.Deadline.Before(now)
	})
}

// PastStart returns tasks whose start instant is already behind now.
func (c *Calculator) PastStart(snap store.Snapshot, now time.Time) []AnnotatedTask {
	return c.filter(snap, func(t AnnotatedTask) bool {
		return t.StartDate != nil && t.StartDate.Before(now)
	})
}

// PastDue returns tasks whose deadline instant is already behind now.
func (c *Calculator) PastDue(snap store.Snapshot, now time.Time) []AnnotatedTask {
	return c.filter(snap, func(t AnnotatedTask) bool {
		return t.Deadline != nil && t.Deadline.Before(now)
	})
}

// FutureDue returns tasks whose deadline instant is ahead of now.
func (c *Calculator) FutureDue(snap store.Snapshot, now time.Time) []AnnotatedTask {
	return c.filter(snap, func(t AnnotatedTask) bool {
		return t.Deadline != nil && t.Deadline.After(now)
	})
}

// ForDate returns tasks that start on, are due on, or span the given
// calendar day.
func (c *Calculator) ForDate(snap store.Snapshot, date time.Time) []AnnotatedTask {
	return c.filter(snap, func(t AnnotatedTask) bool {
		if t.StartDate != nil && sameDay(*t.StartDate, date) {
			return true
		}
		if t.Deadline != nil && sameDay(*t.Deadline, date) {
			return true
		}
		if t.StartDate != nil && t.Deadline != nil {
			return !t.StartDate.After(date) && !t.Deadline.Before(date)
		}
		return false
	})
}

// Unscheduled returns tasks with neither a start date nor a deadline.
func (c *Calculator) Unscheduled(snap store.Snapshot) []AnnotatedTask {
	return c.filter(snap, func(t AnnotatedTask) bool {
		return t.StartDate == nil && t.Deadline == nil
	})
}

func (c *Calculator) filter(snap store.Snapshot, keep func(AnnotatedTask) bool) []AnnotatedTask {
	var out []AnnotatedTask
	for _, t := range c.Flatten(snap) {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func sameDay(t, ref time.Time) bool {
	t = t.In(ref.Location())
	return t.Year() == ref.Year() && t.Month() == ref.Month() && t.Day() == ref.Day()
}
