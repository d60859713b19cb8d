package model

import "time"

// Recurrence describes how often a task repeats.
type Recurrence struct {
	Frequency string `json:"frequency"` // e.g. daily, weekly, monthly
	Every     int    `json:"every"`
}

// ChecklistItem is a single line inside a task's checklist.
type ChecklistItem struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// Task represents a single item inside a category.
type Task struct {
	ID          string          `json:"id"`
	Content     string          `json:"content"`
	Priority    int             `json:"priority"`
	Value       int             `json:"value"`
	Active      bool            `json:"active"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	StartTime   *time.Time      `json:"startTime,omitempty"`
	Recurrence  *Recurrence     `json:"recurrence,omitempty"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.Deadline = cloneTime(t.Deadline)
	out.StartDate = cloneTime(t.StartDate)
	out.StartTime = cloneTime(t.StartTime)
	out.CompletedAt = cloneTime(t.CompletedAt)
	if t.Recurrence != nil {
		r := *t.Recurrence
		out.Recurrence = &r
	}
	if t.Checklist != nil {
		out.Checklist = make([]ChecklistItem, len(t.Checklist))
		copy(out.Checklist, t.Checklist)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
