package views

import (
	"testing"
	"time"

	"tasksync/internal/model"
	"tasksync/internal/store"
)

func snapshotWith(tasks map[string][]model.Task) store.Snapshot {
	s := store.New(nil, nil)
	var categories []model.Category
	for name, ts := range tasks {
		categories = append(categories, model.Category{ID: "cat-" + name, Name: name, Tasks: ts})
	}
	s.Replace([]model.Workspace{{Name: "W", Categories: categories}})
	return s.Snapshot()
}

func ptr(t time.Time) *time.Time { return &t }

func TestDueTodayVersusPastDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	dueToday := model.Task{ID: "due-today", Content: "today 09:00",
		Deadline: ptr(time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))}
	pastDue := model.Task{ID: "past-due", Content: "yesterday 23:00",
		Deadline: ptr(time.Date(2026, 3, 9, 23, 0, 0, 0, time.Local))}

	snap := snapshotWith(map[string][]model.Task{"work": {dueToday, pastDue}})
	calc := NewCalculator()

	due := calc.DueToday(snap, now)
	if len(due) != 1 || due[0].ID != "due-today" {
		t.Fatalf("due today = %+v, want only due-today", ids(due))
	}

	past := calc.PastDue(snap, now)
	found := false
	for _, task := range past {
		if task.ID == "due-today" {
			// 09:00 is behind noon, so the due-today task is also past
			// its instant; the calendar-day view must still claim it.
			found = true
		}
	}
	if !found {
		t.Fatalf("past due = %v, expected due-today's instant to be behind now", ids(past))
	}
	if !contains(past, "past-due") {
		t.Fatalf("past due = %v, want past-due present", ids(past))
	}
	if contains(due, "past-due") {
		t.Fatalf("due today = %v, past-due must not appear", ids(due))
	}
}

func TestMissingFieldExcludedNotCoerced(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	noDates := model.Task{ID: "floating", Content: "no dates"}
	snap := snapshotWith(map[string][]model.Task{"work": {noDates}})
	calc := NewCalculator()

	if got := calc.DueToday(snap, now); len(got) != 0 {
		t.Fatalf("due today = %v, task without deadline leaked in", ids(got))
	}
	if got := calc.PastDue(snap, now); len(got) != 0 {
		t.Fatalf("past due = %v, task without deadline leaked in", ids(got))
	}
	if got := calc.StartedToday(snap, now); len(got) != 0 {
		t.Fatalf("started today = %v, task without start leaked in", ids(got))
	}
	if got := calc.Unscheduled(snap); len(got) != 1 || got[0].ID != "floating" {
		t.Fatalf("unscheduled = %v, want floating", ids(got))
	}
}

func TestInWindowRequiresBothBounds(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	spanning := model.Task{ID: "spanning",
		StartDate: ptr(now.AddDate(0, 0, -2)),
		Deadline:  ptr(now.AddDate(0, 0, 2))}
	onlyStart := model.Task{ID: "only-start", StartDate: ptr(now.AddDate(0, 0, -2))}
	ended := model.Task{ID: "ended",
		StartDate: ptr(now.AddDate(0, 0, -4)),
		Deadline:  ptr(now.AddDate(0, 0, -1))}

	snap := snapshotWith(map[string][]model.Task{"work": {spanning, onlyStart, ended}})
	calc := NewCalculator()

	got := calc.InWindow(snap, now)
	if len(got) != 1 || got[0].ID != "spanning" {
		t.Fatalf("in window = %v, want only spanning", ids(got))
	}
}

func TestFlattenAnnotatesOwningCategory(t *testing.T) {
	snap := snapshotWith(map[string][]model.Task{
		"home": {{ID: "t1", Content: "laundry"}},
	})
	calc := NewCalculator()

	flat := calc.Flatten(snap)
	if len(flat) != 1 {
		t.Fatalf("flattened %d tasks, want 1", len(flat))
	}
	if flat[0].CategoryID != "cat-home" || flat[0].CategoryName != "home" {
		t.Fatalf("annotation = %q/%q, want cat-home/home", flat[0].CategoryID, flat[0].CategoryName)
	}
}

func TestFlattenMemoizedOnSnapshotVersion(t *testing.T) {
	s := store.New(nil, nil)
	s.Replace([]model.Workspace{{Name: "W", Categories: []model.Category{
		{ID: "c1", Name: "one", Tasks: []model.Task{{ID: "t1"}}},
	}}})
	calc := NewCalculator()

	snap := s.Snapshot()
	first := calc.Flatten(snap)
	second := calc.Flatten(snap)
	if &first[0] != &second[0] {
		t.Fatal("same snapshot version recomputed the flat list")
	}

	if err := s.AddTask("c1", model.Task{ID: "t2"}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	third := calc.Flatten(s.Snapshot())
	if len(third) != 2 {
		t.Fatalf("flattened %d tasks after mutation, want 2", len(third))
	}
}

func TestForDateIncludesSpanningTasks(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	spanning := model.Task{ID: "spanning",
		StartDate: ptr(time.Date(2026, 3, 8, 9, 0, 0, 0, time.Local)),
		Deadline:  ptr(time.Date(2026, 3, 12, 17, 0, 0, 0, time.Local))}
	elsewhere := model.Task{ID: "elsewhere",
		Deadline: ptr(time.Date(2026, 4, 1, 9, 0, 0, 0, time.Local))}

	snap := snapshotWith(map[string][]model.Task{"work": {spanning, elsewhere}})
	calc := NewCalculator()

	got := calc.ForDate(snap, date)
	if len(got) != 1 || got[0].ID != "spanning" {
		t.Fatalf("for date = %v, want only spanning", ids(got))
	}
}

func ids(tasks []AnnotatedTask) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func contains(tasks []AnnotatedTask, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}
