package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tasksync/internal/model"
)

func testDB(t *testing.T) *SnapshotRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewSnapshotRepository(db, nil)
}

func TestSnapshotWriteReadRoundTrip(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	deadline := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	workspaces := []model.Workspace{
		{Name: "Home", Categories: []model.Category{
			{ID: "c1", Name: "Chores", Tasks: []model.Task{
				{ID: "t1", Content: "laundry", Priority: 2, Active: true, Deadline: &deadline},
			}},
		}},
		{Name: "Templates", IsBlueprint: true},
	}

	if err := repo.Write(ctx, "user-1", workspaces); err != nil {
		t.Fatalf("write: %v", err)
	}

	envelope, err := repo.Read(ctx, "user-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if envelope == nil {
		t.Fatal("read returned absent after write")
	}
	if time.Since(envelope.Timestamp) > time.Minute {
		t.Fatalf("timestamp not stamped at write time: %v", envelope.Timestamp)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("decoded %d workspaces, want 2", len(envelope.Data))
	}
	task := envelope.Data[0].Categories[0].Tasks[0]
	if task.Content != "laundry" || task.Deadline == nil || !task.Deadline.Equal(deadline) {
		t.Fatalf("task did not survive the round trip: %+v", task)
	}
	if !envelope.Data[1].IsBlueprint {
		t.Fatal("blueprint flag lost")
	}
}

func TestSnapshotWriteOverwrites(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	if err := repo.Write(ctx, "user-1", []model.Workspace{{Name: "Old"}}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := repo.Write(ctx, "user-1", []model.Workspace{{Name: "New"}}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	envelope, err := repo.Read(ctx, "user-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "New" {
		t.Fatalf("envelope = %+v, want single workspace New", envelope.Data)
	}
}

func TestSnapshotInvalidate(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	if err := repo.Write(ctx, "user-1", []model.Workspace{{Name: "W"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := repo.Invalidate(ctx, "user-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	envelope, err := repo.Read(ctx, "user-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if envelope != nil {
		t.Fatalf("envelope = %+v, want absent after invalidate", envelope)
	}

	// Invalidating an absent row is fine.
	if err := repo.Invalidate(ctx, "user-1"); err != nil {
		t.Fatalf("second invalidate: %v", err)
	}
}

func TestSnapshotScopedPerUser(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	if err := repo.Write(ctx, "user-1", []model.Workspace{{Name: "Mine"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := repo.Write(ctx, "user-2", []model.Workspace{{Name: "Theirs"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := repo.Invalidate(ctx, "user-2"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	envelope, err := repo.Read(ctx, "user-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if envelope == nil || envelope.Data[0].Name != "Mine" {
		t.Fatalf("user-1 envelope = %+v, must be untouched by user-2 invalidation", envelope)
	}
}

func TestSnapshotReadMissingUser(t *testing.T) {
	repo := testDB(t)

	envelope, err := repo.Read(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if envelope != nil {
		t.Fatalf("envelope = %+v, want absent", envelope)
	}
}
