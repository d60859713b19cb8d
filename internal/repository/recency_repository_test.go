package repository

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func testRecencyRepo(t *testing.T) *RecencyRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewRecencyRepository(db, nil)
}

func TestRecencySaveLoadRoundTrip(t *testing.T) {
	repo := testRecencyRepo(t)
	ctx := context.Background()

	names := []string{"Home", "Work", "Side Project"}
	if err := repo.Save(ctx, "user-1", names); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, names) {
		t.Fatalf("loaded %v, want %v", got, names)
	}
}

func TestRecencySaveOverwrites(t *testing.T) {
	repo := testRecencyRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "user-1", []string{"old"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, "user-1", []string{"new", "old"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"new", "old"}) {
		t.Fatalf("loaded %v, want overwrite to win", got)
	}
}

func TestRecencyClearAndMissingUser(t *testing.T) {
	repo := testRecencyRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "user-1", []string{"a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	got, err := repo.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("loaded %v after clear, want empty", got)
	}

	got, err = repo.Load(ctx, "never-seen")
	if err != nil {
		t.Fatalf("load missing user: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("loaded %v for missing user, want empty", got)
	}
}
