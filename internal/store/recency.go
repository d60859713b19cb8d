package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RecencyBound caps the recently-visited workspace list.
const RecencyBound = 6

const persistTimeout = 5 * time.Second

// RecencyStore persists the list between sessions.
type RecencyStore interface {
	Load(ctx context.Context, userID string) ([]string, error)
	Save(ctx context.Context, userID string, names []string) error
	Clear(ctx context.Context, userID string) error
}

// RecencyTracker keeps a bounded, deduplicated most-recently-used list
// of workspace names. Adds update memory synchronously and persist on a
// separate goroutine, so workspace selection never waits on disk. A
// crash between the add and the persist loses at most that one entry.
type RecencyTracker struct {
	mu     sync.Mutex
	names  []string
	bound  int
	repo   RecencyStore
	userID string
	logger *slog.Logger
}

func NewRecencyTracker(repo RecencyStore, userID string, logger *slog.Logger) *RecencyTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecencyTracker{
		bound:  RecencyBound,
		repo:   repo,
		userID: userID,
		logger: logger.With("component", "recency"),
	}
}

// Load pulls the persisted list into memory. Called once when the
// owning user becomes available.
func (t *RecencyTracker) Load(ctx context.Context) error {
	names, err := t.repo.Load(ctx, t.userID)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(names) > t.bound {
		names = names[:t.bound]
	}
	t.names = names
	return nil
}

// Add moves the name to the front, dropping any earlier occurrence, and
// truncates to the bound.
func (t *RecencyTracker) Add(name string) {
	if name == "" {
		return
	}
	t.mu.Lock()
	next := make([]string, 0, len(t.names)+1)
	next = append(next, name)
	for _, n := range t.names {
		if n != name {
			next = append(next, n)
		}
	}
	if len(next) > t.bound {
		next = next[:t.bound]
	}
	t.names = next
	t.mu.Unlock()

	go t.persist(next)
}

// All returns the list, most recent first.
func (t *RecencyTracker) All() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Clear empties both the in-memory list and the persisted record.
func (t *RecencyTracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	t.names = nil
	t.mu.Unlock()
	return t.repo.Clear(ctx, t.userID)
}

func (t *RecencyTracker) persist(names []string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := t.repo.Save(ctx, t.userID, names); err != nil {
		t.logger.Warn("persist recency list", "error", err)
	}
}
