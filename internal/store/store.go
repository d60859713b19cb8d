// Package store holds the client-side workspace tree and keeps it
// consistent across optimistic mutations. The tree is never mutated in
// place: every mutator rebuilds the affected branch and swaps the whole
// workspace list in a single reference assignment, so readers always
// observe either the fully-old or fully-new version.
package store

import (
	"log/slog"
	"sync"

	"tasksync/internal/model"
)

// Snapshot is an immutable view of the store. Version increases with
// every committed mutation and keys downstream memoization.
type Snapshot struct {
	Workspaces       []model.Workspace
	Selected         string
	SelectedCategory string
	Categories       []model.Category
	Version          uint64
}

// Memento captures pre-mutation state so a failed remote call can be
// compensated, selection pointers included.
type Memento struct {
	workspaces       []model.Workspace
	selected         string
	selectedCategory string
}

// Store is the authoritative in-memory tree plus selection state.
// Individual mutations are serialized by the mutex; overlapping
// higher-level operations are last-writer-wins (see the engine).
type Store struct {
	mu               sync.Mutex
	workspaces       []model.Workspace
	selected         string
	selectedCategory string
	categories       []model.Category
	version          uint64
	subs             map[int]func(Snapshot)
	nextSubID        int
	recency          *RecencyTracker
	logger           *slog.Logger
}

func New(recency *RecencyTracker, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		subs:    make(map[int]func(Snapshot)),
		recency: recency,
		logger:  logger.With("component", "store"),
	}
}

// Subscribe registers fn to run synchronously after every committed
// mutation. fn runs with the store lock held and must not call back
// into the store. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Snapshot returns the current state. The contained slices are shared
// and must be treated as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// GetWorkspace looks a workspace up by exact name.
func (s *Store) GetWorkspace(name string) (model.Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.workspaces {
		if w.Name == name {
			return w, true
		}
	}
	return model.Workspace{}, false
}

// WorkspaceExists reports whether any workspace carries the name.
func (s *Store) WorkspaceExists(name string) bool {
	_, ok := s.GetWorkspace(name)
	return ok
}

func (s *Store) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Store) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

// Categories returns the denormalized category view of the selected
// workspace.
func (s *Store) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories
}

// Replace swaps in a freshly loaded tree. Selection survives when the
// selected workspace still exists, otherwise it is cleared.
func (s *Store) Replace(workspaces []model.Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := model.CloneWorkspaces(workspaces)
	if s.selected != "" && !containsWorkspace(next, s.selected) {
		s.selected = ""
		s.selectedCategory = ""
	}
	s.commitLocked(next)
	s.logger.Debug("tree replaced", "workspaces", len(next))
}

// Select changes the selected workspace, resets the selected category,
// recomputes the category view, and schedules a recency append. The
// recency write runs on its own goroutine so selection never waits on
// disk.
func (s *Store) Select(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == name {
		return
	}
	s.selected = name
	s.selectedCategory = ""
	s.commitLocked(s.workspaces)
	if name != "" && s.recency != nil {
		go s.recency.Add(name)
	}
}

// SelectCategory records the selected category within the selected
// workspace. Purely local state, no remote counterpart.
func (s *Store) SelectCategory(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCategory = categoryID
}

func (s *Store) ClearSelection() {
	s.Select("")
}

// AddWorkspace appends a new workspace holding the given seed category.
func (s *Store) AddWorkspace(name string, category model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		return ErrEmptyName
	}
	if s.nameTakenLocked(name) {
		return ErrDuplicateWorkspace
	}
	next := make([]model.Workspace, len(s.workspaces), len(s.workspaces)+1)
	copy(next, s.workspaces)
	next = append(next, model.Workspace{Name: name, Categories: []model.Category{category.Clone()}})
	s.commitLocked(next)
	return nil
}

// RemoveWorkspace deletes a workspace. Deleting the selected workspace
// deterministically selects the first remaining one, or clears
// selection when none remain.
func (s *Store) RemoveWorkspace(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOfWorkspace(s.workspaces, name)
	if idx < 0 {
		return ErrWorkspaceNotFound
	}
	if s.workspaces[idx].IsBlueprint {
		return ErrBlueprintReadOnly
	}
	next := make([]model.Workspace, 0, len(s.workspaces)-1)
	next = append(next, s.workspaces[:idx]...)
	next = append(next, s.workspaces[idx+1:]...)
	if s.selected == name {
		if len(next) > 0 {
			s.selected = next[0].Name
		} else {
			s.selected = ""
		}
		s.selectedCategory = ""
	}
	s.commitLocked(next)
	return nil
}

// RenameWorkspace renames a workspace, carrying the selection pointer
// along when the selected workspace is the one renamed.
func (s *Store) RenameWorkspace(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newName == "" {
		return ErrEmptyName
	}
	idx := indexOfWorkspace(s.workspaces, oldName)
	if idx < 0 {
		return ErrWorkspaceNotFound
	}
	if s.workspaces[idx].IsBlueprint {
		return ErrBlueprintReadOnly
	}
	if newName != oldName && s.nameTakenLocked(newName) {
		return ErrDuplicateWorkspace
	}
	next := make([]model.Workspace, len(s.workspaces))
	copy(next, s.workspaces)
	next[idx] = next[idx].Clone()
	next[idx].Name = newName
	if s.selected == oldName {
		s.selected = newName
	}
	s.commitLocked(next)
	return nil
}

// AddCategory appends a category to a workspace.
func (s *Store) AddCategory(workspaceName string, category model.Category) error {
	if category.Name == "" {
		return ErrEmptyName
	}
	return s.rebuildWorkspace(workspaceName, func(w *model.Workspace) error {
		w.Categories = append(w.Categories, category.Clone())
		return nil
	})
}

// RemoveCategory removes a category from a workspace by id.
func (s *Store) RemoveCategory(workspaceName, categoryID string) error {
	return s.rebuildWorkspace(workspaceName, func(w *model.Workspace) error {
		idx := indexOfCategory(w.Categories, categoryID)
		if idx < 0 {
			return ErrCategoryNotFound
		}
		w.Categories = append(w.Categories[:idx], w.Categories[idx+1:]...)
		return nil
	})
}

// RenameCategory renames a category, wherever in the tree it lives.
func (s *Store) RenameCategory(categoryID, newName string) error {
	if newName == "" {
		return ErrEmptyName
	}
	return s.rebuildCategory(categoryID, func(c *model.Category) error {
		c.Name = newName
		return nil
	})
}

// AddTask appends a task to a category.
func (s *Store) AddTask(categoryID string, task model.Task) error {
	return s.rebuildCategory(categoryID, func(c *model.Category) error {
		c.Tasks = append(c.Tasks, task.Clone())
		return nil
	})
}

// UpdateTask replaces a task in place, matched by id.
func (s *Store) UpdateTask(categoryID string, task model.Task) error {
	return s.rebuildCategory(categoryID, func(c *model.Category) error {
		for i := range c.Tasks {
			if c.Tasks[i].ID == task.ID {
				c.Tasks[i] = task.Clone()
				return nil
			}
		}
		return ErrTaskNotFound
	})
}

// RemoveTask deletes a task from a category by id.
func (s *Store) RemoveTask(categoryID, taskID string) error {
	return s.rebuildCategory(categoryID, func(c *model.Category) error {
		for i := range c.Tasks {
			if c.Tasks[i].ID == taskID {
				c.Tasks = append(c.Tasks[:i], c.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrTaskNotFound
	})
}

// Capture snapshots the state a compensating rollback would need.
func (s *Store) Capture() Memento {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Memento{
		workspaces:       s.workspaces,
		selected:         s.selected,
		selectedCategory: s.selectedCategory,
	}
}

// Restore swaps a captured state back in. Used as the compensation leg
// of a failed optimistic mutation.
func (s *Store) Restore(m Memento) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = m.selected
	s.selectedCategory = m.selectedCategory
	s.commitLocked(m.workspaces)
}

// Clear empties the store on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.selectedCategory = ""
	s.commitLocked(nil)
}

// rebuildWorkspace copies the path down to the named workspace, lets
// mutate edit the copy, then commits the rebuilt list.
func (s *Store) rebuildWorkspace(workspaceName string, mutate func(*model.Workspace) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOfWorkspace(s.workspaces, workspaceName)
	if idx < 0 {
		return ErrWorkspaceNotFound
	}
	if s.workspaces[idx].IsBlueprint {
		return ErrBlueprintReadOnly
	}
	next := make([]model.Workspace, len(s.workspaces))
	copy(next, s.workspaces)
	next[idx] = next[idx].Clone()
	if err := mutate(&next[idx]); err != nil {
		return err
	}
	s.commitLocked(next)
	return nil
}

// rebuildCategory copies the path down to the category with the given
// id, wherever it lives, and commits the rebuilt list.
func (s *Store) rebuildCategory(categoryID string, mutate func(*model.Category) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for wi := range s.workspaces {
		ci := indexOfCategory(s.workspaces[wi].Categories, categoryID)
		if ci < 0 {
			continue
		}
		if s.workspaces[wi].IsBlueprint {
			return ErrBlueprintReadOnly
		}
		next := make([]model.Workspace, len(s.workspaces))
		copy(next, s.workspaces)
		next[wi] = next[wi].Clone()
		if err := mutate(&next[wi].Categories[ci]); err != nil {
			return err
		}
		s.commitLocked(next)
		return nil
	}
	return ErrCategoryNotFound
}

// commitLocked swaps the workspace list, recomputes the denormalized
// category view, bumps the version, and notifies subscribers. Callers
// hold the lock.
func (s *Store) commitLocked(next []model.Workspace) {
	s.workspaces = next
	s.categories = nil
	if s.selected != "" {
		if idx := indexOfWorkspace(next, s.selected); idx >= 0 {
			s.categories = next[idx].Categories
		}
	}
	s.version++
	snap := s.snapshotLocked()
	for _, fn := range s.subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Workspaces:       s.workspaces,
		Selected:         s.selected,
		SelectedCategory: s.selectedCategory,
		Categories:       s.categories,
		Version:          s.version,
	}
}

// nameTakenLocked enforces uniqueness within the non-blueprint subset.
func (s *Store) nameTakenLocked(name string) bool {
	for _, w := range s.workspaces {
		if !w.IsBlueprint && w.Name == name {
			return true
		}
	}
	return false
}

func indexOfWorkspace(workspaces []model.Workspace, name string) int {
	for i, w := range workspaces {
		if w.Name == name {
			return i
		}
	}
	return -1
}

func indexOfCategory(categories []model.Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func containsWorkspace(workspaces []model.Workspace, name string) bool {
	return indexOfWorkspace(workspaces, name) >= 0
}
