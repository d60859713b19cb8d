// Package engine applies the optimistic mutation policy: mutate the
// in-memory tree first, invalidate the disk cache, then confirm with
// the remote service, compensating with a rollback when the remote leg
// fails. Each operation is a command carrying its apply and remote
// legs; the captured pre-mutation state is the compensation.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tasksync/internal/model"
	"tasksync/internal/store"
)

// placeholderCategory mirrors the server's seed category for a freshly
// created workspace.
const placeholderCategory = "!-proxy-!"

// Gateway is the remote leg of every workspace/category mutation.
type Gateway interface {
	CreateWorkspace(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, workspaceName, name string) (*model.Category, error)
	RenameWorkspace(ctx context.Context, oldName, newName string) error
	DeleteWorkspace(ctx context.Context, name string) error
	RenameCategory(ctx context.Context, categoryID, newName string) error
	DeleteCategory(ctx context.Context, categoryID string) error
}

// Cache is the invalidation side of the disk cache.
type Cache interface {
	Invalidate(ctx context.Context, userID string) error
}

// Engine runs optimistic mutations. Overlapping runs against the same
// entity are not queued or rejected: the store swap is atomic, but the
// overall outcome is last-writer-wins, and a rollback from a slow
// failing run can overwrite a quicker later one.
type Engine struct {
	store     *store.Store
	cache     Cache
	gateway   Gateway
	userID    string
	reconcile func(context.Context) error
	logger    *slog.Logger
}

func New(st *store.Store, cache Cache, gateway Gateway, userID string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   st,
		cache:   cache,
		gateway: gateway,
		userID:  userID,
		logger:  logger.With("component", "engine"),
	}
}

// SetReconcile installs a hook run after every confirmed remote
// mutation, typically a forced full re-fetch that picks up server-side
// derived fields. Reconcile failures are logged, not propagated: the
// optimistic state is already confirmed.
func (e *Engine) SetReconcile(fn func(context.Context) error) {
	e.reconcile = fn
}

type command struct {
	name    string
	apply   func() error
	remote  func(context.Context) error
	confirm func()
}

func (e *Engine) run(ctx context.Context, cmd command) error {
	snapshot := e.store.Capture()

	// Validation failures surface here, before anything mutated.
	if err := cmd.apply(); err != nil {
		return err
	}

	e.invalidate(ctx)

	if err := cmd.remote(ctx); err != nil {
		e.store.Restore(snapshot)
		e.invalidate(ctx)
		return fmt.Errorf("%s: %w", cmd.name, err)
	}

	if cmd.confirm != nil {
		cmd.confirm()
	}
	if e.reconcile != nil {
		if err := e.reconcile(ctx); err != nil {
			e.logger.Warn("reconcile after mutation", "op", cmd.name, "error", err)
		}
	}
	return nil
}

// invalidate must happen before the remote dispatch so a crash between
// local mutation and remote confirmation cannot resurrect stale data on
// the next cold start. Failures degrade to a cache miss.
func (e *Engine) invalidate(ctx context.Context) {
	if err := e.cache.Invalidate(ctx, e.userID); err != nil {
		e.logger.Warn("invalidate cache", "error", err)
	}
}

// CreateWorkspace adds the workspace locally with a placeholder
// category, then creates it remotely. The server's placeholder replaces
// the local one on confirmation.
func (e *Engine) CreateWorkspace(ctx context.Context, name string) error {
	local := model.Category{ID: uuid.NewString(), Name: placeholderCategory}
	var remote *model.Category
	return e.run(ctx, command{
		name: "create workspace",
		apply: func() error {
			return e.store.AddWorkspace(name, local)
		},
		remote: func(ctx context.Context) error {
			category, err := e.gateway.CreateWorkspace(ctx, name)
			remote = category
			return err
		},
		confirm: func() {
			if remote == nil || remote.ID == "" || remote.ID == local.ID {
				return
			}
			if err := e.store.RemoveCategory(name, local.ID); err != nil {
				return
			}
			if err := e.store.AddCategory(name, *remote); err != nil {
				e.logger.Warn("adopt server category", "workspace", name, "error", err)
			}
		},
	})
}

// RenameWorkspace renames locally then remotely. A collision with an
// existing name is rejected before any mutation is attempted.
func (e *Engine) RenameWorkspace(ctx context.Context, oldName, newName string) error {
	return e.run(ctx, command{
		name: "rename workspace",
		apply: func() error {
			return e.store.RenameWorkspace(oldName, newName)
		},
		remote: func(ctx context.Context) error {
			return e.gateway.RenameWorkspace(ctx, oldName, newName)
		},
	})
}

// DeleteWorkspace removes locally (re-pointing selection if needed)
// then remotely.
func (e *Engine) DeleteWorkspace(ctx context.Context, name string) error {
	return e.run(ctx, command{
		name: "delete workspace",
		apply: func() error {
			return e.store.RemoveWorkspace(name)
		},
		remote: func(ctx context.Context) error {
			return e.gateway.DeleteWorkspace(ctx, name)
		},
	})
}

// CreateCategory adds a category locally with a generated id, then
// creates it remotely, adopting the server id on confirmation.
func (e *Engine) CreateCategory(ctx context.Context, workspaceName, name string) error {
	local := model.Category{ID: uuid.NewString(), Name: name}
	var remote *model.Category
	return e.run(ctx, command{
		name: "create category",
		apply: func() error {
			return e.store.AddCategory(workspaceName, local)
		},
		remote: func(ctx context.Context) error {
			category, err := e.gateway.CreateCategory(ctx, workspaceName, name)
			remote = category
			return err
		},
		confirm: func() {
			if remote == nil || remote.ID == "" || remote.ID == local.ID {
				return
			}
			if err := e.store.RemoveCategory(workspaceName, local.ID); err != nil {
				return
			}
			if err := e.store.AddCategory(workspaceName, *remote); err != nil {
				e.logger.Warn("adopt server category", "workspace", workspaceName, "error", err)
			}
		},
	})
}

// RenameCategory renames locally then remotely.
func (e *Engine) RenameCategory(ctx context.Context, categoryID, newName string) error {
	return e.run(ctx, command{
		name: "rename category",
		apply: func() error {
			return e.store.RenameCategory(categoryID, newName)
		},
		remote: func(ctx context.Context) error {
			return e.gateway.RenameCategory(ctx, categoryID, newName)
		},
	})
}

// DeleteCategory removes locally then remotely.
func (e *Engine) DeleteCategory(ctx context.Context, workspaceName, categoryID string) error {
	return e.run(ctx, command{
		name: "delete category",
		apply: func() error {
			return e.store.RemoveCategory(workspaceName, categoryID)
		},
		remote: func(ctx context.Context) error {
			return e.gateway.DeleteCategory(ctx, categoryID)
		},
	})
}

// AddTask is local-only: the remote contract carries no task endpoint,
// so the mutation is the store change plus a cache invalidation.
func (e *Engine) AddTask(ctx context.Context, categoryID string, task model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := e.store.AddTask(categoryID, task); err != nil {
		return err
	}
	e.invalidate(ctx)
	return nil
}

// UpdateTask is local-only, see AddTask.
func (e *Engine) UpdateTask(ctx context.Context, categoryID string, task model.Task) error {
	if err := e.store.UpdateTask(categoryID, task); err != nil {
		return err
	}
	e.invalidate(ctx)
	return nil
}

// RemoveTask is local-only, see AddTask.
func (e *Engine) RemoveTask(ctx context.Context, categoryID, taskID string) error {
	if err := e.store.RemoveTask(categoryID, taskID); err != nil {
		return err
	}
	e.invalidate(ctx)
	return nil
}
