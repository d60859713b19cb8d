package store

import "errors"

// Validation failures are rejected before any mutation happens and
// never reach the remote gateway.
var (
	ErrEmptyName          = errors.New("name must not be empty")
	ErrDuplicateWorkspace = errors.New("workspace name already exists")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrBlueprintReadOnly  = errors.New("blueprint workspaces are read-only")
)
