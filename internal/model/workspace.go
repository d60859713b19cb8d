package model

// Category groups tasks inside a workspace. Task order is insertion order.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Clone returns a deep copy of the category and its tasks.
func (c Category) Clone() Category {
	out := c
	out.Tasks = make([]Task, len(c.Tasks))
	for i, t := range c.Tasks {
		out.Tasks[i] = t.Clone()
	}
	return out
}

// Workspace is a named container of categories. The name is the
// user-facing key and must be unique among non-blueprint workspaces.
// Blueprint workspaces come from subscriptions and carry no local
// categories.
type Workspace struct {
	Name        string     `json:"name"`
	Categories  []Category `json:"categories"`
	IsBlueprint bool       `json:"isBlueprint,omitempty"`
}

// Clone returns a deep copy of the workspace tree branch.
func (w Workspace) Clone() Workspace {
	out := w
	out.Categories = make([]Category, len(w.Categories))
	for i, c := range w.Categories {
		out.Categories[i] = c.Clone()
	}
	return out
}

// CloneWorkspaces deep-copies a whole workspace list.
func CloneWorkspaces(workspaces []Workspace) []Workspace {
	out := make([]Workspace, len(workspaces))
	for i, w := range workspaces {
		out[i] = w.Clone()
	}
	return out
}

// BlueprintSummary is the remote description of a subscribed blueprint.
type BlueprintSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
