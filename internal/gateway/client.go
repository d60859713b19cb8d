// Package gateway is the REST client for the remote task service. The
// store treats it as a black box: every call either succeeds or fails,
// with no finer error taxonomy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tasksync/internal/model"
)

// proxyCategoryName is the placeholder category the server expects when
// a workspace is created without real categories yet.
const proxyCategoryName = "!-proxy-!"

const defaultTimeout = 15 * time.Second

// Client talks to the remote task service.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// FetchUserWorkspaces fetches the user's full workspace tree.
func (c *Client) FetchUserWorkspaces(ctx context.Context, userID string) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	path := "/user/categories/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &workspaces); err != nil {
		return nil, fmt.Errorf("fetch workspaces: %w", err)
	}
	return workspaces, nil
}

// GetUserSubscribedBlueprints fetches summaries of the blueprints the
// user is subscribed to.
func (c *Client) GetUserSubscribedBlueprints(ctx context.Context) ([]model.BlueprintSummary, error) {
	var blueprints []model.BlueprintSummary
	if err := c.do(ctx, http.MethodGet, "/user/blueprints/subscribed", nil, &blueprints); err != nil {
		return nil, fmt.Errorf("fetch blueprints: %w", err)
	}
	return blueprints, nil
}

type createWorkspaceRequest struct {
	Name          string `json:"name"`
	WorkspaceName string `json:"workspaceName"`
}

// CreateWorkspace creates the workspace server-side and returns the
// placeholder category the server seeded it with.
func (c *Client) CreateWorkspace(ctx context.Context, name string) (*model.Category, error) {
	body := createWorkspaceRequest{Name: proxyCategoryName, WorkspaceName: name}
	var category model.Category
	if err := c.do(ctx, http.MethodPost, "/user/categories", body, &category); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &category, nil
}

// CreateCategory creates a category inside an existing workspace and
// returns the server-side record.
func (c *Client) CreateCategory(ctx context.Context, workspaceName, name string) (*model.Category, error) {
	body := createWorkspaceRequest{Name: name, WorkspaceName: workspaceName}
	var category model.Category
	if err := c.do(ctx, http.MethodPost, "/user/categories", body, &category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

type renameWorkspaceRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// RenameWorkspace renames a workspace. The server rejects collisions.
func (c *Client) RenameWorkspace(ctx context.Context, oldName, newName string) error {
	body := renameWorkspaceRequest{OldName: oldName, NewName: newName}
	if err := c.do(ctx, http.MethodPatch, "/user/workspaces/rename", body, nil); err != nil {
		return fmt.Errorf("rename workspace: %w", err)
	}
	return nil
}

type renameCategoryRequest struct {
	Name string `json:"name"`
}

func (c *Client) RenameCategory(ctx context.Context, categoryID, newName string) error {
	path := "/user/categories/" + url.PathEscape(categoryID)
	if err := c.do(ctx, http.MethodPatch, path, renameCategoryRequest{Name: newName}, nil); err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

func (c *Client) DeleteWorkspace(ctx context.Context, name string) error {
	path := "/user/workspaces/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

func (c *Client) DeleteCategory(ctx context.Context, categoryID string) error {
	path := "/user/categories/" + url.PathEscape(categoryID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
