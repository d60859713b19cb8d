package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchUserWorkspaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/user/categories/user-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"name": "Home", "categories": []map[string]any{{"id": "c1", "name": "Chores"}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	workspaces, err := client.FetchUserWorkspaces(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(workspaces) != 1 || workspaces[0].Name != "Home" {
		t.Fatalf("workspaces = %+v", workspaces)
	}
	if len(workspaces[0].Categories) != 1 || workspaces[0].Categories[0].ID != "c1" {
		t.Fatalf("categories = %+v", workspaces[0].Categories)
	}
}

func TestCreateWorkspaceSendsProxyCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/categories" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body createWorkspaceRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Name != proxyCategoryName || body.WorkspaceName != "New Workspace" {
			t.Errorf("body = %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "srv-1", "name": proxyCategoryName})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	category, err := client.CreateWorkspace(context.Background(), "New Workspace")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if category.ID != "srv-1" {
		t.Fatalf("category = %+v", category)
	}
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "name collision", http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if err := client.RenameWorkspace(context.Background(), "A", "B"); err == nil {
		t.Fatal("expected an error for a 409 response")
	}
}

func TestDeleteWorkspaceEscapesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.URL.EscapedPath(); got != "/user/workspaces/side%20project" {
			t.Errorf("path = %s", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if err := client.DeleteWorkspace(context.Background(), "side project"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
