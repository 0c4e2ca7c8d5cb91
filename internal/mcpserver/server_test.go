package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelink-sh/codelink/internal/config"
	"github.com/codelink-sh/codelink/internal/workspace"
)

func testServer(t *testing.T, index workspace.Index, cwd string) *Server {
	t.Helper()
	engine := workspace.NewEngine(workspace.EngineOptions{
		Build:      func(context.Context) workspace.Index { return index },
		Indicators: []string{".codelink-test-indicator"},
		Home:       t.TempDir(),
	})
	s := New(engine, config.Default(), "test")
	s.cwd = func() (string, error) { return cwd, nil }
	return s
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// textContent extracts the text payload of a tool result.
func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestHandleResolveWorkspace(t *testing.T) {
	ws := t.TempDir()
	index := workspace.Index{{Name: "ws", Path: ws}}
	s := testServer(t, index, filepath.Join(ws, "sub"))

	res, err := s.handleResolveWorkspace(context.Background(), callRequest("resolve_workspace", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var sel workspace.Selection
	require.NoError(t, json.Unmarshal([]byte(textContent(t, res)), &sel))
	assert.Equal(t, ws, sel.Path)
	assert.Equal(t, workspace.MethodIndex, sel.Method)
}

func TestHandleListWorkspaces(t *testing.T) {
	index := workspace.Index{
		{Name: "proj1", Path: "/home/u/proj1"},
		{Name: "proj2", Path: "/home/u/other/proj2"},
	}
	s := testServer(t, index, t.TempDir())

	res, err := s.handleListWorkspaces(context.Background(), callRequest("list_workspaces", nil))
	require.NoError(t, err)

	var out struct {
		Count      int             `json:"count"`
		Workspaces workspace.Index `json:"workspaces"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent(t, res)), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, index, out.Workspaces)
}

func TestHandleFindWorkspaceNotFound(t *testing.T) {
	index := workspace.Index{{Name: "proj1", Path: "/home/u/proj1"}}
	s := testServer(t, index, t.TempDir())

	res, err := s.handleFindWorkspace(context.Background(),
		callRequest("find_workspace", map[string]any{"name": "zzz"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textContent(t, res), "proj1")
}

func TestHandleCreateAndExists(t *testing.T) {
	ws := t.TempDir()
	index := workspace.Index{{Name: "ws", Path: ws}}
	s := testServer(t, index, ws)

	res, err := s.handleCreateFile(context.Background(),
		callRequest("create_file", map[string]any{"path": "notes/todo.txt", "content": "hi"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := os.ReadFile(filepath.Join(ws, "notes", "todo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	res, err = s.handleFileExists(context.Background(),
		callRequest("file_exists", map[string]any{"path": "notes/todo.txt"}))
	require.NoError(t, err)

	var out struct {
		Exists bool `json:"exists"`
		IsDir  bool `json:"is_dir"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent(t, res)), &out))
	assert.True(t, out.Exists)
	assert.False(t, out.IsDir)
}

func TestHandleSearchTextScopedToNamedWorkspace(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, "a.txt"), []byte("needle"), 0o644))
	index := workspace.Index{{Name: "scoped", Path: ws}}
	s := testServer(t, index, t.TempDir())
	s.greper.Binary = "definitely-not-a-real-binary-zzz" // force internal scanner

	res, err := s.handleSearchText(context.Background(),
		callRequest("search_text", map[string]any{"pattern": "needle", "workspace": "scoped"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, textContent(t, res), "a.txt")
}

func TestWatchStorageInvalidates(t *testing.T) {
	dir := t.TempDir()
	invalidated := make(chan struct{}, 8)
	w, err := WatchStorage(dir, func() {
		select {
		case invalidated <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "touch"), nil, 0o644))

	select {
	case <-invalidated:
	case <-time.After(2 * time.Second):
		t.Fatal("storage change did not invalidate the cache")
	}
}
