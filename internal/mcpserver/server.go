// Package mcpserver exposes the workspace engine and the file/search
// plumbing to external agents over stdio MCP. This is the composition
// root: tool handlers delegate 1:1 to the engine and the plumbing
// packages, no decision logic lives here.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codelink-sh/codelink/internal/config"
	"github.com/codelink-sh/codelink/internal/fileops"
	"github.com/codelink-sh/codelink/internal/logging"
	"github.com/codelink-sh/codelink/internal/search"
	"github.com/codelink-sh/codelink/internal/workspace"
)

var mcpLog = logging.ForComponent(logging.CompMCP)

const serverName = "codelink"

const serverInstructions = `codelink bridges this agent to the editor workspace the user is
working in. Call resolve_workspace first to learn the active workspace
root; file and search tools resolve relative paths against it.`

// Server wires the engine and plumbing into an MCP server instance.
type Server struct {
	engine     *workspace.Engine
	greper     *search.Greper
	maxResults int

	// cwd is the caller-directory source, swapped out in tests.
	cwd func() (string, error)

	mcp *server.MCPServer
}

// New creates the MCP server with all tools registered.
func New(engine *workspace.Engine, cfg *config.Config, version string) *Server {
	s := &Server{
		engine: engine,
		greper: &search.Greper{
			Binary:     cfg.Search.RipgrepBinary,
			MaxResults: cfg.Search.MaxResults,
		},
		maxResults: cfg.Search.MaxResults,
		cwd:        os.Getwd,
	}

	m := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	m.AddTool(mcp.NewTool("resolve_workspace",
		mcp.WithDescription("Resolve the active editor workspace for the calling directory. Always succeeds; the weakest answer is the calling directory itself."),
		mcp.WithString("cwd", mcp.Description("Directory to resolve from (default: the server's working directory).")),
	), s.handleResolveWorkspace)

	m.AddTool(mcp.NewTool("list_workspaces",
		mcp.WithDescription("List currently open editor workspaces as {name, path} pairs, preferred first. May be empty."),
	), s.handleListWorkspaces)

	m.AddTool(mcp.NewTool("find_workspace",
		mcp.WithDescription("Find an open workspace by partial name (case-insensitive substring, either direction). On no match the error lists the names that are open."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Full or partial workspace name.")),
	), s.handleFindWorkspace)

	m.AddTool(mcp.NewTool("create_file",
		mcp.WithDescription("Create a new file. Fails if it already exists. Relative paths resolve against the active workspace."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path, absolute or workspace-relative.")),
		mcp.WithString("content", mcp.Description("Initial file content (default: empty).")),
	), s.handleCreateFile)

	m.AddTool(mcp.NewTool("write_file",
		mcp.WithDescription("Write a file, creating or overwriting it. Relative paths resolve against the active workspace."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path, absolute or workspace-relative.")),
		mcp.WithString("content", mcp.Description("File content (default: empty).")),
	), s.handleWriteFile)

	m.AddTool(mcp.NewTool("file_exists",
		mcp.WithDescription("Check whether a path exists. Relative paths resolve against the active workspace."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to check, absolute or workspace-relative.")),
	), s.handleFileExists)

	m.AddTool(mcp.NewTool("find_files",
		mcp.WithDescription("Find files by name in a workspace. Glob patterns match the base name; patterns without glob characters match as substring."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Glob or substring, e.g. '*.go' or 'helper'.")),
		mcp.WithString("workspace", mcp.Description("Workspace name to search (default: the active workspace).")),
	), s.handleFindFiles)

	m.AddTool(mcp.NewTool("search_text",
		mcp.WithDescription("Search file contents in a workspace using a regex pattern. Returns path, line number and line text per match."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Regex pattern to search for.")),
		mcp.WithString("workspace", mcp.Description("Workspace name to search (default: the active workspace).")),
	), s.handleSearchText)

	s.mcp = m
	return s
}

// ServeStdio serves the MCP protocol on stdin/stdout until EOF. While
// serving, the editor's storage tree is watched so the workspace index
// cache drops as soon as records change.
func (s *Server) ServeStdio() error {
	if dir := s.engine.StorageDir(); dir != "" {
		if w, err := WatchStorage(dir, s.engine.InvalidateIndex); err == nil {
			defer w.Close()
		} else {
			mcpLog.Warn("storage watch unavailable", "dir", dir, "error", err)
		}
	}
	mcpLog.Info("serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}

// activeRoot resolves the workspace root for a tool call: an explicit
// workspace name when given, the active workspace otherwise.
func (s *Server) activeRoot(ctx context.Context, workspaceName string) (string, error) {
	if workspaceName != "" {
		cand, err := s.engine.FindByName(ctx, workspaceName)
		if err != nil {
			return "", err
		}
		return cand.Path, nil
	}
	cwd, err := s.cwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}
	return s.engine.ResolveActive(ctx, cwd).Path, nil
}

// resolvePath turns a tool path argument into an absolute path.
func (s *Server) resolvePath(ctx context.Context, path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	root, err := s.activeRoot(ctx, "")
	if err != nil {
		return "", err
	}
	return filepath.Join(root, path), nil
}

func (s *Server) handleResolveWorkspace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cwd := req.GetString("cwd", "")
	if cwd == "" {
		var err error
		cwd, err = s.cwd()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot determine working directory: %v", err)), nil
		}
	}
	sel := s.engine.ResolveActive(ctx, cwd)
	return jsonResult(sel)
}

func (s *Server) handleListWorkspaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := s.engine.ListOpen(ctx)
	return jsonResult(map[string]any{
		"count":      len(index),
		"workspaces": index,
	})
}

func (s *Server) handleFindWorkspace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cand, err := s.engine.FindByName(ctx, name)
	if err != nil {
		var nf *workspace.NotFoundError
		if errors.As(err, &nf) {
			return mcp.NewToolResultError(nf.Error()), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cand)
}

func (s *Server) handleCreateFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	full, err := s.resolvePath(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := fileops.Create(full, []byte(req.GetString("content", ""))); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %s", full)), nil
}

func (s *Server) handleWriteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	full, err := s.resolvePath(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := fileops.Write(full, []byte(req.GetString("content", ""))); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("wrote %s", full)), nil
}

func (s *Server) handleFileExists(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	full, err := s.resolvePath(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exists, isDir := fileops.Exists(full)
	return jsonResult(map[string]any{
		"path":   full,
		"exists": exists,
		"is_dir": isDir,
	})
}

func (s *Server) handleFindFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, err := s.activeRoot(ctx, req.GetString("workspace", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	files, err := search.FindFiles(root, pattern, s.maxResults)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"root":  root,
		"count": len(files),
		"files": files,
	})
}

func (s *Server) handleSearchText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, err := s.activeRoot(ctx, req.GetString("workspace", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matches, err := s.greper.Search(ctx, root, pattern)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"root":    root,
		"count":   len(matches),
		"matches": matches,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
