// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/gitclient"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the repostat MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Repository Statistics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		client:  gitclient.NewGoGitClient(),
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Walk the git history of a repository and summarize commits, line changes and contributors."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithString("start_date", mcp.Description("Only count commits authored on or after this day (YYYY-MM-DD).")),
		mcp.WithString("end_date", mcp.Description("Only count commits authored on or before midnight UTC of this day (YYYY-MM-DD).")),
		mcp.WithNumber("limit", mcp.Description("Number of top contributors to include.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: get_repository_stats ---
	s.AddTool(mcp.NewTool("get_repository_stats",
		mcp.WithDescription("Load a previously saved analysis by its ID."),
		mcp.WithNumber("id", mcp.Description("ID of the saved analysis."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Number of top contributors to include.")),
	), h.handleGetRepositoryStats)

	// --- 3. Tool: list_repositories ---
	s.AddTool(mcp.NewTool("list_repositories",
		mcp.WithDescription("List saved analyses, newest first."),
	), h.handleListRepositories)

	return s
}

// StartMCPServer starts the repostat MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
