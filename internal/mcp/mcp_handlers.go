package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/repostat/core"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/outwriter"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	client  contract.GitClient
}

// analysisResult is an analysis summary with the ID it was saved under, if any.
type analysisResult struct {
	ID int64 `json:"id,omitempty"`
	outwriter.SummaryView
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	start, end := request.GetString("start_date", ""), request.GetString("end_date", "")
	if start != "" || end != "" {
		window, err := contract.ParseDateRange(start, end)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date parameters: %v", err)), nil
		}
		cfg.DateRange = window
	}

	if p := request.GetString("repo_path", ""); p != "" {
		root, err := h.client.GetRepoRoot(ctx, p)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid repository: %v", err)), nil
		}
		cfg.RepoPath = root
	}

	stats, id, err := core.GetAnalyzeResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	return jsonResult(analysisResult{ID: id, SummaryView: outwriter.NewSummaryView(stats, cfg.ResultLimit)})
}

func (h *toolHandler) handleGetRepositoryStats(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := h.baseCfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}

	store := h.statsStore()
	if store == nil {
		return mcp.NewToolResultError("statistics store is not initialized"), nil
	}
	stats, err := store.GetRepositoryStats(int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load repository stats %d: %v", id, err)), nil
	}

	return jsonResult(analysisResult{ID: int64(id), SummaryView: outwriter.NewSummaryView(stats, limit)})
}

func (h *toolHandler) handleListRepositories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.statsStore()
	if store == nil {
		return mcp.NewToolResultError("statistics store is not initialized"), nil
	}
	records, err := store.ListRepositories()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list repositories: %v", err)), nil
	}
	if records == nil {
		return mcp.NewToolResultText("[]"), nil
	}
	return jsonResult(records)
}

func (h *toolHandler) statsStore() contract.StatsStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetStatsStore()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
