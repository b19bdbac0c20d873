// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the chartmap MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Chartmap Land Cover Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: inspect_row ---
	s.AddTool(mcp.NewTool("inspect_row",
		mcp.WithDescription("Rasterize the cached segments of one row and return each pixel's segments and annual classes."),
		mcp.WithString("segments_dir", mcp.Description("Directory holding the per-row segment cache files."), mcp.Required()),
		mcp.WithNumber("row", mcp.Description("Row of the segment cache to inspect."), mcp.Required()),
		mcp.WithNumber("col", mcp.Description("Column to inspect. Omit or pass -1 for every pixel of the row.")),
		mcp.WithBoolean("recursive", mcp.Description("Search sub-directories for cache files.")),
	), h.handleInspectRow)

	// --- 2. Tool: refine_vector ---
	s.AddTool(mcp.NewTool("refine_vector",
		mcp.WithDescription("Apply the refinement rules to one pixel's 16 annual classes given its coarse land-cover context."),
		mcp.WithString("classes", mcp.Description("16 annual class codes (2001-2016), separated by commas or spaces."), mcp.Required()),
		mcp.WithString("context", mcp.Description("16 coarse land-cover class codes aligned with the classes."), mcp.Required()),
	), h.handleRefineVector)

	// --- 3. Tool: run_status ---
	s.AddTool(mcp.NewTool("run_status",
		mcp.WithDescription("Report run tracking statistics: backend, run counts and table sizes."),
	), h.handleRunStatus)

	// --- 4. Tool: list_runs ---
	s.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recorded blend and refine runs, most recent last."),
		mcp.WithNumber("limit", mcp.Description("Only return the most recent runs.")),
	), h.handleListRuns)

	return s
}

// StartMCPServer starts the chartmap MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	log.Infow("Serving MCP tools on stdio", "run_backend", baseCfg.RunBackend)
	return server.ServeStdio(s)
}
