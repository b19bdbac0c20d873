package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/segcache"
	"github.com/huangsam/chartmap/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// pixelResult is the JSON shape of one inspected pixel.
type pixelResult struct {
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Segments []string `json:"segments"`
	Classes  []int    `json:"classes"`
	Error    string   `json:"error,omitempty"`
}

// refineResult is the JSON shape of a refined vector.
type refineResult struct {
	Classes []int `json:"classes"`
	Refined []int `json:"refined"`
	Changed bool  `json:"changed"`
}

func (h *toolHandler) handleInspectRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.SegmentsDir = request.GetString("segments_dir", "")
	cfg.Recursive = request.GetBool("recursive", cfg.Recursive)
	if cfg.SegmentsDir == "" {
		return mcp.NewToolResultError("segments_dir is required"), nil
	}
	row, err := request.RequireInt("row")
	if err != nil || row < 0 {
		return mcp.NewToolResultError("row must be 0 or greater"), nil
	}
	if err := contract.CheckInputPath(cfg.SegmentsDir); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid segments_dir: %v", err)), nil
	}

	source := segcache.NewSource(cfg.SegmentsDir, cfg.Recursive)
	results, err := core.InspectRow(ctx, source, row, request.GetInt("col", -1))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspection failed: %v", err)), nil
	}

	pixels := make([]pixelResult, 0, len(results))
	for _, r := range results {
		p := pixelResult{
			Row:      r.Pixel.Row,
			Col:      r.Pixel.Col,
			Segments: formatSegments(r.Segments),
			Classes:  classCodes(r.Vector[:]),
		}
		if r.Err != nil {
			p.Error = r.Err.Error()
		}
		pixels = append(pixels, p)
	}
	jsonData, _ := json.MarshalIndent(pixels, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRefineVector(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	classes, err := schema.ParseVector(request.GetString("classes", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid classes: %v", err)), nil
	}
	landCover, err := schema.ParseVector(request.GetString("context", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid context: %v", err)), nil
	}

	v := schema.AnnualVector(classes)
	refined := core.Refine(v, schema.ContextVector(landCover), &h.baseCfg.Rules)

	jsonData, _ := json.MarshalIndent(refineResult{
		Classes: classCodes(v[:]),
		Refined: classCodes(refined[:]),
		Changed: refined != v,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRunStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.runStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get run status: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRuns(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.runStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	runs, err := store.GetAllRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 && l < len(runs) {
		runs = runs[len(runs)-l:]
	}
	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) runStore() (contract.RunStore, error) {
	if h.mgr == nil {
		return nil, errors.New("run tracking is not initialized")
	}
	store := h.mgr.GetRunStore()
	if store == nil {
		return nil, errors.New("run tracking is not initialized")
	}
	return store, nil
}

func formatSegments(segments []schema.Segment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = fmt.Sprintf("%s..%s:%d",
			schema.FormatDOY(core.OrdinalToDOY(s.Start)), schema.FormatDOY(core.OrdinalToDOY(s.End)), s.Class)
	}
	return out
}

func classCodes(v []uint8) []int {
	out := make([]int, len(v))
	for i, c := range v {
		out[i] = int(c)
	}
	return out
}
