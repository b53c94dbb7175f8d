package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atomicobject/diskdex/internal/store"
)

// WatchFolderAddTool wraps Controller.AddWatchPath (§4.5 "add_watch_path").
func WatchFolderAddTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path := argString(args, "path")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		depth := store.UnlimitedDepth
		if d := argInt64Ptr(args, "depth"); d != nil {
			depth = int(*d)
		}

		result, err := cfg.Controller.AddWatchPath(ctx, path, depth)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("watch_folder_add failed: %v", err)), nil
		}
		if !result.Success {
			return jsonResult(map[string]any{
				"success":           false,
				"overlappingFolder": result.OverlappingFolder,
			})
		}
		return jsonResult(map[string]any{"success": true})
	}
}

// WatchFolderRemoveTool wraps Controller.RemoveWatchPath (§4.5 "remove_watch_path").
func WatchFolderRemoveTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path := argString(args, "path")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		if err := cfg.Controller.RemoveWatchPath(ctx, path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("watch_folder_remove failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"success": true})
	}
}

// IndexerGetStatusTool wraps Controller.GetStatus (§4.5 "get_status").
func IndexerGetStatusTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(cfg.Controller.GetStatus())
	}
}

// PerformanceGetTool wraps perf.Manager.Settings (§4.3).
func PerformanceGetTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(cfg.Perf.Settings())
	}
}

// PerformanceSetTool wraps perf.Manager's manual-override setters (§4.3).
func PerformanceSetTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		if auto, ok := args["auto"].(bool); ok {
			cfg.Perf.SetAutoMode(auto)
		}
		if d := argInt64Ptr(args, "delayMs"); d != nil {
			cfg.Perf.SetDelay(int(*d))
		}
		if b := argInt64Ptr(args, "batchSize"); b != nil {
			cfg.Perf.SetBatchSize(int(*b))
		}
		if eb, ok := args["enableBatching"].(bool); ok {
			cfg.Perf.SetEnableBatching(eb)
		}

		return jsonResult(cfg.Perf.Settings())
	}
}
