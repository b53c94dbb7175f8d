package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// FavoritesSetTool wraps Store.SetFavorite for both favorites_add (fav=true)
// and favorites_remove (fav=false).
func FavoritesSetTool(cfg Config, fav bool) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path := argString(args, "path")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		if err := cfg.Store.SetFavorite(ctx, path, fav, nowMillis()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("favorites update failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"path": path, "isFavorite": fav})
	}
}

// FavoritesBatchCheckTool wraps Store.IsFavorite over multiple paths
// (§6 "favorites_batch_check").
func FavoritesBatchCheckTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		paths := argStringSlice(args, "paths")
		if len(paths) == 0 {
			return mcp.NewToolResultError("paths is required"), nil
		}

		out := make(map[string]bool, len(paths))
		for _, p := range paths {
			fav, err := cfg.Store.IsFavorite(ctx, p)
			if err != nil {
				out[p] = false
				continue
			}
			out[p] = fav
		}
		return jsonResult(out)
	}
}

// NotesGetTool wraps Store.GetNote (§4.1 "notes_get").
func NotesGetTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path := argString(args, "path")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		content, found, err := cfg.Store.GetNote(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("notes_get failed: %v", err)), nil
		}
		if !found {
			return jsonResult(nil)
		}
		return jsonResult(map[string]any{"path": path, "content": content})
	}
}

// NotesSetTool wraps Store.SetNote (§4.1 "notes_set").
func NotesSetTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path := argString(args, "path")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		content := argString(args, "content")
		if err := cfg.Store.SetNote(ctx, path, content, nowMillis()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("notes_set failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"path": path})
	}
}

// NotesBatchCheckTool reports whether each path has an attached note.
func NotesBatchCheckTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		paths := argStringSlice(args, "paths")
		if len(paths) == 0 {
			return mcp.NewToolResultError("paths is required"), nil
		}

		out := make(map[string]bool, len(paths))
		for _, p := range paths {
			_, found, err := cfg.Store.GetNote(ctx, p)
			out[p] = err == nil && found
		}
		return jsonResult(out)
	}
}
