package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atomicobject/diskdex/internal/search"
)

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func argStringSlice(args map[string]any, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func argInt64Ptr(args map[string]any, key string) *int64 {
	f, ok := args[key].(float64)
	if !ok {
		return nil
	}
	v := int64(f)
	return &v
}

// QuickSearchTool wraps search.Engine.QuickSearch (§4.6 "quick_search").
func QuickSearchTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		query := argString(args, "query")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		items, err := cfg.Engine.QuickSearch(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("quick_search failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"items": items})
	}
}

// FilteredSearchTool wraps search.Engine.FilteredSearch (§4.6 "filtered_search").
func FilteredSearchTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		f := search.Filters{
			Query: argString(args, "query"),
			Type:  argStringSlice(args, "type"),
			Tags:  argStringSlice(args, "tags"),
		}
		if from, to := argInt64Ptr(args, "dateFrom"), argInt64Ptr(args, "dateTo"); from != nil || to != nil {
			f.DateRange = &search.DateRange{From: from, To: to}
		}
		if min, max := argInt64Ptr(args, "sizeMin"), argInt64Ptr(args, "sizeMax"); min != nil || max != nil {
			f.Size = &search.SizeRange{Min: min, Max: max}
		}

		items, err := cfg.Engine.FilteredSearch(ctx, f)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("filtered_search failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"items": items})
	}
}

// AppSearchTool wraps search.Engine.SearchApplications (§4.6 "search_applications").
func AppSearchTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		query := argString(args, "query")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		apps, err := cfg.Engine.SearchApplications(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("app_search failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"apps": apps})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error marshaling response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}
