package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/search"
	"github.com/atomicobject/diskdex/internal/store"
)

func openTestStoreWithFile(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	st, err := store.Open(dbPath, store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.UpsertFile(context.Background(), "/vault/report.txt", store.FileData{
		"name":       "report.txt",
		"folderPath": "/vault",
		"size":       int64(10),
		"modifiedAt": int64(1000),
		"mimeType":   "text/plain",
		"fileType":   "txt",
		"category":   "document",
	}))
	return st
}

func TestQuickSearchToolRequiresQuery(t *testing.T) {
	st := openTestStoreWithFile(t)
	cfg := Config{Store: st, Engine: search.New(st, search.DefaultLimits())}

	tool := QuickSearchTool(cfg)
	resp, err := tool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "quick_search", Arguments: map[string]interface{}{}},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
}

func TestQuickSearchToolReturnsMatchingItems(t *testing.T) {
	st := openTestStoreWithFile(t)
	cfg := Config{Store: st, Engine: search.New(st, search.DefaultLimits())}

	tool := QuickSearchTool(cfg)
	resp, err := tool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "quick_search",
			Arguments: map[string]interface{}{"query": "report"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)

	text, ok := resp.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var decoded struct {
		Items []store.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "report.txt", decoded.Items[0].Name)
}
