package search_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/search"
	"github.com/atomicobject/diskdex/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	st, err := store.Open(dbPath, store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func upsertFile(t *testing.T, st *store.Store, path, name, category string) {
	t.Helper()
	require.NoError(t, st.UpsertFile(context.Background(), path, store.FileData{
		"name":       name,
		"folderPath": filepath.Dir(path),
		"size":       int64(1),
		"modifiedAt": int64(1),
		"mimeType":   "application/octet-stream",
		"fileType":   "txt",
		"category":   category,
	}))
}

func TestQuickSearchMatchesApproximateSubsequence(t *testing.T) {
	st := openTestStore(t)
	upsertFile(t, st, "/vault/website_development.txt", "website_development.txt", "document")

	eng := search.New(st, search.DefaultLimits())

	items, err := eng.QuickSearch(context.Background(), "webxdev")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "website_development.txt", items[0].Name)

	items, err = eng.QuickSearch(context.Background(), "webqqqz")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFilteredSearchTypeWithoutFolderExcludesFolders(t *testing.T) {
	st := openTestStore(t)
	upsertFile(t, st, "/vault/report.txt", "report.txt", "document")
	require.NoError(t, st.UpsertFolder(context.Background(), store.Folder{
		Path:       "/vault/reports",
		Name:       "reports",
		ParentPath: "/vault",
		ModifiedAt: 1,
		IndexedAt:  1,
	}))

	eng := search.New(st, search.DefaultLimits())

	items, err := eng.FilteredSearch(context.Background(), search.Filters{Type: []string{"document"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "report.txt", items[0].Name)
}

func TestFilteredSearchTypeWithFolderIncludesFolders(t *testing.T) {
	st := openTestStore(t)
	upsertFile(t, st, "/vault/report.txt", "report.txt", "document")
	require.NoError(t, st.UpsertFolder(context.Background(), store.Folder{
		Path:       "/vault/reports",
		Name:       "reports",
		ParentPath: "/vault",
		ModifiedAt: 1,
		IndexedAt:  1,
	}))

	eng := search.New(st, search.DefaultLimits())

	items, err := eng.FilteredSearch(context.Background(), search.Filters{Type: []string{"folder", "document"}})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
