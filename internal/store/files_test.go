package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/store"
)

func TestUpsertFileThenGetFileRoundTrips(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFile(ctx, "/vault/a.txt", store.FileData{
		"name": "a.txt", "folderPath": "/vault", "size": int64(10), "modifiedAt": int64(100), "category": "document",
	}))

	f, err := st.GetFile(ctx, "/vault/a.txt")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "a.txt", f.Name)
	assert.Equal(t, int64(10), f.Size)
	assert.Equal(t, "document", f.Category)

	require.NoError(t, st.UpsertFile(ctx, "/vault/a.txt", store.FileData{"size": int64(20)}))
	f, err = st.GetFile(ctx, "/vault/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(20), f.Size)
	assert.Equal(t, "a.txt", f.Name, "columns not present in the second upsert must survive untouched")
}

func TestUpsertFileRejectsEmptyPathAndData(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.UpsertFile(ctx, "", store.FileData{"name": "a.txt"})
	var invalid *store.InvalidFileDataError
	assert.ErrorAs(t, err, &invalid)

	err = st.UpsertFile(ctx, "/vault/a.txt", store.FileData{})
	assert.ErrorAs(t, err, &invalid)

	err = st.UpsertFile(ctx, "/vault/a.txt", store.FileData{"notAColumn": "x"})
	assert.ErrorAs(t, err, &invalid)
}

func TestGetFileDataRoundTripsNonScalarColumns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFile(ctx, "/vault/a.txt", store.FileData{
		"name": "a.txt", "size": int64(10), "category": []string{"document", "text"},
	}))

	data, err := st.GetFileData(ctx, "/vault/a.txt")
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "a.txt", data["name"])
	assert.Equal(t, []any{"document", "text"}, data["category"])

	_, err = st.GetFileData(ctx, "/vault/missing.txt")
	require.NoError(t, err)
}

func TestBatchUpsertFilesCollectsPerItemErrorsWithoutAbortingBatch(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	successCount, itemErrs, err := st.BatchUpsertFiles(ctx, map[string]store.FileData{
		"/vault/good.txt": {"name": "good.txt"},
		"/vault/bad.txt":  {},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, successCount)
	assert.Len(t, itemErrs, 1)
	assert.Contains(t, itemErrs, "/vault/bad.txt")

	f, err := st.GetFile(ctx, "/vault/good.txt")
	require.NoError(t, err)
	assert.NotNil(t, f, "a failing sibling item must not roll back the items that validated fine")
}

func TestRemovePathDeletesFileAndEmptyAncestorFolders(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFolder(ctx, store.Folder{Path: "/vault", Name: "vault"}))
	require.NoError(t, st.UpsertFolder(ctx, store.Folder{Path: "/vault/sub", Name: "sub", ParentPath: "/vault"}))
	require.NoError(t, st.UpsertFile(ctx, "/vault/sub/a.txt", store.FileData{
		"name": "a.txt", "folderPath": "/vault/sub",
	}))
	require.NoError(t, st.UpdateFolderCounts(ctx, "/vault/sub"))

	folder, err := st.GetFolder(ctx, "/vault")
	require.NoError(t, err)
	require.NotNil(t, folder)
	assert.Equal(t, int64(1), folder.TotalFileCount)

	require.NoError(t, st.RemovePath(ctx, "/vault/sub/a.txt"))

	f, err := st.GetFile(ctx, "/vault/sub/a.txt")
	require.NoError(t, err)
	assert.Nil(t, f)

	sub, err := st.GetFolder(ctx, "/vault/sub")
	require.NoError(t, err)
	assert.Nil(t, sub, "an empty subtree folder must be deleted once its only file is removed")
}

func TestRemovePathPreservesNotes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFile(ctx, "/vault/a.txt", store.FileData{"name": "a.txt"}))
	require.NoError(t, st.SetNote(ctx, "/vault/a.txt", "hello", 1000))

	require.NoError(t, st.RemovePath(ctx, "/vault/a.txt"))

	content, ok, err := st.GetNote(ctx, "/vault/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", content)
}

func TestUpdateFolderCountsRecomputesBottomUp(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFolder(ctx, store.Folder{Path: "/vault", Name: "vault"}))
	require.NoError(t, st.UpsertFolder(ctx, store.Folder{Path: "/vault/sub", Name: "sub", ParentPath: "/vault"}))
	require.NoError(t, st.UpsertFile(ctx, "/vault/top.txt", store.FileData{"name": "top.txt", "folderPath": "/vault"}))
	require.NoError(t, st.UpsertFile(ctx, "/vault/sub/a.txt", store.FileData{"name": "a.txt", "folderPath": "/vault/sub"}))
	require.NoError(t, st.UpsertFile(ctx, "/vault/sub/b.txt", store.FileData{"name": "b.txt", "folderPath": "/vault/sub"}))

	require.NoError(t, st.UpdateFolderCounts(ctx, "/vault/sub"))

	sub, err := st.GetFolder(ctx, "/vault/sub")
	require.NoError(t, err)
	assert.Equal(t, int64(2), sub.DirectFileCount)
	assert.Equal(t, int64(2), sub.TotalFileCount)

	top, err := st.GetFolder(ctx, "/vault")
	require.NoError(t, err)
	assert.Equal(t, int64(1), top.DirectFileCount)
	assert.Equal(t, int64(3), top.TotalFileCount, "the root's total must include its own file plus its subtree's")
	assert.Equal(t, int64(1), top.DirectChildCount)
	assert.Equal(t, int64(1), top.TotalChildCount)
}
