package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/store"
)

func TestAddWatchedFolderDefaultsZeroDepthToUnlimited(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AddWatchedFolder(ctx, store.WatchedFolder{Path: "/vault", Name: "vault"}))

	wf, err := st.GetWatchedFolder(ctx, "/vault")
	require.NoError(t, err)
	require.NotNil(t, wf)
	assert.Equal(t, store.UnlimitedDepth, wf.Depth)
}

func TestAddWatchedFolderUpsertsOnConflict(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AddWatchedFolder(ctx, store.WatchedFolder{Path: "/vault", Name: "vault", Depth: 2}))
	require.NoError(t, st.AddWatchedFolder(ctx, store.WatchedFolder{Path: "/vault", Name: "renamed", Depth: 5}))

	wf, err := st.GetWatchedFolder(ctx, "/vault")
	require.NoError(t, err)
	assert.Equal(t, "renamed", wf.Name)
	assert.Equal(t, 5, wf.Depth)
}

func TestRemoveWatchedFolderUnknownPathReturnsNotFound(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.RemoveWatchedFolder(ctx, "/nowhere")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemoveWatchedFolderCascadesButPreservesNotes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AddWatchedFolder(ctx, store.WatchedFolder{Path: "/vault", Name: "vault"}))
	require.NoError(t, st.UpsertFolder(ctx, store.Folder{Path: "/vault", Name: "vault", WatchedFolderPath: "/vault"}))
	require.NoError(t, st.UpsertFile(ctx, "/vault/a.txt", store.FileData{
		"name": "a.txt", "folderPath": "/vault", "watchedFolderPath": "/vault",
	}))
	require.NoError(t, st.SetNote(ctx, "/vault/a.txt", "hello", 100))

	require.NoError(t, st.RemoveWatchedFolder(ctx, "/vault"))

	wf, err := st.GetWatchedFolder(ctx, "/vault")
	require.NoError(t, err)
	assert.Nil(t, wf)

	f, err := st.GetFile(ctx, "/vault/a.txt")
	require.NoError(t, err)
	assert.Nil(t, f, "the file row carrying the removed watched folder path must cascade away")

	content, ok, err := st.GetNote(ctx, "/vault/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", content)
}

func TestListWatchedFoldersOrdersByPath(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AddWatchedFolder(ctx, store.WatchedFolder{Path: "/zeta", Name: "zeta"}))
	require.NoError(t, st.AddWatchedFolder(ctx, store.WatchedFolder{Path: "/alpha", Name: "alpha"}))

	list, err := st.ListWatchedFolders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "/alpha", list[0].Path)
	assert.Equal(t, "/zeta", list[1].Path)
}

func TestUpdateWatchedFolderProgressUpdatesCounters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AddWatchedFolder(ctx, store.WatchedFolder{Path: "/vault", Name: "vault"}))
	require.NoError(t, st.UpdateWatchedFolderProgress(ctx, "/vault", 10, 4, 1000, 900))

	wf, err := st.GetWatchedFolder(ctx, "/vault")
	require.NoError(t, err)
	assert.Equal(t, int64(10), wf.TotalFiles)
	assert.Equal(t, int64(4), wf.ProcessedFiles)
	assert.Equal(t, int64(1000), wf.LastIndexed)
	assert.Equal(t, int64(900), wf.LastModified)
}
