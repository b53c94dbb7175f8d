package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/store"
)

func TestSetFileTagsAttachesAndCreatesOnTheFly(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFile(ctx, "/vault/a.txt", store.FileData{"name": "a.txt"}))
	require.NoError(t, st.SetFileTags(ctx, "/vault/a.txt", []string{"work", "urgent"}))

	tags, err := st.GetFileTags(ctx, "/vault/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "work"}, tags)
}

func TestSetFileTagsReplacesPreviousSet(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFile(ctx, "/vault/a.txt", store.FileData{"name": "a.txt"}))
	require.NoError(t, st.SetFileTags(ctx, "/vault/a.txt", []string{"work", "urgent"}))

	require.NoError(t, st.SetFileTags(ctx, "/vault/a.txt", []string{"personal"}))

	tags, err := st.GetFileTags(ctx, "/vault/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"personal"}, tags)
}

func TestSetFileTagsSharesTagAcrossFiles(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFile(ctx, "/vault/a.txt", store.FileData{"name": "a.txt"}))
	require.NoError(t, st.UpsertFile(ctx, "/vault/b.txt", store.FileData{"name": "b.txt"}))
	require.NoError(t, st.SetFileTags(ctx, "/vault/a.txt", []string{"shared"}))
	require.NoError(t, st.SetFileTags(ctx, "/vault/b.txt", []string{"shared"}))

	paths, err := st.ListFilesByTag(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, []string{"/vault/a.txt", "/vault/b.txt"}, paths)

	// Clearing one file's tags must not affect the tag row still referenced
	// by the other file.
	require.NoError(t, st.SetFileTags(ctx, "/vault/a.txt", nil))
	paths, err = st.ListFilesByTag(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, []string{"/vault/b.txt"}, paths)
}
