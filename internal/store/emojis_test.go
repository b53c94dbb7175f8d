package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/store"
)

func TestUpsertEmojiThenGet(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertEmoji(ctx, store.Emoji{Path: "🎉", Char: "🎉", Name: "party popper"}))

	e, err := st.GetEmoji(ctx, "🎉")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "party popper", e.Name)
	assert.False(t, e.IsFavorite)

	require.NoError(t, st.UpsertEmoji(ctx, store.Emoji{Path: "🎉", Char: "🎉", Name: "tada"}))
	e, err = st.GetEmoji(ctx, "🎉")
	require.NoError(t, err)
	assert.Equal(t, "tada", e.Name)
}

func TestSetEmojiFavoriteAssignsIncreasingSortOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertEmoji(ctx, store.Emoji{Path: "🎉", Char: "🎉", Name: "party popper"}))
	require.NoError(t, st.UpsertEmoji(ctx, store.Emoji{Path: "🎈", Char: "🎈", Name: "balloon"}))

	require.NoError(t, st.SetEmojiFavorite(ctx, "🎉", true, 100))
	require.NoError(t, st.SetEmojiFavorite(ctx, "🎈", true, 200))

	favorites, err := st.ListFavoriteEmojis(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "🎉", favorites[0].Path)
	assert.Equal(t, "🎈", favorites[1].Path)
	assert.Less(t, favorites[0].FavoriteSortOrder, favorites[1].FavoriteSortOrder)
}

func TestSetEmojiFavoriteFalseClearsFavoriteMetadata(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertEmoji(ctx, store.Emoji{Path: "🎉", Char: "🎉", Name: "party popper"}))
	require.NoError(t, st.SetEmojiFavorite(ctx, "🎉", true, 100))
	require.NoError(t, st.SetEmojiFavorite(ctx, "🎉", false, 100))

	e, err := st.GetEmoji(ctx, "🎉")
	require.NoError(t, err)
	assert.False(t, e.IsFavorite)
	assert.Equal(t, int64(0), e.FavoriteAddedAt)

	favorites, err := st.ListFavoriteEmojis(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestGetEmojiUnknownPathReturnsNil(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	e, err := st.GetEmoji(ctx, "👻")
	require.NoError(t, err)
	assert.Nil(t, e)
}
