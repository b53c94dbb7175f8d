package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/store"
)

// TestRestoreFavoritesThroughReindex exercises the worked example: favorite a
// system app, reset the system application set as if a rescan ran (dropping
// one app and moving another to a new path), reinsert the survivors, and
// confirm restore_system_app_favorites re-applies favorites by path when
// possible and falls back to name match when the path changed.
func TestRestoreFavoritesThroughReindex(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.InsertSystemApplication(ctx, store.Application{Path: "/Applications/Keep.app", Name: "Keep"}))
	require.NoError(t, st.InsertSystemApplication(ctx, store.Application{Path: "/Applications/Moved.app", Name: "Moved"}))
	require.NoError(t, st.InsertSystemApplication(ctx, store.Application{Path: "/Applications/Gone.app", Name: "Gone"}))

	require.NoError(t, st.SetFavorite(ctx, "/Applications/Keep.app", true, 1000))
	require.NoError(t, st.SetFavorite(ctx, "/Applications/Moved.app", true, 2000))
	require.NoError(t, st.SetFavorite(ctx, "/Applications/Gone.app", true, 3000))

	favorites, err := st.GetSystemAppFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 3)

	// Rescan: Keep.app is seen again at the same path, Moved.app is seen at a
	// new path (so it's dropped by the stale-path sweep and reinserted at its
	// new location), Gone.app is no longer seen on disk at all.
	require.NoError(t, st.ResetSystemApplications(ctx, map[string]bool{"/Applications/Keep.app": true}))

	_, err = st.GetSystemAppFavorites(ctx)
	require.NoError(t, err)

	require.NoError(t, st.InsertSystemApplication(ctx, store.Application{Path: "/Applications/Moved.app.new", Name: "Moved"}))

	require.NoError(t, st.RestoreSystemAppFavorites(ctx, favorites))

	restored, err := st.GetSystemAppFavorites(ctx)
	require.NoError(t, err)

	byPath := make(map[string]store.Application, len(restored))
	for _, a := range restored {
		byPath[a.Path] = a
	}

	assert.Contains(t, byPath, "/Applications/Keep.app", "an app seen at its original path restores its favorite by path")
	assert.Contains(t, byPath, "/Applications/Moved.app.new", "an app reinserted at a new path restores its favorite by name fallback")
	assert.NotContains(t, byPath, "/Applications/Gone.app", "an app never reinserted has nothing to restore onto")
}

// TestRestoreSystemAppFavoritesNameFallbackNeverStampsAnAlreadyFavoritedRow
// guards the fix requiring the name-fallback match to carry isFavorite = 0:
// a same-named app that is already favorited under a different path must
// not be silently re-stamped with a stale favorite timestamp.
func TestRestoreSystemAppFavoritesNameFallbackNeverStampsAnAlreadyFavoritedRow(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.InsertSystemApplication(ctx, store.Application{Path: "/Applications/New/Notes.app", Name: "Notes"}))

	require.NoError(t, st.SetFavorite(ctx, "/Applications/New/Notes.app", true, 9000))

	// The path this favorite was captured under no longer exists (e.g. the
	// application moved), forcing RestoreSystemAppFavorites to fall back to
	// matching by name.
	stale := []store.Application{{Path: "/Applications/Old/Notes.app", Name: "Notes", FavoriteAddedAt: 1}}
	require.NoError(t, st.RestoreSystemAppFavorites(ctx, stale))

	favorites, err := st.GetSystemAppFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1, "the fallback must not add a second favorite onto the unrelated already-favorited row")
	assert.Equal(t, "/Applications/New/Notes.app", favorites[0].Path)
	assert.Equal(t, int64(9000), favorites[0].FavoriteAddedAt, "the already-favorited row's timestamp must be untouched")
}

func TestResetSystemApplicationsRemovesAppsNotInTheLatestScan(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.InsertSystemApplication(ctx, store.Application{Path: "/Applications/Sys.app", Name: "Sys"}))
	require.NoError(t, st.SetFavorite(ctx, "/Applications/Sys.app", true, 1000))

	require.NoError(t, st.ResetSystemApplications(ctx, map[string]bool{}))

	apps, err := st.GetSystemAppFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, apps, "an app absent from the latest scan's seenPaths must be swept away, favorite included")
}
