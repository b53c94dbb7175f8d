package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/config"
)

func withTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	original := config.UserConfigDirectory
	config.UserConfigDirectory = func() (string, error) { return dir, nil }
	t.Cleanup(func() { config.UserConfigDirectory = original })
	return dir
}

func TestLoadReturnsDefaultWhenFileMissing(t *testing.T) {
	withTempConfigDir(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	withTempConfigDir(t)

	cfg := config.Default()
	cfg.WatchedRoots = []config.WatchedRoot{{Path: "/home/user/Documents", Depth: -1}}

	require.NoError(t, config.Save(cfg))

	loaded, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestAppendRemovedWatchedFolderIsIdempotent(t *testing.T) {
	withTempConfigDir(t)

	require.NoError(t, config.AppendRemovedWatchedFolder("/home/user/Gone"))
	require.NoError(t, config.AppendRemovedWatchedFolder("/home/user/Gone"))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/user/Gone"}, cfg.RemovedWatchedFolders)
}

func TestDrainRemovedWatchedFoldersDeliversOnce(t *testing.T) {
	withTempConfigDir(t)

	require.NoError(t, config.AppendRemovedWatchedFolder("/home/user/Gone"))

	pending, err := config.DrainRemovedWatchedFolders()
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/user/Gone"}, pending)

	again, err := config.DrainRemovedWatchedFolders()
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestPathPlacesConfigFileUnderConfigDirectoryName(t *testing.T) {
	dir := withTempConfigDir(t)

	_, file, err := config.Path()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "diskdex", "config.yaml"), file)
}
