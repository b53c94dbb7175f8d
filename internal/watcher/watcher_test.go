package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/store"
	"github.com/atomicobject/diskdex/internal/watcher"
)

// fakeFSWatcher is a no-op FSWatcher substitute so Initialize doesn't reach
// for a real fsnotify handle in tests, mirroring the teacher's practice of
// swapping fakes in behind its cache.Watcher interface seam.
type fakeFSWatcher struct {
	events chan fsnotify.Event
	errs   chan error
}

func newFakeFSWatcher() (watcher.FSWatcher, error) {
	return &fakeFSWatcher{
		events: make(chan fsnotify.Event),
		errs:   make(chan error),
	}, nil
}

func (f *fakeFSWatcher) Add(string) error               { return nil }
func (f *fakeFSWatcher) Remove(string) error             { return nil }
func (f *fakeFSWatcher) Close() error                    { close(f.events); close(f.errs); return nil }
func (f *fakeFSWatcher) Events() <-chan fsnotify.Event   { return f.events }
func (f *fakeFSWatcher) Errors() <-chan error             { return f.errs }

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	st, err := store.Open(dbPath, store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestInitializeScansExistingFilesAndFolders(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("world"), 0o644))

	st := openTestStore(t)
	w := watcher.New(st, watcher.Config{
		RootPath:             root,
		Depth:                store.UnlimitedDepth,
		StabilityThresholdMs: 1,
		FSWatcherFactory:     newFakeFSWatcher,
	})

	require.NoError(t, w.Initialize(context.Background()))
	defer w.Cleanup()

	status := w.GetStatus()
	assert.Equal(t, string(watcher.StateWatching), status.State)
	assert.Equal(t, int64(2), status.TotalFiles)
	assert.Equal(t, int64(2), status.ProcessedFiles)
}

func TestPauseDropsPendingBatchAndResumeReEnables(t *testing.T) {
	root := t.TempDir()
	st := openTestStore(t)
	w := watcher.New(st, watcher.Config{
		RootPath:             root,
		Depth:                store.UnlimitedDepth,
		StabilityThresholdMs: 1,
		FSWatcherFactory:     newFakeFSWatcher,
	})

	require.NoError(t, w.Initialize(context.Background()))
	defer w.Cleanup()

	assert.False(t, w.IsPaused())
	w.Pause()
	assert.True(t, w.IsPaused())
	w.Resume()
	assert.False(t, w.IsPaused())
}

func TestDisablingBatchingFlushesEveryEventImmediately(t *testing.T) {
	root := t.TempDir()
	fake := &fakeFSWatcher{events: make(chan fsnotify.Event), errs: make(chan error)}

	st := openTestStore(t)
	w := watcher.New(st, watcher.Config{
		RootPath:             root,
		Depth:                store.UnlimitedDepth,
		StabilityThresholdMs: 1,
		BatchCollectTimeMs:   60_000, // long enough that a timer-based flush would never fire in this test
		DefaultBatchSize:     1000,   // large enough that batchFull alone would never trigger a flush
		FSWatcherFactory:     func() (watcher.FSWatcher, error) { return fake, nil },
	})
	w.SetEnableBatching(false)

	require.NoError(t, w.Initialize(context.Background()))
	defer w.Cleanup()

	path := filepath.Join(root, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))
	fake.events <- fsnotify.Event{Name: path, Op: fsnotify.Create}

	require.Eventually(t, func() bool {
		return w.GetStatus().ProcessedFiles >= 1
	}, time.Second, 10*time.Millisecond, "disabled batching should flush the event without waiting for the collect window")
}

func TestCleanupWithoutInitializeDoesNotBlock(t *testing.T) {
	st := openTestStore(t)
	w := watcher.New(st, watcher.Config{RootPath: t.TempDir()})

	done := make(chan struct{})
	go func() {
		w.Cleanup()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cleanup blocked without a prior Initialize")
	}
}
