package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicobject/diskdex/internal/store"
)

// watchLoop translates fsnotify events into pending-batch entries, flushing
// on a batch_collect_time_ms window or immediately under backpressure
// (§4.4 "Live phase"). Its event-translation shape is a direct descendant
// of the teacher's watchLoop in pkg/cache/service.go, generalized from
// dirty-marking a vault cache to upserting/removing rows in the Store.
func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	armTimer := func() {
		if flushTimer != nil {
			return
		}
		flushTimer = time.NewTimer(w.batchCollectTime)
		flushCh = flushTimer.C
	}
	disarmTimer := func() {
		if flushTimer != nil {
			flushTimer.Stop()
			flushTimer = nil
			flushCh = nil
		}
	}

	for {
		select {
		case <-w.ctx.Done():
			disarmTimer()
			return

		case evt, ok := <-w.fsWatcher.Events():
			if !ok {
				w.transitionError(errWatcherChannelClosed)
				return
			}
			if w.IsPaused() {
				continue
			}
			w.handleFSEvent(evt)
			if !w.batchingEnabled() || w.batchFull() {
				disarmTimer()
				w.flushBatch(w.ctx)
			} else {
				armTimer()
			}

		case <-flushCh:
			disarmTimer()
			if !w.IsPaused() {
				w.flushBatch(w.ctx)
			}

		case err, ok := <-w.fsWatcher.Errors():
			if !ok {
				w.transitionError(errWatcherChannelClosed)
				return
			}
			w.log.Printf("watcher %s: fs watcher error: %v", w.root, err)
		}
	}
}

var errWatcherChannelClosed = &watcherClosedError{}

type watcherClosedError struct{}

func (e *watcherClosedError) Error() string { return "fs watcher channel closed" }

func (w *Watcher) handleFSEvent(evt fsnotify.Event) {
	if shouldIgnorePath(w.root, evt.Name, w.ignorePatterns) {
		return
	}

	switch {
	case evt.Op&fsnotify.Create == fsnotify.Create:
		info, err := w.statFollowingPolicy(evt.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			w.recordFolder(w.ctx, evt.Name, info.ModTime())
			return
		}
		w.enqueueUpsert(evt.Name, fileDataFor(evt.Name, info))

	case evt.Op&fsnotify.Write == fsnotify.Write:
		info, err := w.statFollowingPolicy(evt.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			return
		}
		w.enqueueUpsert(evt.Name, fileDataFor(evt.Name, info))

	case evt.Op&fsnotify.Remove == fsnotify.Remove, evt.Op&fsnotify.Rename == fsnotify.Rename:
		w.enqueueRemoval(evt.Name)
	}
}

func (w *Watcher) enqueueUpsert(path string, data store.FileData) {
	w.batchMu.Lock()
	delete(w.pendingRemovals, path)
	w.pendingUpserts[path] = data
	w.batchMu.Unlock()
}

func (w *Watcher) enqueueRemoval(path string) {
	w.batchMu.Lock()
	delete(w.pendingUpserts, path)
	w.pendingRemovals[path] = struct{}{}
	w.batchMu.Unlock()
}

func (w *Watcher) batchFull() bool {
	w.mu.Lock()
	size := w.batchSize
	w.mu.Unlock()

	w.batchMu.Lock()
	n := len(w.pendingUpserts) + len(w.pendingRemovals)
	w.batchMu.Unlock()
	return n >= size
}

// flushBatch applies the pending upserts (one Store.BatchUpsertFiles
// transaction) and removals (one Store.RemovePath transaction each), then
// recomputes the touched folders' counts, retrying a
// transient failure once after the current delay before transitioning to
// the error state (§4.4 "Failure semantics").
func (w *Watcher) flushBatch(ctx context.Context) {
	w.batchMu.Lock()
	upserts := w.pendingUpserts
	removals := w.pendingRemovals
	w.pendingUpserts = make(map[string]store.FileData)
	w.pendingRemovals = make(map[string]struct{})
	w.batchMu.Unlock()

	if len(upserts) == 0 && len(removals) == 0 {
		return
	}

	if err := w.applyBatch(ctx, upserts, removals); err != nil {
		w.mu.Lock()
		delay := w.delay
		w.mu.Unlock()
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if err := w.applyBatch(ctx, upserts, removals); err != nil {
			w.transitionError(err)
			return
		}
	}

	w.emit(Event{Kind: EventProcessingComplete, Root: w.root, Status: w.GetStatus()})
}

func (w *Watcher) applyBatch(ctx context.Context, upserts map[string]store.FileData, removals map[string]struct{}) error {
	if len(upserts) > 0 {
		_, itemErrs, err := w.store.BatchUpsertFiles(ctx, upserts)
		if err != nil {
			return err
		}
		for path, ierr := range itemErrs {
			w.log.Printf("watcher %s: skipping %s: %v", w.root, path, ierr)
		}
		w.mu.Lock()
		w.processedFiles += int64(len(upserts))
		w.mu.Unlock()
	}
	for path := range removals {
		if err := w.store.RemovePath(ctx, path); err != nil {
			return err
		}
	}

	touchedFolders := make(map[string]struct{})
	for path := range upserts {
		touchedFolders[filepath.Dir(path)] = struct{}{}
	}
	for path := range removals {
		touchedFolders[filepath.Dir(path)] = struct{}{}
	}
	for folder := range touchedFolders {
		if err := w.store.UpdateFolderCounts(ctx, folder); err != nil {
			return err
		}
	}
	return nil
}
