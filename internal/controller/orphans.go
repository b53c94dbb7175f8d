package controller

import (
	"context"
	"os"
	"sync"
	"time"
)

const orphanBatchSize = 200

// CleanupResult reports what cleanup_orphaned_database_entries did (§4.5,
// §8 scenario 2).
type CleanupResult struct {
	CheckedEntries int
	RemovedEntries int
}

// orphanCleanupLoop waits 5s after Initialize, then rechecks every 10s
// until no watcher is actively running its initial scan, at which point it
// runs the sweep once and exits (§4.5 "Lifecycle"). Running the sweep while
// a scan is in flight would misreport paths the scan hasn't reached yet as
// orphaned.
func (c *Controller) orphanCleanupLoop(ctx context.Context) {
	defer c.wg.Done()

	select {
	case <-time.After(5 * time.Second):
	case <-ctx.Done():
		return
	}

	for {
		if c.computeSnapshot().ActiveIndexingWatchers == 0 {
			if _, err := c.CleanupOrphanedDatabaseEntries(ctx); err != nil {
				c.log.Printf("controller: orphan cleanup failed: %v", err)
			}
			return
		}
		select {
		case <-time.After(10 * time.Second):
		case <-ctx.Done():
			return
		}
	}
}

// CleanupOrphanedDatabaseEntries iterates every files.path, stats each in
// batches of orphanBatchSize (parallel within a batch), deletes the
// inaccessible ones one transaction per row via Store.RemovePath, and
// cooperatively yields between batches (§4.5, §7 "cleanup_orphaned_database_entries").
func (c *Controller) CleanupOrphanedDatabaseEntries(ctx context.Context) (CleanupResult, error) {
	paths, err := c.store.ListAllFilePaths(ctx)
	if err != nil {
		return CleanupResult{}, err
	}

	result := CleanupResult{CheckedEntries: len(paths)}

	for start := 0; start < len(paths); start += orphanBatchSize {
		end := start + orphanBatchSize
		if end > len(paths) {
			end = len(paths)
		}
		batch := paths[start:end]

		missing := statBatch(batch)
		for _, p := range missing {
			if err := c.store.RemovePath(ctx, p); err != nil {
				c.log.Printf("controller: orphan cleanup: removing %s: %v", p, err)
				continue
			}
			result.RemovedEntries++
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
	}

	return result, nil
}

// statBatch stats every path in batch concurrently and returns the ones
// that no longer exist.
func statBatch(batch []string) []string {
	var mu sync.Mutex
	var missing []string
	var wg sync.WaitGroup

	wg.Add(len(batch))
	for _, p := range batch {
		go func(path string) {
			defer wg.Done()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				mu.Lock()
				missing = append(missing, path)
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()
	return missing
}
