package controller

import (
	"context"

	"github.com/atomicobject/diskdex/internal/store"
)

// AddWatchPath registers path as a new watched root with the given depth
// (store.UnlimitedDepth for unlimited). It first checks for overlap against
// every existing watched root; on conflict it returns
// {Success:false, OverlappingFolder}. Otherwise it persists the root,
// constructs its Watcher, and either starts it immediately (if no watcher
// is currently indexing and the queue is empty) or enqueues it paused
// (§4.5 "add_watch_path").
func (c *Controller) AddWatchPath(ctx context.Context, path string, depth int) (AddWatchResult, error) {
	reply := make(chan AddWatchResult, 1)
	c.cmdCh <- msgAddWatch{path: path, depth: depth, reply: reply}
	result := <-reply
	if !result.Success {
		return result, nil
	}

	if err := c.store.AddWatchedFolder(ctx, store.WatchedFolder{Path: path, Name: baseName(path), Depth: depth}); err != nil {
		return AddWatchResult{}, err
	}
	return result, nil
}

// RemoveWatchPath tears down the Watcher for path and deletes its
// watched_folders row; files and folders carrying that watched_folder_path
// CASCADE-delete in the store (§4.5 "remove_watch_path").
func (c *Controller) RemoveWatchPath(ctx context.Context, path string) error {
	reply := make(chan error, 1)
	c.cmdCh <- msgRemoveWatch{path: path, reply: reply}
	if err := <-reply; err != nil {
		return err
	}
	return c.store.RemoveWatchedFolder(ctx, path)
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
