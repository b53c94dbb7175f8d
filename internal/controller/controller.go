// Package controller implements the Index Controller: the per-process
// supervisor that owns a set of per-folder watchers, sequences their
// initial scans behind the active-indexing-watcher invariant, propagates
// performance parameters, and exposes aggregate status (§4.5).
package controller

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/atomicobject/diskdex/internal/perf"
	"github.com/atomicobject/diskdex/internal/status"
	"github.com/atomicobject/diskdex/internal/store"
	"github.com/atomicobject/diskdex/internal/watcher"
)

// AddWatchResult is returned by AddWatchPath (§7 "add_watch_path returns
// {success, error?, overlapping_folder?}").
type AddWatchResult struct {
	Success           bool
	Err               error
	OverlappingFolder string
}

// Config configures a Controller.
type Config struct {
	WatcherConfigFor func(path string, depth int) watcher.Config
	StatusInterval   time.Duration // default 1s, §4.5
	Logger           *log.Logger
}

// Controller is constructed once in the composition root (cmd/root.go-
// style, §9 "Module-level singletons") and passed explicitly to callers
// (CLI commands, the MCP tool server); it holds no package-level state.
//
// The watchers map, FIFO queue, and active-indexing path are owned
// exclusively by the run loop goroutine, which is the sole mutator; every
// other method communicates with it over cmdCh, following §9's guidance to
// model shared mutable state as "a single owner with message-passing
// inputs" instead of ambient locks sprinkled across call sites.
type Controller struct {
	store   *store.Store
	perfMgr *perf.Manager
	status  *status.Manager
	log     *log.Logger

	watcherConfigFor func(path string, depth int) watcher.Config

	cmdCh  chan any
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	removedCh chan string // watched-folder-removed notifications, §7

	statusCh     chan status.Snapshot
	statusChOnce sync.Once
}

// New constructs a Controller. Call Initialize to load persisted watched
// roots and start the run loop.
func New(st *store.Store, perfMgr *perf.Manager, cfg Config) *Controller {
	if cfg.StatusInterval <= 0 {
		cfg.StatusInterval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "", log.LstdFlags)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		store:            st,
		perfMgr:          perfMgr,
		log:              logger,
		watcherConfigFor: cfg.WatcherConfigFor,
		cmdCh:            make(chan any, 128),
		ctx:              ctx,
		cancel:           cancel,
		removedCh:        make(chan string, 16),
	}
	c.status = status.New(cfg.StatusInterval, c.computeSnapshot, c.emitSnapshot)
	return c
}

// RemovedNotifications returns the channel watched-folder-removed events
// are published to, for a caller to persist as a one-time notification
// (§7).
func (c *Controller) RemovedNotifications() <-chan string {
	return c.removedCh
}

// Initialize loads the persisted watched-root set, drops roots whose path
// is no longer accessible, constructs each remaining Watcher paused with a
// 500ms spacing, and starts the queue drain and the background orphan
// cleanup ticker (§4.5 "Lifecycle").
func (c *Controller) Initialize(ctx context.Context) error {
	c.wg.Add(1)
	go c.run()

	roots, err := c.store.ListWatchedFolders(ctx)
	if err != nil {
		return err
	}

	for _, root := range roots {
		if !pathAccessible(root.Path) {
			if err := c.store.RemoveWatchedFolder(ctx, root.Path); err != nil {
				c.log.Printf("controller: failed to drop inaccessible root %s: %v", root.Path, err)
			}
			select {
			case c.removedCh <- root.Path:
			default:
			}
			continue
		}

		reply := make(chan AddWatchResult, 1)
		c.cmdCh <- msgEnqueueExisting{path: root.Path, depth: root.Depth, reply: reply}
		<-reply
		time.Sleep(500 * time.Millisecond)
	}

	c.wg.Add(1)
	go c.orphanCleanupLoop(ctx)

	return nil
}

// Close stops the run loop and every watcher.
func (c *Controller) Close() {
	c.cancel()
	c.status.Stop()
	c.wg.Wait()
}

func pathAccessible(path string) bool {
	return statOK(path)
}
