package controller

import (
	"github.com/atomicobject/diskdex/internal/store"
	"github.com/atomicobject/diskdex/internal/watcher"
)

// entry tracks one watcher's membership state: queued (never started),
// active (currently the sole indexer), or steady (past its initial scan,
// pause/resume now just toggles live-event consumption).
type entry struct {
	path    string
	depth   int
	w       *watcher.Watcher
	started bool
}

// run is the single owner of watchers/queue/activePath (§9 "model as a
// single owner with message-passing inputs"). Every mutation happens here;
// every other goroutine only sends on cmdCh.
func (c *Controller) run() {
	defer c.wg.Done()

	watchers := make(map[string]*entry)
	var queue []string
	activePath := ""

	popQueueAndStart := func() {
		for len(queue) > 0 {
			next := queue[0]
			queue = queue[1:]
			e, ok := watchers[next]
			if !ok {
				continue
			}
			activePath = next
			c.startEntry(e)
			return
		}
	}

	for {
		select {
		case <-c.ctx.Done():
			return

		case raw := <-c.cmdCh:
			switch msg := raw.(type) {

			case msgEnqueueExisting:
				e := &entry{path: msg.path, depth: msg.depth, w: c.newWatcher(msg.path, msg.depth)}
				watchers[msg.path] = e
				if activePath == "" && len(queue) == 0 {
					activePath = msg.path
					c.startEntry(e)
				} else {
					queue = append(queue, msg.path)
				}
				msg.reply <- AddWatchResult{Success: true}

			case msgAddWatch:
				overlapFound := false
				var overlapping string
				for _, e := range watchers {
					if overlaps(msg.path, msg.depth, e.path, e.depth) {
						overlapFound = true
						overlapping = e.path
						break
					}
				}
				if overlapFound {
					msg.reply <- AddWatchResult{Success: false, Err: store.ErrOverlapDetected, OverlappingFolder: overlapping}
					continue
				}

				e := &entry{path: msg.path, depth: msg.depth, w: c.newWatcher(msg.path, msg.depth)}
				watchers[msg.path] = e
				for _, other := range watchers {
					if other.path != msg.path {
						other.w.InvalidateWatchedFoldersCache()
					}
				}
				if activePath == "" && len(queue) == 0 {
					activePath = msg.path
					c.startEntry(e)
				} else {
					queue = append(queue, msg.path)
				}
				msg.reply <- AddWatchResult{Success: true}

			case msgRemoveWatch:
				e, ok := watchers[msg.path]
				if !ok {
					msg.reply <- store.ErrNotFound
					continue
				}
				e.w.Cleanup()
				delete(watchers, msg.path)
				for i, p := range queue {
					if p == msg.path {
						queue = append(queue[:i], queue[i+1:]...)
						break
					}
				}
				if activePath == msg.path {
					activePath = ""
					popQueueAndStart()
				}
				msg.reply <- nil

			case msgPause:
				if e, ok := watchers[msg.path]; ok {
					e.w.Pause()
				}

			case msgResume:
				e, ok := watchers[msg.path]
				if !ok {
					continue
				}
				if e.started {
					e.w.Resume()
					continue
				}
				if msg.forceImmediate || activePath == "" {
					for i, p := range queue {
						if p == msg.path {
							queue = append(queue[:i], queue[i+1:]...)
							break
						}
					}
					activePath = msg.path
					c.startEntry(e)
				} else {
					inQueue := false
					for _, p := range queue {
						if p == msg.path {
							inQueue = true
							break
						}
					}
					if !inQueue {
						queue = append(queue, msg.path)
					}
				}

			case msgPauseAll:
				for _, e := range watchers {
					e.w.Pause()
				}

			case msgResumeAll:
				for path := range watchers {
					c.cmdCh <- msgResume{path: path, forceImmediate: msg.forceImmediate}
				}

			case msgRestart:
				if e, ok := watchers[msg.path]; ok {
					e.w.Pause()
					go func(w *watcher.Watcher) {
						<-timeAfter1s()
						w.Resume()
					}(e.w)
				}

			case msgWatcherEvent:
				if msg.evt.Kind == watcher.EventError {
					if e, ok := watchers[msg.path]; ok {
						go c.restartAfterError(e.w)
					}
				}
				c.status.RequestUpdate()

			case msgWatcherDone:
				if e, ok := watchers[msg.path]; ok {
					e.started = true
				}
				if activePath == msg.path {
					activePath = ""
					popQueueAndStart()
				}
				c.status.RequestUpdate()

			case msgGetFolderStatuses:
				out := make([]watcherEntry, 0, len(watchers))
				for path, e := range watchers {
					out = append(out, watcherEntry{path: path, w: e.w})
				}
				msg.reply <- out
			}
		}
	}
}

func (c *Controller) newWatcher(path string, depth int) *watcher.Watcher {
	var cfg watcher.Config
	if c.watcherConfigFor != nil {
		cfg = c.watcherConfigFor(path, depth)
	}
	cfg.RootPath = path
	cfg.Depth = depth
	return watcher.New(c.store, cfg)
}

// startEntry launches the watcher's event-forwarding goroutine and its
// Initialize call, reporting completion back to the loop via cmdCh so the
// active-indexer slot can be freed and the queue advanced.
func (c *Controller) startEntry(e *entry) {
	go func() {
		for {
			select {
			case <-c.ctx.Done():
				return
			case evt, ok := <-e.w.Events():
				if !ok {
					return
				}
				select {
				case c.cmdCh <- msgWatcherEvent{path: e.path, evt: evt}:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		err := e.w.Initialize(c.ctx)
		select {
		case c.cmdCh <- msgWatcherDone{path: e.path, err: err}:
		case <-c.ctx.Done():
		}
	}()
}

func (c *Controller) restartAfterError(w *watcher.Watcher) {
	w.Pause()
	<-timeAfter1s()
	w.Resume()
}

type msgWatcherDone struct {
	path string
	err  error
}
