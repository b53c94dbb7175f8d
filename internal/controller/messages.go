package controller

import "github.com/atomicobject/diskdex/internal/watcher"

// Messages the run loop accepts on cmdCh. Using distinct types (rather than
// a generic command struct) keeps the loop's type switch exhaustive and
// self-documenting, per §9's message-passing guidance.

type msgEnqueueExisting struct {
	path  string
	depth int
	reply chan AddWatchResult
}

type msgAddWatch struct {
	path  string
	depth int
	reply chan AddWatchResult
}

type msgRemoveWatch struct {
	path  string
	reply chan error
}

type msgPause struct {
	path string
}

type msgResume struct {
	path           string
	forceImmediate bool
}

type msgPauseAll struct{}

type msgResumeAll struct {
	forceImmediate bool
}

type msgRestart struct {
	path string
}

type msgWatcherEvent struct {
	path string
	evt  watcher.Event
}

type msgGetFolderStatuses struct {
	reply chan []watcherEntry
}

// watcherEntry is the loop's internal view of one watcher, returned to
// status computation outside the loop goroutine.
type watcherEntry struct {
	path string
	w    *watcher.Watcher
}
