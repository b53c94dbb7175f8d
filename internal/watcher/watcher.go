// Package watcher implements the Folder Watcher / File Processor: the
// per-watched-root state machine that performs the initial recursive scan
// and then live-incrementally reconciles filesystem events with the index
// (§4.4).
package watcher

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/atomicobject/diskdex/internal/status"
	"github.com/atomicobject/diskdex/internal/store"
)

// State is one of the Watcher's state-machine states (§4.4).
type State string

const (
	StateInitializing State = "initializing"
	StateScanning      State = "scanning"
	StateIndexing      State = "indexing"
	StateWatching      State = "watching"
	StatePaused        State = "paused"
	StateError         State = "error"
)

// EventKind names the events a Watcher emits (§4.4 "Emitted events").
type EventKind string

const (
	EventStatusUpdate       EventKind = "status-update"
	EventPaused             EventKind = "paused"
	EventResumed            EventKind = "resumed"
	EventReady              EventKind = "ready"
	EventProcessingComplete EventKind = "processing-complete"
	EventError              EventKind = "error"
)

// Event is published on Watcher.Events().
type Event struct {
	Kind   EventKind
	Root   string
	Status status.FolderStatus
	Err    error
}

// Config configures a Watcher. Zero numeric tuning fields, a nil
// IgnorePatterns and a nil Logger fall back to the §6 defaults; Depth and
// the bool fields are used as given.
type Config struct {
	RootPath string
	Depth    int // -1 for unlimited, matching store.UnlimitedDepth

	StabilityThresholdMs int64
	PollIntervalMs       int
	UsePolling           bool
	FollowSymlinks       bool
	BatchCollectTimeMs   int
	DefaultBatchSize     int
	EnableBatching       bool
	DefaultDelayMs       int
	IgnorePatterns       []string

	// FSWatcherFactory, when set, overrides fsnotify construction (tests).
	FSWatcherFactory func() (FSWatcher, error)
	// Clock, when set, overrides time.Now (tests). Returns unix milliseconds.
	Clock func() int64

	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.StabilityThresholdMs == 0 {
		c.StabilityThresholdMs = 1000
	}
	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = 100
	}
	if c.BatchCollectTimeMs == 0 {
		c.BatchCollectTimeMs = 250
	}
	if c.DefaultBatchSize == 0 {
		c.DefaultBatchSize = 10
	}
	if c.DefaultDelayMs == 0 {
		c.DefaultDelayMs = 60
	}
	if c.IgnorePatterns == nil {
		c.IgnorePatterns = DefaultIgnorePatterns()
	}
	if c.Logger == nil {
		c.Logger = log.New(log.Writer(), "", log.LstdFlags)
	}
	return c
}

// Watcher owns one watched root's scan state, pending-batch buffer, and
// live fsnotify translation, generalizing the teacher's cache.Service
// (pkg/cache/service.go) from "one markdown vault, in-memory index" to
// "one arbitrary root, durable Store-backed index" (see SPEC_FULL.md).
type Watcher struct {
	root                string
	depth               int
	stabilityThreshold  time.Duration
	pollInterval        time.Duration
	usePolling          bool
	followSymlinks      bool
	batchCollectTime    time.Duration
	ignorePatterns      []string
	clock               func() int64
	log                 *log.Logger

	store *store.Store

	mu            sync.Mutex
	state         State
	paused        bool
	totalFiles    int64
	processedFiles int64
	lastErr       error

	delay          time.Duration
	batchSize      int
	enableBatching bool

	batchMu         sync.Mutex
	pendingUpserts  map[string]store.FileData
	pendingRemovals map[string]struct{}

	fsWatcherFactory func() (FSWatcher, error)
	fsWatcher        FSWatcher

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	events chan Event

	invalidateMu sync.Mutex
	invalidated  bool
}

// New constructs a paused Watcher for cfg.RootPath. Initialize starts it.
func New(st *store.Store, cfg Config) *Watcher {
	cfg = cfg.withDefaults()
	clock := cfg.Clock
	if clock == nil {
		clock = func() int64 { return time.Now().UnixMilli() }
	}
	factory := cfg.FSWatcherFactory
	if factory == nil {
		factory = newFSNotifyWatcher
	}
	return &Watcher{
		root:               cfg.RootPath,
		depth:              cfg.Depth,
		stabilityThreshold: time.Duration(cfg.StabilityThresholdMs) * time.Millisecond,
		pollInterval:       time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		usePolling:         cfg.UsePolling,
		followSymlinks:     cfg.FollowSymlinks,
		batchCollectTime:   time.Duration(cfg.BatchCollectTimeMs) * time.Millisecond,
		ignorePatterns:     cfg.IgnorePatterns,
		clock:              clock,
		log:                cfg.Logger,
		store:              st,
		state:              StateInitializing,
		paused:             true,
		delay:              time.Duration(cfg.DefaultDelayMs) * time.Millisecond,
		batchSize:          cfg.DefaultBatchSize,
		enableBatching:     cfg.EnableBatching,
		pendingUpserts:     make(map[string]store.FileData),
		pendingRemovals:    make(map[string]struct{}),
		fsWatcherFactory:   factory,
		events:             make(chan Event, 64),
	}
}

// Root returns the watched root path.
func (w *Watcher) Root() string { return w.root }

// Events returns the channel Watcher publishes state/status events to.
func (w *Watcher) Events() <-chan Event { return w.events }

// Initialize runs the initial scan and then starts the live watch loop.
// Call it once; it is not re-entrant.
func (w *Watcher) Initialize(ctx context.Context) error {
	w.mu.Lock()
	w.paused = false
	w.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	w.ctx = runCtx
	w.cancel = cancel

	fw, err := w.fsWatcherFactory()
	if err != nil {
		w.log.Printf("watcher %s: fs watcher unavailable (%v); continuing without live events", w.root, err)
	} else {
		w.fsWatcher = fw
	}

	if err := w.initialScan(runCtx); err != nil {
		w.transitionError(err)
		return err
	}

	if w.fsWatcher != nil {
		w.wg.Add(1)
		go w.watchLoop()
	}

	return nil
}

// Pause stops event consumption and drops the in-flight batch window
// (§5 "Cancellation").
func (w *Watcher) Pause() {
	w.mu.Lock()
	w.paused = true
	w.mu.Unlock()
	w.batchMu.Lock()
	w.pendingUpserts = make(map[string]store.FileData)
	w.pendingRemovals = make(map[string]struct{})
	w.batchMu.Unlock()
	w.emit(Event{Kind: EventPaused, Root: w.root})
}

// Resume re-enables event consumption.
func (w *Watcher) Resume() {
	w.mu.Lock()
	w.paused = false
	w.mu.Unlock()
	w.emit(Event{Kind: EventResumed, Root: w.root})
}

// IsPaused reports whether the watcher is currently paused.
func (w *Watcher) IsPaused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paused
}

// Cleanup stops the watch loop and releases the fs watcher, discarding any
// un-started batch (§5).
func (w *Watcher) Cleanup() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	if w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
	}
}

// GetStatus returns the watcher's current status snapshot contribution.
func (w *Watcher) GetStatus() status.FolderStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return status.FolderStatus{
		Path:           w.root,
		State:          string(w.state),
		IsPaused:       w.paused,
		TotalFiles:     w.totalFiles,
		ProcessedFiles: w.processedFiles,
	}
}

// SetProcessingDelay sets the delay applied between batch flush attempts.
func (w *Watcher) SetProcessingDelay(ms int) {
	w.mu.Lock()
	w.delay = time.Duration(ms) * time.Millisecond
	w.mu.Unlock()
}

// SetBatchSize sets the batch-size cap used for backpressure flushing.
func (w *Watcher) SetBatchSize(n int) {
	w.mu.Lock()
	w.batchSize = n
	w.mu.Unlock()
}

// SetEnableBatching toggles whether live events are coalesced into batches
// at all; when disabled, each event is applied as it arrives.
func (w *Watcher) SetEnableBatching(enabled bool) {
	w.mu.Lock()
	w.enableBatching = enabled
	w.mu.Unlock()
}

// batchingEnabled reports whether the collect-window batching is active;
// when false, watchLoop flushes after every single event instead of
// waiting for batchFull or the collect timer.
func (w *Watcher) batchingEnabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enableBatching
}

// InvalidateWatchedFoldersCache marks the watcher's cached view of the
// cross-watcher watched-folders list stale, per §4.5's "Invalidates the
// cross-watcher 'watched folders' cache in every live Watcher". This
// Watcher has no local cache of that list; the call only sets a dirty
// flag, and no operation in this package reads it (overlap-sensitive
// bookkeeping lives in the Controller).
func (w *Watcher) InvalidateWatchedFoldersCache() {
	w.invalidateMu.Lock()
	w.invalidated = true
	w.invalidateMu.Unlock()
}

func (w *Watcher) watchedFoldersCacheInvalidated() bool {
	w.invalidateMu.Lock()
	defer w.invalidateMu.Unlock()
	return w.invalidated
}

func (w *Watcher) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	w.emit(Event{Kind: EventStatusUpdate, Root: w.root, Status: w.GetStatus()})
}

func (w *Watcher) transitionError(err error) {
	w.mu.Lock()
	w.state = StateError
	w.lastErr = err
	w.mu.Unlock()
	w.emit(Event{Kind: EventError, Root: w.root, Err: err})
}

func (w *Watcher) setTotalFiles(n int64) {
	w.mu.Lock()
	w.totalFiles = n
	w.mu.Unlock()
}

func (w *Watcher) incProcessed() {
	w.mu.Lock()
	w.processedFiles++
	w.mu.Unlock()
}

func (w *Watcher) clockNowMillis() int64 {
	return w.clock()
}

func (w *Watcher) emit(e Event) {
	select {
	case w.events <- e:
	default:
	}
}

func (w *Watcher) statFollowingPolicy(path string) (os.FileInfo, error) {
	if w.followSymlinks {
		return os.Stat(path)
	}
	return os.Lstat(path)
}
