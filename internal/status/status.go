// Package status implements the Status Manager: throttling of aggregate
// status snapshots to a fixed cadence and classification of the global
// indexing state (§4.5, §2 item 4).
package status

import (
	"sync"
	"time"
)

// FolderStatus is one watched root's contribution to an aggregate Snapshot,
// the shape a Folder Watcher reports via get_status (§4.4).
type FolderStatus struct {
	Path           string
	State          string // initializing, scanning, indexing, watching, paused, error
	IsPaused       bool
	TotalFiles     int64
	ProcessedFiles int64
}

// Snapshot is the aggregate shape get_status returns (§4.5).
type Snapshot struct {
	Folders                []FolderStatus
	TotalFiles             int64
	ProcessedFiles          int64
	IsPaused               bool
	TotalWatchers          int
	ActiveIndexingWatchers int
	WatchingWatchers       int
	Status                 string
}

// statePriority lists the non-error, non-terminal states in the order
// get_status prefers them when reporting the global status (§4.5: "else
// scanning/indexing/initializing (first non-empty in that priority)").
var statePriority = []string{"scanning", "indexing", "initializing"}

// Classify derives the aggregate status string from the per-root states,
// following §4.5's priority: error beats everything; otherwise the first
// non-empty state in statePriority; otherwise paused if every root is
// paused; otherwise watching if any root is watching; otherwise idle.
func Classify(folders []FolderStatus) string {
	if len(folders) == 0 {
		return "idle"
	}
	for _, f := range folders {
		if f.State == "error" {
			return "error"
		}
	}
	for _, want := range statePriority {
		for _, f := range folders {
			if f.State == want {
				return want
			}
		}
	}
	allPaused := true
	anyWatching := false
	for _, f := range folders {
		if !f.IsPaused {
			allPaused = false
		}
		if f.State == "watching" {
			anyWatching = true
		}
	}
	if allPaused {
		return "paused"
	}
	if anyWatching {
		return "watching"
	}
	return "idle"
}

// Aggregate builds a Snapshot from per-root FolderStatus values, computing
// the count fields and the classified Status in one pass.
func Aggregate(folders []FolderStatus) Snapshot {
	snap := Snapshot{Folders: folders, TotalWatchers: len(folders)}
	allPaused := len(folders) > 0
	for _, f := range folders {
		snap.TotalFiles += f.TotalFiles
		snap.ProcessedFiles += f.ProcessedFiles
		if !f.IsPaused {
			allPaused = false
			switch f.State {
			case "initializing", "scanning", "indexing":
				snap.ActiveIndexingWatchers++
			case "watching":
				snap.WatchingWatchers++
			}
		}
	}
	snap.IsPaused = allPaused
	snap.Status = Classify(folders)
	return snap
}

// Manager throttles emission of Snapshots to one per interval, grounded on
// the version-counter gate in the teacher's cache.Service.Version()/
// bumpVersion() (pkg/cache/service.go): RequestUpdate bumps a version
// instead of recomputing or emitting directly; the timer loop only
// recomputes and emits when the version has moved since the last emission,
// which is exactly "a pending second update sets a flag and fires at the
// next tick" (§4.5) expressed as a monotonic counter rather than a bool.
type Manager struct {
	mu       sync.Mutex
	interval time.Duration
	compute  func() Snapshot
	emit     func(Snapshot)

	version        uint64
	lastEmitted    uint64
	timerRunning   bool
	timer          *time.Timer
}

// New builds a Manager. compute produces the current Snapshot on demand;
// emit is called with it whenever a throttled or forced update fires.
func New(interval time.Duration, compute func() Snapshot, emit func(Snapshot)) *Manager {
	if interval <= 0 {
		interval = time.Second
	}
	return &Manager{interval: interval, compute: compute, emit: emit}
}

// RequestUpdate signals that something changed. The first call after an
// idle period emits immediately and starts the throttle timer; calls
// arriving while the timer is running only bump the version, guaranteeing
// at most one emission per interval with the latest state delivered on the
// trailing edge.
func (m *Manager) RequestUpdate() {
	m.mu.Lock()
	m.version++
	if m.timerRunning {
		m.mu.Unlock()
		return
	}
	m.timerRunning = true
	m.mu.Unlock()

	m.emitNow()
	m.scheduleTick()
}

// ForceUpdate clears any pending timer and emits immediately, then resumes
// the throttle window from this point (§4.5 "force_update clears the timer
// and emits immediately").
func (m *Manager) ForceUpdate() {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.version++
	m.timerRunning = true
	m.mu.Unlock()

	m.emitNow()
	m.scheduleTick()
}

func (m *Manager) scheduleTick() {
	m.mu.Lock()
	m.timer = time.AfterFunc(m.interval, m.tick)
	m.mu.Unlock()
}

func (m *Manager) tick() {
	m.mu.Lock()
	if m.version == m.lastEmitted {
		m.timerRunning = false
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.emitNow()
	m.scheduleTick()
}

func (m *Manager) emitNow() {
	snap := m.compute()
	m.mu.Lock()
	m.lastEmitted = m.version
	m.mu.Unlock()
	m.emit(snap)
}

// Stop halts the throttle timer, if running.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timerRunning = false
}
