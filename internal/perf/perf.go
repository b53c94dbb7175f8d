// Package perf implements the Adaptive Performance Manager: it computes
// processing delay and batch size from live watcher load, with smoothing
// and hysteresis (§4.3).
package perf

import (
	"math"
	"sync"
)

// Config holds the tunable constants a Manager is built with (§6
// "Performance Manager" configuration block).
type Config struct {
	MinDelay                   int
	MaxDelay                   int
	SingleFolderDelay          int
	MultiFolderDelayMultiplier float64
	WatchingDelayFactor        float64
	MinBatchSize               int
	MaxBatchSize               int
	SingleFolderBatchSize      int
	MultiFolderBatchDivisor    float64
	SmoothingWindow            int
	SmoothingFactor            float64

	DefaultDelay       int
	DefaultBatchSize   int
	DefaultBatching    bool
}

// DefaultConfig returns the §6-documented defaults.
func DefaultConfig() Config {
	return Config{
		MinDelay:                   50,
		MaxDelay:                   2000,
		SingleFolderDelay:          50,
		MultiFolderDelayMultiplier: 1.5,
		WatchingDelayFactor:        2.0,
		MinBatchSize:               1,
		MaxBatchSize:               50,
		SingleFolderBatchSize:      10,
		MultiFolderBatchDivisor:    1.5,
		SmoothingWindow:            3,
		SmoothingFactor:            0.3,
		DefaultDelay:               60,
		DefaultBatchSize:           10,
		DefaultBatching:            true,
	}
}

// Settings is the externally visible (delay, batch_size, enable_batching)
// triple §4.3 emits as settings-updated.
type Settings struct {
	DelayMs        int
	BatchSize      int
	EnableBatching bool
}

// EventKind names the three event channels §4.3/§9 describe.
type EventKind string

const (
	EventSettingsUpdated EventKind = "settings-updated"
	EventDelayUpdated    EventKind = "delay-updated"
	EventModeChanged     EventKind = "mode-changed"
)

// Event is published on Manager.Events() whenever the manager's state
// changes in a way the Controller or CLI needs to observe.
type Event struct {
	Kind     EventKind
	Settings Settings
	AutoMode bool
}

// LoadStatus is the subset of the Controller's aggregate status the
// Performance Manager reacts to (§4.3 "Inputs").
type LoadStatus struct {
	ActiveIndexingWatchers int
	WatchingWatchers       int
}

// Manager computes delay/batch settings from watcher load, per §4.3. All
// exported methods are safe for concurrent use; events are delivered on a
// buffered channel so a slow consumer cannot block the Controller's status
// loop (mirroring the teacher's preference for channel-based fan-out over
// blocking callbacks, §9 "Event emitters").
type Manager struct {
	mu   sync.Mutex
	cfg  Config
	auto bool

	baseDelay      int
	currentDelay   int
	batchSize      int
	enableBatching bool

	delayHistory []float64
	batchHistory []float64

	events chan Event
}

// New constructs a Manager in auto mode with cfg's defaults applied.
func New(cfg Config) *Manager {
	return &Manager{
		cfg:            cfg,
		auto:           true,
		baseDelay:      cfg.DefaultDelay,
		currentDelay:   cfg.DefaultDelay,
		batchSize:      cfg.DefaultBatchSize,
		enableBatching: cfg.DefaultBatching,
		events:         make(chan Event, 32),
	}
}

// Events returns the channel Manager publishes settings/delay/mode changes
// to. Callers should drain it; the buffer is generous but not unbounded.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Settings returns the manager's currently active settings.
func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Settings{DelayMs: m.currentDelay, BatchSize: m.batchSize, EnableBatching: m.enableBatching}
}

// SetAutoMode toggles between computed (auto) and fixed (manual) delay/batch.
func (m *Manager) SetAutoMode(auto bool) {
	m.mu.Lock()
	changed := m.auto != auto
	m.auto = auto
	mode := m.auto
	m.mu.Unlock()
	if changed {
		m.publish(Event{Kind: EventModeChanged, AutoMode: mode, Settings: m.Settings()})
	}
}

// SetDelay sets the base delay. In manual mode this also updates the
// currently active delay immediately; in auto mode only the base value
// changes, taking effect on the next Update (§4.3 "Setting delay/batch
// manually").
func (m *Manager) SetDelay(ms int) {
	m.mu.Lock()
	m.baseDelay = ms
	if !m.auto {
		m.currentDelay = ms
	}
	settings := Settings{DelayMs: m.currentDelay, BatchSize: m.batchSize, EnableBatching: m.enableBatching}
	m.mu.Unlock()
	m.publish(Event{Kind: EventDelayUpdated, Settings: settings})
}

// SetBatchSize sets the active batch size in manual mode. In auto mode the
// call has no effect: there is no base batch size, and Update keeps
// computing the batch size from load.
func (m *Manager) SetBatchSize(n int) {
	m.mu.Lock()
	if !m.auto {
		m.batchSize = n
	}
	m.mu.Unlock()
}

// SetEnableBatching toggles batching outright, independent of mode.
func (m *Manager) SetEnableBatching(enabled bool) {
	m.mu.Lock()
	m.enableBatching = enabled
	m.mu.Unlock()
}

// Update recomputes (delay, batch_size) from the Controller's current load
// and, in auto mode, applies the policy of §4.3: responsive / aggressive /
// backed-off depending on active-watcher count, smoothed over a ring
// buffer, gated by hysteresis. In manual mode it is a no-op returning the
// unchanged settings. Returns the settings in effect after the call.
func (m *Manager) Update(status LoadStatus) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.auto {
		return Settings{DelayMs: m.currentDelay, BatchSize: m.batchSize, EnableBatching: m.enableBatching}
	}

	targetDelay, targetBatch := m.computeTargets(status)

	smoothedDelay := m.smooth(&m.delayHistory, float64(targetDelay))
	smoothedBatch := m.smooth(&m.batchHistory, float64(targetBatch))

	newDelay := clampInt(int(math.Round(smoothedDelay)), m.cfg.MinDelay, m.cfg.MaxDelay)
	newBatch := clampInt(int(math.Round(smoothedBatch)), m.cfg.MinBatchSize, m.cfg.MaxBatchSize)

	delayChanged := abs(newDelay-m.currentDelay) > 10
	batchChanged := newBatch != m.batchSize

	m.currentDelay = newDelay
	m.batchSize = newBatch

	out := Settings{DelayMs: m.currentDelay, BatchSize: m.batchSize, EnableBatching: m.enableBatching}
	if delayChanged || batchChanged {
		m.publish(Event{Kind: EventSettingsUpdated, Settings: out})
	}
	return out
}

// computeTargets applies §4.3's responsive/aggressive/backed-off policy,
// unsmoothed. Must be called with m.mu held.
func (m *Manager) computeTargets(status LoadStatus) (delay int, batch int) {
	switch {
	case status.ActiveIndexingWatchers == 0 && status.WatchingWatchers > 0:
		return int(math.Round(float64(m.cfg.MinDelay) * m.cfg.WatchingDelayFactor)), m.batchSize

	case status.ActiveIndexingWatchers == 1:
		return m.cfg.SingleFolderDelay, m.cfg.SingleFolderBatchSize

	case status.ActiveIndexingWatchers > 1:
		n := status.ActiveIndexingWatchers - 1
		d := float64(m.cfg.SingleFolderDelay) * math.Pow(m.cfg.MultiFolderDelayMultiplier, float64(n))
		b := float64(m.cfg.SingleFolderBatchSize) / math.Pow(m.cfg.MultiFolderBatchDivisor, float64(n))
		return clampInt(int(math.Round(d)), m.cfg.MinDelay, m.cfg.MaxDelay),
			clampInt(int(math.Round(b)), m.cfg.MinBatchSize, m.cfg.MaxBatchSize)

	default:
		return m.baseDelay, m.batchSize
	}
}

// smooth pushes target onto history (bounded to cfg.SmoothingWindow,
// oldest dropped first) and returns the weighted average where the newest
// sample has weight 1 and each step back multiplies the weight by
// (1 - SmoothingFactor) (§4.3 "Smoothing").
func (m *Manager) smooth(history *[]float64, target float64) float64 {
	window := m.cfg.SmoothingWindow
	if window <= 0 {
		window = 3
	}
	*history = append(*history, target)
	if len(*history) > window {
		*history = (*history)[len(*history)-window:]
	}

	weight := 1.0
	var weightedSum, weightSum float64
	for i := len(*history) - 1; i >= 0; i-- {
		weightedSum += (*history)[i] * weight
		weightSum += weight
		weight *= 1 - m.cfg.SmoothingFactor
	}
	if weightSum == 0 {
		return target
	}
	return weightedSum / weightSum
}

func (m *Manager) publish(e Event) {
	select {
	case m.events <- e:
	default:
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
