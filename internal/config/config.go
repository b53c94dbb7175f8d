package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WatchedRoot persists one watched-root override outside the store, so a
// caller can reseed watched_folders before the Index Store has been opened
// (e.g. first-run bootstrap).
type WatchedRoot struct {
	Path  string `yaml:"path"`
	Depth int    `yaml:"depth"`
}

// PerformanceOverrides holds manual overrides for the Performance Manager
// (§6); nil fields mean "use the built-in default".
type PerformanceOverrides struct {
	AutoMode       *bool `yaml:"auto_mode,omitempty"`
	DelayMs        *int  `yaml:"delay_ms,omitempty"`
	BatchSize      *int  `yaml:"batch_size,omitempty"`
	EnableBatching *bool `yaml:"enable_batching,omitempty"`
}

// Config is diskdex's persisted settings file.
type Config struct {
	Language string `yaml:"language,omitempty"`

	WatchedRoots []WatchedRoot `yaml:"watched_roots,omitempty"`

	// RemovedWatchedFolders holds watched-folder-removed notifications the
	// UI hasn't acknowledged yet, persisted so they survive a restart
	// before delivery (§7 "one-time notification... persisted so it
	// survives restarts").
	RemovedWatchedFolders []string `yaml:"removed_watched_folders,omitempty"`

	Performance PerformanceOverrides `yaml:"performance,omitempty"`
}

// Default returns a Config with Language "en" and every other field empty.
func Default() Config {
	return Config{Language: "en"}
}

// Load reads and parses the config file, returning Default() if it doesn't
// exist yet.
func Load() (Config, error) {
	_, file, err := Path()
	if err != nil {
		return Config{}, err
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to the config file, creating its directory if needed.
func Save(cfg Config) error {
	dir, file, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(file, out, 0600)
}

// AppendRemovedWatchedFolder records path as a pending removed-watched-
// folder notification and persists it immediately.
func AppendRemovedWatchedFolder(path string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	for _, p := range cfg.RemovedWatchedFolders {
		if p == path {
			return nil
		}
	}
	cfg.RemovedWatchedFolders = append(cfg.RemovedWatchedFolders, path)
	return Save(cfg)
}

// DrainRemovedWatchedFolders returns and clears the pending removed-
// watched-folder notifications, delivering each at most once (§7).
func DrainRemovedWatchedFolders() ([]string, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	pending := cfg.RemovedWatchedFolders
	if len(pending) == 0 {
		return nil, nil
	}
	cfg.RemovedWatchedFolders = nil
	if err := Save(cfg); err != nil {
		return nil, err
	}
	return pending, nil
}
