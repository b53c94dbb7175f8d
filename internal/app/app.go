// Package app is the composition root: it opens the Index Store, builds
// the Adaptive Performance Manager, Search Engine and Index Controller,
// and wires them to the persisted config file, the way the teacher's
// cmd/root.go builds a Vault/Uri pair for each command to share.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/atomicobject/diskdex/internal/config"
	"github.com/atomicobject/diskdex/internal/controller"
	"github.com/atomicobject/diskdex/internal/perf"
	"github.com/atomicobject/diskdex/internal/search"
	"github.com/atomicobject/diskdex/internal/store"
	"github.com/atomicobject/diskdex/internal/watcher"
)

// App bundles every long-lived collaborator a CLI command or the MCP
// server needs.
type App struct {
	Store      *store.Store
	Perf       *perf.Manager
	Engine     *search.Engine
	Controller *controller.Controller
	Config     config.Config

	logger *log.Logger
}

// Open loads the persisted config, opens the index database beside it,
// and constructs the Performance Manager, Search Engine and Index
// Controller over it. Callers must defer Close.
func Open() (*App, error) {
	logger := log.New(os.Stderr, "diskdex: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath, err := dbPath()
	if err != nil {
		return nil, fmt.Errorf("resolving database path: %w", err)
	}

	st, err := store.Open(dbPath, store.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening index store: %w", err)
	}

	perfCfg := config.ApplyPerformanceOverrides(perf.DefaultConfig(), cfg.Performance)
	perfMgr := perf.New(perfCfg)

	engine := search.New(st, search.DefaultLimits())

	ctrl := controller.New(st, perfMgr, controller.Config{
		Logger:           logger,
		WatcherConfigFor: watcherConfigFor,
	})

	return &App{
		Store:      st,
		Perf:       perfMgr,
		Engine:     engine,
		Controller: ctrl,
		Config:     cfg,
		logger:     logger,
	}, nil
}

// Start initializes the Index Controller (loads persisted watched roots,
// starts watchers and the orphan cleanup loop) and begins draining
// watched-folder-removed notifications into the config file (§7).
func (a *App) Start(ctx context.Context) error {
	if err := a.Controller.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing controller: %w", err)
	}
	go a.drainRemovedNotifications()
	return nil
}

func (a *App) drainRemovedNotifications() {
	for path := range a.Controller.RemovedNotifications() {
		if err := config.AppendRemovedWatchedFolder(path); err != nil {
			a.logger.Printf("persisting removed-folder notification for %s: %v", path, err)
		}
	}
}

// Close releases the controller and store. Safe to call once, with or
// without a prior Start.
func (a *App) Close() {
	a.Controller.Close()
	if err := a.Store.Close(); err != nil {
		a.logger.Printf("closing index store: %v", err)
	}
}

func dbPath() (string, error) {
	dir, _, err := config.Path()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "index.db"), nil
}

// watcherConfigFor derives a Watcher Config from a watched root's path and
// depth, leaving every other field at the watcher package's documented
// defaults (§4.4's 1000ms stability threshold, 60ms delay, batch size 10).
func watcherConfigFor(path string, depth int) watcher.Config {
	return watcher.Config{
		RootPath: path,
		Depth:    depth,
	}
}
