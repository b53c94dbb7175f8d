package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// FSWatcher abstracts filesystem notifications so tests can substitute a
// fake event source, exactly as the teacher's cache.Watcher interface
// abstracts fsnotify in pkg/cache/service.go.
type FSWatcher interface {
	Add(name string) error
	Remove(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsNotifyWatcher struct {
	*fsnotify.Watcher
}

func (f *fsNotifyWatcher) Events() <-chan fsnotify.Event { return f.Watcher.Events }
func (f *fsNotifyWatcher) Errors() <-chan error           { return f.Watcher.Errors }

func newFSNotifyWatcher() (FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &fsNotifyWatcher{Watcher: w}, nil
}
