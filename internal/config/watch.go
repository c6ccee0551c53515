package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file on demand and exposes fsnotify events for
// noticing that the file changed. parsecd does not use it: the daemon
// installs no SIGHUP handler and handles only SIGINT/SIGTERM, so a running
// parsecd does not reload its configuration.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher opens an fsnotify watch on configPath's directory (fsnotify
// watches directories more reliably than bare files across editors that
// replace-by-rename on save).
func NewWatcher(configPath string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(configPath)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("config: failed to watch %s: %w", configPath, err)
	}
	return &Watcher{path: configPath, watcher: fw}, nil
}

// Close stops the underlying fsnotify watch.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Events exposes the raw fsnotify event channel for callers that want to
// debounce writes themselves.
func (w *Watcher) Events() <-chan fsnotify.Event {
	return w.watcher.Events
}

// Errors exposes the fsnotify error channel.
func (w *Watcher) Errors() <-chan error {
	return w.watcher.Errors
}

// Reload re-reads and re-validates the config file, independent of
// whatever triggered the reload (a SIGHUP or an fsnotify write event).
func (w *Watcher) Reload() (*Config, error) {
	return Load(w.path)
}
