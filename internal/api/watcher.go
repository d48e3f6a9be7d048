package api

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// StorageChangeType indicates what type of change occurred.
type StorageChangeType string

const (
	StorageChangeWritten StorageChangeType = "written"
	StorageChangeDeleted StorageChangeType = "deleted"
)

// StorageChange reports that a stored value was replaced or removed, by this
// process or by another one sharing the data directory.
type StorageChange struct {
	Type StorageChangeType `json:"type"`
	Key  string            `json:"key"`
	Path string            `json:"path"`
}

// StorageWatcherSubscriber receives storage change notifications.
type StorageWatcherSubscriber interface {
	OnStorageChange(change StorageChange)
}

// debounceDelay coalesces the create/write/rename burst of one atomic save.
const debounceDelay = 100 * time.Millisecond

// StorageWatcher watches the file backend's data directory and notifies
// subscribers when a value file changes.
type StorageWatcher struct {
	watcher     *fsnotify.Watcher
	dir         string
	logger      zerolog.Logger
	mu          sync.RWMutex
	subscribers []StorageWatcherSubscriber
	debounce    map[string]*time.Timer
	debounceMu  sync.Mutex
	stopCh      chan struct{}
	stopped     bool // Once stopped, cannot restart
	running     bool
}

// NewStorageWatcher creates a watcher for the value files in dir.
func NewStorageWatcher(dir string, logger zerolog.Logger) (*StorageWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &StorageWatcher{
		watcher:  watcher,
		dir:      dir,
		logger:   logger.With().Str("component", "watcher").Str("dir", dir).Logger(),
		debounce: make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Subscribe adds a subscriber to receive storage change notifications.
func (sw *StorageWatcher) Subscribe(sub StorageWatcherSubscriber) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.subscribers = append(sw.subscribers, sub)
}

// Unsubscribe removes a subscriber.
func (sw *StorageWatcher) Unsubscribe(sub StorageWatcherSubscriber) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	for i, s := range sw.subscribers {
		if s == sub {
			sw.subscribers = append(sw.subscribers[:i], sw.subscribers[i+1:]...)
			return
		}
	}
}

// Start begins watching the directory.
func (sw *StorageWatcher) Start() error {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return nil
	}
	if sw.stopped {
		sw.mu.Unlock()
		return fmt.Errorf("storage watcher cannot be restarted after stop")
	}
	sw.running = true
	sw.mu.Unlock()

	if err := sw.watcher.Add(sw.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", sw.dir, err)
	}

	go sw.run()
	return nil
}

// Stop stops watching for changes.
func (sw *StorageWatcher) Stop() error {
	sw.mu.Lock()
	if !sw.running || sw.stopped {
		sw.mu.Unlock()
		return nil
	}
	sw.running = false
	sw.stopped = true
	sw.mu.Unlock()

	// Cancel pending debounce timers so nothing fires after stop
	sw.debounceMu.Lock()
	for path, timer := range sw.debounce {
		timer.Stop()
		delete(sw.debounce, path)
	}
	sw.debounceMu.Unlock()

	close(sw.stopCh)
	return sw.watcher.Close()
}

func (sw *StorageWatcher) run() {
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			sw.handleEvent(event)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn().Err(err).Msg("watch error")

		case <-sw.stopCh:
			return
		}
	}
}

func (sw *StorageWatcher) handleEvent(event fsnotify.Event) {
	// Skip the hidden temp files atomic writes go through
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return
	}

	sw.debounceMu.Lock()
	if timer, exists := sw.debounce[event.Name]; exists {
		timer.Stop()
	}
	sw.debounce[event.Name] = time.AfterFunc(debounceDelay, func() {
		sw.emitChange(event)
		sw.debounceMu.Lock()
		delete(sw.debounce, event.Name)
		sw.debounceMu.Unlock()
	})
	sw.debounceMu.Unlock()
}

func (sw *StorageWatcher) emitChange(event fsnotify.Event) {
	// debounce timer may fire after Stop
	sw.mu.RLock()
	if sw.stopped {
		sw.mu.RUnlock()
		return
	}
	subs := make([]StorageWatcherSubscriber, len(sw.subscribers))
	copy(subs, sw.subscribers)
	sw.mu.RUnlock()

	change, ok := sw.classifyChange(event)
	if !ok {
		return
	}

	for _, sub := range subs {
		sub.OnStorageChange(change)
	}
}

// classifyChange maps an event on <dir>/<key>.json to a StorageChange.
func (sw *StorageWatcher) classifyChange(event fsnotify.Event) (StorageChange, bool) {
	relPath, err := filepath.Rel(sw.dir, event.Name)
	if err != nil || strings.ContainsRune(relPath, filepath.Separator) || !strings.HasSuffix(relPath, ".json") {
		return StorageChange{}, false
	}

	change := StorageChange{
		Key:  strings.TrimSuffix(relPath, ".json"),
		Path: relPath,
	}

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		change.Type = StorageChangeWritten
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		change.Type = StorageChangeDeleted
	default:
		return StorageChange{}, false
	}
	return change, true
}
