// Package watcher surfaces database file changes made by other
// processes.
//
// When collate-worker runs separately from collated, its result writes
// land in the shared SQLite file without passing through the API
// process, so API-connected dashboards would never hear about them.
// The watcher observes the database file (and its WAL/SHM siblings) and
// reports debounced change events that the caller forwards to the SSE
// broadcaster. Postgres deployments do not need it; direct broadcasts
// cover the single-process case.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher monitors a database file for writes from other processes.
// It watches the parent directory because SQLite replaces and creates
// sibling files (-wal, -shm) that a file-level watch would miss.
type Watcher struct {
	targetPath string            // The database file to watch
	parentPath string            // Parent directory (what we actually watch)
	onChange   func(path string) // Callback on a debounced change
	watcher    *fsnotify.Watcher
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
	debounce   time.Duration
}

// New creates a Watcher for the given database file. The onChange
// callback receives the database path after each debounced burst of
// changes.
func New(targetPath string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		targetPath: filepath.Clean(targetPath),
		parentPath: filepath.Dir(targetPath),
		onChange:   onChange,
		watcher:    fsw,
		ctx:        ctx,
		cancel:     cancel,
		debounce:   100 * time.Millisecond,
	}, nil
}

// Start begins watching for change events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addWatch(); err != nil {
		log.Warn().Err(err).Str("path", w.parentPath).Msg("Failed to add initial watch")
		// Continue anyway - the loop re-establishes the watch when the
		// directory appears
	}

	go w.watchLoop()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	w.cancel()
	return w.watcher.Close()
}

// addWatch adds the parent directory to the watch list.
func (w *Watcher) addWatch() error {
	if _, err := os.Stat(w.parentPath); os.IsNotExist(err) {
		return err
	}
	return w.watcher.Add(w.parentPath)
}

// relevant reports whether an event path belongs to the database file
// or one of its SQLite sidecars.
func (w *Watcher) relevant(eventPath string) bool {
	p := filepath.Clean(eventPath)
	return p == w.targetPath ||
		p == w.targetPath+"-wal" ||
		p == w.targetPath+"-shm"
}

// watchLoop is the main event loop. Bursts of writes within the
// debounce window collapse into a single callback.
func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case <-w.ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Re-establish the watch when the data directory reappears
			if filepath.Clean(event.Name) == w.parentPath && event.Op&fsnotify.Create != 0 {
				log.Info().Str("path", w.parentPath).Msg("Data directory recreated, re-establishing watch")
				_ = w.addWatch()
				continue
			}

			if !w.relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				log.Debug().Str("path", w.targetPath).Msg("Database file changed")
				if w.onChange != nil {
					w.onChange(w.targetPath)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}
