package config

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"marvin/internal/logging"
)

// Watcher watches the .marvin config directory and reloads configuration
// when the file changes, so logging levels and agent settings can be
// adjusted on a running process.
type Watcher struct {
	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	workspace string
	configDir string
	onReload  func(*Config)
	lastEvent time.Time
	debounce  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
}

// NewWatcher creates a watcher for the given workspace. onReload is called
// with the freshly loaded config after every successful reload; it may be
// nil.
func NewWatcher(workspace string, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:   fw,
		workspace: workspace,
		configDir: filepath.Join(workspace, ".marvin"),
		onReload:  onReload,
		debounce:  500 * time.Millisecond,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watch loop runs in a goroutine
// until Stop is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.configDir); err != nil {
		// Directory may not exist yet; the agent runs fine on defaults.
		logging.ConfigWarn("Config watch failed (dir may not exist): %v", err)
	} else {
		logging.Config("Watching config directory: %s", w.configDir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isConfigFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			// Editors fire bursts of events per save; collapse them.
			if time.Since(w.lastEvent) < w.debounce {
				w.mu.Unlock()
				continue
			}
			w.lastEvent = time.Now()
			w.mu.Unlock()

			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.ConfigWarn("Config watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.workspace)
	if err != nil {
		logging.ConfigWarn("Config reload failed: %v", err)
		return
	}
	if err := logging.ReloadConfig(); err != nil {
		logging.ConfigWarn("Logging reload failed: %v", err)
	}
	logging.Config("Config reloaded from %s", w.configDir)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, "config.") &&
		(strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".json"))
}
