// Package naslwatch re-runs the feed-update pipeline incrementally as
// plugin files change, instead of re-walking the whole feed directory
// on every edit (SPEC_FULL's watch-mode supplement).
package naslwatch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nasl-runtime/naslrun/internal/naslfeed"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
)

// UpdateFunc builds and fully drains an Update over exactly the given
// plugin paths, reporting each Result as it's produced. Callers (e.g.
// cmd/naslrun) wire this to naslfeed.New plus their own loader/storage.
type UpdateFunc func(paths []string) error

// Watcher monitors a feed directory and triggers an incremental
// naslfeed.Update run whenever .nasl or .inc files change, debouncing bursts of
// edits into a single batch.
type Watcher struct {
	root      string
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	onChange  UpdateFunc
	logger    nasllog.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher over root with the given debounce window. The
// watcher does not start monitoring until Start is called.
func New(root string, debounce time.Duration, onChange UpdateFunc, logger nasllog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = nasllog.NoOp()
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	w := &Watcher{
		root:     root,
		watcher:  fsw,
		onChange: onChange,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
	w.debouncer = NewDebouncer(debounce)
	w.debouncer.SetCallback(func(paths []string) {
		if err := w.onChange(paths); err != nil {
			w.logger.Errorf("watch: update failed: %v", err)
		}
	})
	return w, nil
}

// Start recursively adds root's subdirectories to the watch set and
// begins the background event loop.
func (w *Watcher) Start() error {
	dirs, err := w.findDirectories()
	if err != nil {
		return fmt.Errorf("failed to find directories: %w", err)
	}
	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.logger.Infof("watch: watching directory: %s", dir)
	}

	w.wg.Add(1)
	go w.watch()
	return nil
}

// Stop halts the event loop and releases the underlying inotify/kqueue
// handle.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}
	w.wg.Wait()
	w.debouncer.Stop()
	return w.watcher.Close()
}

func (w *Watcher) watch() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isPluginPath(event.Name) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.logger.Infof("watch: file changed: %s", event.Name)
				rel, err := filepath.Rel(w.root, event.Name)
				if err != nil {
					rel = event.Name
				}
				w.debouncer.Add(rel)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("watch: error: %v", err)
		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) findDirectories() ([]string, error) {
	dirs := []string{w.root}
	entries, err := naslfeed.Walk(w.root)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{w.root: {}}
	for _, rel := range entries {
		dir := filepath.Dir(filepath.Join(w.root, rel))
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

func isPluginPath(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".nasl" || ext == ".inc"
}

// Debouncer collects changed paths and flushes them as one batch after
// duration has elapsed with no further additions — mirrors the
// feed-update driver's own "process as a unit, publish version last"
// discipline at file-watch granularity.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	paths    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopChan chan struct{}
}

// NewDebouncer creates a Debouncer that flushes duration after the last
// Add call.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		paths:    make(map[string]struct{}),
		stopChan: make(chan struct{}),
	}
}

// Add records path as changed and resets the flush timer.
func (d *Debouncer) Add(path string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.paths[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.paths) == 0 {
		return
	}
	paths := make([]string, 0, len(d.paths))
	for p := range d.paths {
		paths = append(paths, p)
	}
	d.paths = make(map[string]struct{})

	if d.callback != nil {
		d.callback(paths)
	}
}

// SetCallback installs the function invoked on flush.
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels any pending flush timer.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}
}
