package am

import (
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/logger"
)

// ChangeCallback is called once per debounce window with the watched paths
// that changed, sorted.
type ChangeCallback func(changed []string) error

// Watcher watches config and descriptor files and fires callbacks after a
// quiet period. It watches the parent directories so editors that replace
// files by rename are still seen.
type Watcher struct {
	watcher        *fsnotify.Watcher
	paths          map[string]bool
	debouncePeriod time.Duration

	mu            sync.Mutex
	callbacks     []ChangeCallback
	pending       map[string]bool
	debounceTimer *time.Timer
	ownWrites     map[string]time.Time
	stopped       bool

	// fireMu is held for a whole callback round so rounds never overlap
	fireMu sync.Mutex
}

// globalWatcher holds the watcher Save reports its own writes to
var (
	globalWatcher   *Watcher
	globalWatcherMu sync.Mutex
)

var backupFile = regexp.MustCompile(`\.back[0-9]+$`)

// ownWriteWindow is how long events for a path stay ignored after
// MarkOwnWrite. A single os.WriteFile can raise several events.
const ownWriteWindow = 500 * time.Millisecond

// NewWatcher creates a watcher for paths with the given debounce period
func NewWatcher(debounce time.Duration, paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.NewInvalidArgumentf("nothing to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		paths:          make(map[string]bool),
		debouncePeriod: debounce,
		pending:        make(map[string]bool),
		ownWrites:      make(map[string]time.Time),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}
	return w, nil
}

// OnChange registers a callback
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// MarkOwnWrite marks writes to path in the next ownWriteWindow as coming
// from us (prevents reload loops)
func (w *Watcher) MarkOwnWrite(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ownWrites[abs] = time.Now().Add(ownWriteWindow)
}

// checkOwnWrite reports whether path is inside an own-write window,
// clearing windows that have expired
func (w *Watcher) checkOwnWrite(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	deadline, ok := w.ownWrites[path]
	if !ok {
		return false
	}
	if time.Now().After(deadline) {
		delete(w.ownWrites, path)
		return false
	}
	return true
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching, cancels a pending callback and waits for a running
// round to finish. It must not be called from a callback.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.stopped = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()

	w.fireMu.Lock()
	defer w.fireMu.Unlock()
	return err
}

// watchLoop monitors file system events
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// Only Write, Create and Rename change content
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if backupFile.MatchString(event.Name) {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.paths[path] {
		return
	}
	if w.checkOwnWrite(path) {
		logger.Debugw("Watcher ignoring own write", logger.FieldFile, path)
		return
	}

	logger.Infow("Watcher detected change",
		logger.FieldFile, path,
		"op", event.Op.String())
	w.schedule(path)
}

// schedule debounces rapid changes into one callback round
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

// fire calls every callback with the changed paths. A round that comes due
// while another is running waits for it.
func (w *Watcher) fire() {
	w.fireMu.Lock()
	defer w.fireMu.Unlock()

	w.mu.Lock()
	if w.stopped || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]bool)
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	sort.Strings(changed)
	for _, callback := range callbacks {
		if err := callback(changed); err != nil {
			logger.Warnw("Watcher callback error",
				logger.FieldCount, len(changed),
				logger.FieldError, err)
			// Continue calling other callbacks even if one fails
		}
	}
}

// SetGlobalWatcher sets the watcher Save reports to (used to prevent reload loops)
func SetGlobalWatcher(watcher *Watcher) {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	globalWatcher = watcher
}

// GetGlobalWatcher returns the global watcher instance
func GetGlobalWatcher() *Watcher {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	return globalWatcher
}
