package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyrewlee/nimbus/internal/logging"
	"github.com/andyrewlee/nimbus/internal/safego"
)

const watchDebounce = 200 * time.Millisecond

// Watcher watches the nimbus home directory and reports debounced change
// notifications for the config and content files so the running experience
// can hot-reload them. Editors replace files with rename/create dances, so
// we watch the directory rather than the files themselves.
type Watcher struct {
	fw       *fsnotify.Watcher
	paths    *Paths
	onChange func(path string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	closed  bool

	closeOnce sync.Once
}

// NewWatcher starts watching paths.Home. onChange is called with the
// absolute path of the changed file (ConfigPath or ContentPath), debounced,
// from a background goroutine.
func NewWatcher(paths *Paths, onChange func(path string)) (*Watcher, error) {
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(paths.Home); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fw: fw, paths: paths, onChange: onChange}
	safego.Go("config-watcher", w.loop)
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.schedule(ev.Name)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logging.WithError(err, "config watcher")
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	return name == filepath.Base(w.paths.ConfigPath) || name == filepath.Base(w.paths.ContentPath)
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending = path
	if w.timer == nil {
		w.timer = time.AfterFunc(watchDebounce, w.fire)
		return
	}
	w.timer.Reset(watchDebounce)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	path := w.pending
	w.mu.Unlock()

	w.onChange(path)
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fw.Close()
	})
	return err
}
