package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reports changes under the scripts directory. fsnotify is not
// recursive, so every subdirectory gets its own watch.
type Watcher struct {
	w        *fsnotify.Watcher
	root     string
	ext      string
	log      zerolog.Logger
	debounce time.Duration
	notify   func()

	mu    sync.Mutex
	timer *time.Timer
}

type WatchOptions struct {
	Debounce time.Duration // default 200ms
	Logger   zerolog.Logger
	// Notify runs on the watcher goroutine after a burst of changes settles.
	// Hand the rescan to the UI goroutine from here.
	Notify func()
}

func (r *Registry) Watch(o WatchOptions) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if o.Debounce <= 0 {
		o.Debounce = 200 * time.Millisecond
	}
	w := &Watcher{
		w:        fw,
		root:     r.dir,
		ext:      r.ext,
		log:      o.Logger.With().Str("component", "watcher").Logger(),
		debounce: o.Debounce,
		notify:   o.Notify,
	}
	w.addTree(r.dir)
	return w, nil
}

func (w *Watcher) addTree(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.w.Add(path); err != nil {
				w.log.Warn().Err(err).Str("dir", path).Msg("watch failed")
			}
		}
		return nil
	})
}

// Run consumes events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addTree(ev.Name)
			w.schedule()
			return
		}
	}
	if ev.Has(fsnotify.Chmod) {
		return
	}
	// removed or renamed directories have no extension either
	ext := filepath.Ext(ev.Name)
	if ext != "" && !strings.EqualFold(ext, w.ext) {
		return
	}
	w.log.Debug().Str("op", ev.Op.String()).Str("path", ev.Name).Msg("change")
	w.schedule()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.notify != nil {
			w.notify()
		}
	})
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.w.Close()
}
