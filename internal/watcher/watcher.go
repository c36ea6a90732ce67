// Package watcher reports debounced changes to a set of HTML files.
package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/formdom/internal/log"
)

// Watcher monitors files and delivers the changed paths in batches.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]string // absolute path -> path as given
	debounce  time.Duration
	onChange  chan []string
	done      chan struct{}
	stopOnce  sync.Once
}

// Config holds watcher options.
type Config struct {
	Paths    []string
	Debounce time.Duration
}

// DefaultConfig watches paths with a 300ms debounce.
func DefaultConfig(paths []string) Config {
	return Config{
		Paths:    paths,
		Debounce: 300 * time.Millisecond,
	}
}

// New creates a watcher. Call Start to begin.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	files := make(map[string]string, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = p
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		files:     files,
		debounce:  cfg.Debounce,
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the directories holding the files. Editors often replace a
// file instead of writing it, so the directory is watched, not the file.
// The returned channel receives the sorted paths that changed during each
// quiet period, spelled as they were given to New.
func (w *Watcher) Start() (<-chan []string, error) {
	dirs := make(map[string]bool)
	for abs := range w.files {
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}
	log.Debug(log.CatWatcher, "watching", "files", len(w.files), "dirs", len(dirs))

	go w.loop()
	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. Calls after the first
// are no-ops.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var timer *time.Timer
	changed := make(map[string]bool)

	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			path, ok := w.relevant(event)
			if !ok {
				continue
			}
			changed[path] = true

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC():
			timer = nil
			if len(changed) == 0 {
				continue
			}
			batch := make([]string, 0, len(changed))
			for p := range changed {
				batch = append(batch, p)
			}
			sort.Strings(batch)

			// A busy consumer keeps the paths pending; they go out with the
			// next batch once it catches up.
			select {
			case w.onChange <- batch:
				changed = make(map[string]bool)
			default:
				log.Debug(log.CatWatcher, "consumer busy, retrying batch", "files", len(batch))
				timer = time.NewTimer(w.debounce)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevant maps an event on a watched file to the path the caller used.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}
	p, ok := w.files[filepath.Clean(event.Name)]
	return p, ok
}
