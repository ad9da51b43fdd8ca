package folio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Logger is the subset of echo.Logger used outside request handling.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Watcher calls a function once content under a directory tree settles
// after a burst of changes.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	log      Logger

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// WatchContent watches root and all its subdirectories. onChange runs once
// per burst of write, create, remove or rename events, debounce after the
// last one.
func WatchContent(root string, debounce time.Duration, onChange func(), log Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("folio: create watcher: %w", err)
	}
	w := &Watcher{
		fw:       fw,
		debounce: debounce,
		onChange: onChange,
		log:      log,
		done:     make(chan struct{}),
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("folio: watch %s: %w", path, err)
		}
		if d.IsDir() {
			if err := w.fw.Add(path); err != nil {
				return fmt.Errorf("folio: watch %s: %w", path, err)
			}
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Errorf("%v", err)
					}
				}
			}
			w.schedule(ev.Name)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Errorf("content watcher: %v", err)
		}
	}
}

func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.log.Infof("content changed (%s), reloading", name)
		w.onChange()
	})
}

// Close stops watching. A pending callback is cancelled.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}
