package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies when the settings file changes. The parent directory is
// watched so editors that replace the file through a rename are still seen.
type Watcher struct {
	path    string
	w       *fsnotify.Watcher
	changed func()
	failed  func(error)

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// WatchSettings starts watching path. changed is invoked from the watcher
// goroutine after every write, create or rename of the file; callers are
// expected to hop onto their own loop before touching state.
func WatchSettings(path string, changed func(), failed func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{path: abs, w: fw, changed: changed, failed: failed}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.changed()
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			if w.failed != nil {
				w.failed(err)
			}
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.w.Close()
		w.wg.Wait()
	})
	return err
}
