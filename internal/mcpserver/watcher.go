package mcpserver

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates the workspace-index cache when the editor's storage
// tree changes, so a long-running serve session notices newly opened
// workspaces before the TTL would. This lives in the server layer on
// purpose: the engine itself performs no background work.
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// WatchStorage watches dir and its per-workspace subdirectories, calling
// invalidate on any change. Records live at <dir>/<hash>/workspace.json,
// so the watch follows newly created hash directories.
func WatchStorage(dir string, invalidate func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	// Existing record directories: best effort, a failed add just means
	// changes there surface at the next TTL expiry instead.
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				_ = fw.Add(filepath.Join(dir, e.Name()))
			}
		}
	}

	w := &Watcher{fw: fw, done: make(chan struct{})}
	go w.loop(invalidate)
	return w, nil
}

func (w *Watcher) loop(invalidate func()) {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.fw.Add(ev.Name)
				}
			}
			invalidate()
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() {
	w.fw.Close()
	<-w.done
}
