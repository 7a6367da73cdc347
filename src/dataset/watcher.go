package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/modyf01/csv-visualizer/src/vlog"
)

// Watcher reports external writes to the loaded CSV so the viewer can offer a
// reload. Saves done through the Table also trigger it; callers that care can
// suppress around their own writes.
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// WatchFile calls onWrite every time path is written or re-created. The
// callback runs on the watcher goroutine; UI work must be marshalled back to
// the event loop by the caller.
func WatchFile(path string, onWrite func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors that replace-on-save swap the inode, which
	// a watch on the file itself would lose.
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{fw: fw, done: make(chan struct{})}
	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case <-w.done:
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					vlog.Debugf("file event %s on %s", ev.Op, ev.Name)
					onWrite()
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				vlog.Warnf("watcher error: %v", err)
			}
		}
	}()
	return w, nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	if w == nil {
		return
	}
	select {
	case <-w.done:
	default:
		close(w.done)
		w.fw.Close()
	}
}
