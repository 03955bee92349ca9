package daemon

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"dispatch/log"
)

type watcher struct {
	fs   *fsnotify.Watcher
	path string
	base string
}

// newWatcher watches the directory holding path, so editors that save
// through a temp file and rename are still seen.
func newWatcher(path string) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &watcher{fs: fw, path: filepath.Clean(abs), base: filepath.Base(abs)}, nil
}

func (d *Daemon) watch(w *watcher) error {
	defer w.fs.Close()
	for {
		select {
		case <-d.opts.Signal.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.shouldReload(ev) {
				log.Debugf("config changed (%s)", ev.Op)
				d.Nudge()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warnf("config watcher: %v", err)
		}
	}
}

func (w *watcher) shouldReload(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Clean(ev.Name)
	return name == w.path || filepath.Base(name) == w.base
}
