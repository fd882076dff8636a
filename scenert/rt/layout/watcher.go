package layout

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-reads a layout file whenever it changes on disk. The parent
// directory is watched so editors that replace the file on save are seen.
type Watcher struct {
	Updates <-chan *Document
	Errors  <-chan error

	w       *fsnotify.Watcher
	path    string
	updates chan *Document
	errs    chan error
	done    chan struct{}
}

// debounce collapses the burst of events a single save produces.
const debounce = 100 * time.Millisecond

func Watch(path string) (*Watcher, error) {
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
	w := &Watcher{
		w:       fw,
		path:    abs,
		updates: make(chan *Document, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	w.Updates = w.updates
	w.Errors = w.errs
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	var timer <-chan time.Time
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer = time.After(debounce)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		case <-timer:
			timer = nil
			doc, err := Load(w.path)
			if err != nil {
				w.sendErr(err)
				continue
			}
			// Only the newest document matters.
			select {
			case <-w.updates:
			default:
			}
			w.updates <- doc
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

func (w *Watcher) Close() error {
	err := w.w.Close()
	<-w.done
	return err
}
