// Package watch reports debounced changes to task data files.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // File written or created
	ChangeRemoved                    // File no longer exists
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// DefaultDebounce is used when NewWatcher is given a non-positive window.
const DefaultDebounce = 100 * time.Millisecond

// Change is one debounced file change.
type Change struct {
	Kind ChangeKind
	File string
}

// Watcher monitors a directory for changes to files accepted by a filter.
// Bursts of events for one file within the debounce window collapse into a
// single Change.
type Watcher struct {
	Dir     string
	Changes <-chan Change

	changes  chan Change
	quit     chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	match    func(name string) bool
	debounce time.Duration
}

// NewWatcher creates a watcher for dir. match receives base file names; a nil
// match accepts every file.
func NewWatcher(dir string, debounce time.Duration, match func(name string) bool) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Dir:      dir,
		Changes:  ch,
		changes:  ch,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
		match:    match,
		debounce: debounce,
	}, nil
}

// Start begins watching the directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and waits for the Changes channel to close.
// Pending changes are dropped.
func (w *Watcher) Stop() {
	close(w.quit)
	_ = w.watcher.Close()
	<-w.done
}

// loop is the only sender on changes and closes it on every exit, including
// when fsnotify shuts down on its own.
func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				slog.Warn("watch events closed", "dir", w.Dir)
				return
			}
			if !w.match(filepath.Base(event.Name)) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				slog.Debug("file event", "file", event.Name, "op", event.Op.String())
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) < w.debounce {
					continue
				}
				delete(pending, file)
				if !w.emit(file) {
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				slog.Warn("watch errors closed", "dir", w.Dir)
				return
			}
			slog.Warn("watch error", "dir", w.Dir, "err", err)
		}
	}
}

// emit sends the change for file, reporting false when Stop was called
// while the send was blocked.
func (w *Watcher) emit(file string) bool {
	c := Change{Kind: ChangeModified, File: file}
	if _, err := os.Stat(file); os.IsNotExist(err) {
		c.Kind = ChangeRemoved
	}

	select {
	case w.changes <- c:
		return true
	case <-w.quit:
		return false
	}
}
