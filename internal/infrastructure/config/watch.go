package config

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reports changed config files in a directory.
// Events are delivered on a channel so the game loop can apply them on its own goroutine.
// A path is reported once it has been quiet for the debounce period, so a file
// written in several chunks is read after the last one.
type Watcher struct {
	watcher *fsnotify.Watcher
	quiet   time.Duration
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dirs for config file changes
func NewWatcher(dirs ...string) (*Watcher, error) {
	return newWatcher(debounce, dirs...)
}

func newWatcher(quiet time.Duration, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		quiet:   quiet,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events is closed once the run loop exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Events)

	// pending holds the time each changed path becomes quiet.
	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isConfigFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now().Add(w.quiet)
			if fire == nil {
				timer.Reset(w.quiet)
				fire = timer.C
			}
		case <-fire:
			fire = nil
			ready, next := due(pending, time.Now())
			for _, name := range ready {
				delete(pending, name)
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			if next > 0 {
				timer.Reset(next)
				fire = timer.C
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// due returns the sorted paths that are quiet at now, and the wait until the
// next one is. The wait is zero when nothing else is pending.
func due(pending map[string]time.Time, now time.Time) ([]string, time.Duration) {
	var ready []string
	var next time.Duration
	for name, at := range pending {
		wait := at.Sub(now)
		if wait <= 0 {
			ready = append(ready, name)
			continue
		}
		if next == 0 || wait < next {
			next = wait
		}
	}
	sort.Strings(ready)
	return ready, next
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
