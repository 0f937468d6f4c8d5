// Package watch monitors the configured prompt file and triggers a store
// reload when it changes on disk.
//
// The parent directory is watched rather than the file itself: editors
// commonly replace files by rename, which would silently detach a direct
// file watch.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"go.uber.org/zap"
)

const debounceDelay = 100 * time.Millisecond

// Watcher debounces file events for one target path into onChange calls.
type Watcher struct {
	mu         sync.Mutex
	targetPath string
	parentPath string
	onChange   func()
	watcher    *fsnotify.Watcher
	done       chan struct{}
	stopOnce   sync.Once

	debounce *time.Timer
}

// New creates a watcher for targetPath. Start must be called before events
// are delivered.
func New(targetPath string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		targetPath: filepath.Clean(targetPath),
		parentPath: filepath.Dir(filepath.Clean(targetPath)),
		onChange:   onChange,
		watcher:    fsw,
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching. Errors adding the initial watch are logged and
// retried on the next Rebind rather than failing startup.
func (w *Watcher) Start(log *logging.Logger) {
	if log == nil {
		log = logging.NewNop()
	}
	log = log.Named("watch")

	if err := w.watcher.Add(w.parentPath); err != nil {
		log.Warn("failed to watch prompt dir",
			zap.String("dir", w.parentPath), zap.Error(err))
	}

	go w.loop(log)
}

// Rebind switches the watcher to a new target path, typically after the
// user picks a different prompt file.
func (w *Watcher) Rebind(targetPath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	newTarget := filepath.Clean(targetPath)
	newParent := filepath.Dir(newTarget)

	if newParent != w.parentPath {
		_ = w.watcher.Remove(w.parentPath)
		if err := w.watcher.Add(newParent); err != nil {
			return err
		}
		w.parentPath = newParent
	}
	w.targetPath = newTarget
	return nil
}

// Stop shuts down the watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) loop(log *logging.Logger) {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.mu.Lock()
			target := w.targetPath
			w.mu.Unlock()

			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			log.Debug("prompt file changed", zap.String("op", event.Op.String()))
			w.scheduleChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", zap.Error(err))
		}
	}
}

// scheduleChange coalesces bursts of events (editors write in several
// operations) into one onChange call.
func (w *Watcher) scheduleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, func() {
		select {
		case <-w.done:
			return
		default:
		}
		if w.onChange != nil {
			w.onChange()
		}
	})
}
