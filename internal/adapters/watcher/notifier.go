// Package watcher implements the change notifier driving the restart
// protocol, using fsnotify for the underlying file system events.
package watcher

import (
	"context"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Notifier implements ports.ChangeNotifier. Subscribe may be called once
// per watched root; all subscriptions share one fsnotify watcher and one
// event-processing goroutine.
type Notifier struct {
	fsWatcher *fsnotify.Watcher
	walker    *fs.Walker
	log       ports.Logger

	mu        sync.Mutex
	callbacks []func(path string)
	started   bool
}

// NewNotifier creates a Notifier.
func NewNotifier(walker *fs.Walker, log ports.Logger) (*Notifier, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	return &Notifier{fsWatcher: fsWatcher, walker: walker, log: log}, nil
}

// Subscribe watches root recursively and invokes onChange for every
// relevant event below it.
func (n *Notifier) Subscribe(ctx context.Context, root string, onChange func(path string)) error {
	for dir := range n.walker.WalkDirs(root, nil) {
		if err := n.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.callbacks = append(n.callbacks, onChange)
	if !n.started {
		n.started = true
		go n.processEvents(ctx)
	}
	return nil
}

// Close stops the notifier and releases the underlying watcher.
func (n *Notifier) Close() error {
	return n.fsWatcher.Close()
}

func (n *Notifier) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-n.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&relevantOps == 0 {
				continue
			}
			// Newly created directories join the watch before dispatch so
			// files written into them immediately after are not missed.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for dir := range n.walker.WalkDirs(event.Name, nil) {
						_ = n.fsWatcher.Add(dir)
					}
				}
			}
			n.dispatch(event.Name)
		case err, ok := <-n.fsWatcher.Errors:
			if !ok {
				return
			}
			if n.log != nil {
				n.log.Error(zerr.Wrap(err, "file watcher error"))
			}
		}
	}
}

func (n *Notifier) dispatch(path string) {
	n.mu.Lock()
	callbacks := n.callbacks
	n.mu.Unlock()
	for _, cb := range callbacks {
		cb(path)
	}
}

var _ ports.ChangeNotifier = (*Notifier)(nil)
