// Package reload connects file-change notifications to the host's shutdown
// signal: any change below a watched root requests a process restart.
package reload

import (
	"context"
	"strconv"

	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Controller owns the notifier subscription and the debounce window. It
// only signals intent; restarting the process is the supervisor's job.
type Controller struct {
	notifier  ports.ChangeNotifier
	shutdown  ports.ShutdownRequester
	policy    domain.WatchPolicy
	log       ports.Logger
	debouncer *watcher.Debouncer
}

// NewController creates a Controller with the given watch policy.
func NewController(notifier ports.ChangeNotifier, shutdown ports.ShutdownRequester, policy domain.WatchPolicy, log ports.Logger) *Controller {
	c := &Controller{
		notifier: notifier,
		shutdown: shutdown,
		policy:   policy,
		log:      log,
	}
	c.debouncer = watcher.NewDebouncer(policy.Debounce, c.requestRestart)
	return c
}

// Start subscribes to every root. Events from all roots share one debounce
// window; whichever fires, the reaction is the same restart request.
func (c *Controller) Start(ctx context.Context, roots []string) error {
	for _, root := range roots {
		if err := c.notifier.Subscribe(ctx, root, c.debouncer.Add); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch search root"), "root", root)
		}
	}
	return nil
}

// Close flushes pending events and releases the notifier.
func (c *Controller) Close() error {
	c.debouncer.Flush()
	return c.notifier.Close()
}

func (c *Controller) requestRestart(paths []string) {
	if c.log != nil {
		c.log.Info(strconv.Itoa(len(paths)) + " file(s) changed, requesting restart")
	}
	c.shutdown.RequestShutdown(c.policy.WaitForDebugger)
}
