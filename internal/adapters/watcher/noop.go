package watcher

import (
	"context"

	"go.trai.ch/kiln/internal/core/ports"
)

// NoopNotifier is installed when watching is disabled: the rest of the
// pipeline is wired identically and no event ever fires.
type NoopNotifier struct{}

// NewNoopNotifier creates a NoopNotifier.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// Subscribe accepts the subscription and never delivers an event.
func (NoopNotifier) Subscribe(_ context.Context, _ string, _ func(path string)) error {
	return nil
}

// Close is a no-op.
func (NoopNotifier) Close() error {
	return nil
}

var _ ports.ChangeNotifier = NoopNotifier{}
