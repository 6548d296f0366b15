package ports

import "context"

// ChangeNotifier delivers file-change events for a directory tree.
// Delivery is at-least-once; the callback receives the changed path but
// consumers are not required to inspect it, any event triggers the same
// restart protocol.
//
//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type ChangeNotifier interface {
	// Subscribe starts watching root recursively and invokes onChange for
	// every event until ctx is cancelled or Close is called.
	Subscribe(ctx context.Context, root string, onChange func(path string)) error

	// Close stops the notifier and releases its resources.
	Close() error
}
