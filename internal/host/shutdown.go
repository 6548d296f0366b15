package host

// ShutdownRequest asks the process to terminate so a supervisor can restart
// it with a clean cache.
type ShutdownRequest struct {
	// WaitForDebugger delays the exit until a debugger attaches, used in
	// development workflows.
	WaitForDebugger bool
}

// ShutdownSignal is the one-way channel between change-driven components and
// the process owner. Senders fire and forget; the owner observes requests at
// its own idle points.
type ShutdownSignal struct {
	requests chan ShutdownRequest
}

// NewShutdownSignal creates a signal hub.
func NewShutdownSignal() *ShutdownSignal {
	// Small buffer so a burst of change events never blocks the notifier.
	return &ShutdownSignal{requests: make(chan ShutdownRequest, 2)}
}

// RequestShutdown records the intent to terminate. It never blocks; once a
// request is pending, further requests are redundant and dropped.
func (s *ShutdownSignal) RequestShutdown(waitForDebugger bool) {
	select {
	case s.requests <- ShutdownRequest{WaitForDebugger: waitForDebugger}:
	default:
	}
}

// Requests exposes the pending shutdown requests for selection.
func (s *ShutdownSignal) Requests() <-chan ShutdownRequest {
	return s.requests
}
