package ports

// ShutdownRequester lets components request an orderly host shutdown.
// The request is a one-way, fire-and-forget notification: the host observes
// it at its own idle points and exits, it is never interrupted mid-compile.
type ShutdownRequester interface {
	// RequestShutdown asks the host to exit so a supervisor can restart it
	// with a clean cache. With waitForDebugger set the host pauses for a
	// debugger before exiting.
	RequestShutdown(waitForDebugger bool)
}
