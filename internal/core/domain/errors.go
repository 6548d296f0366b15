package domain

import "go.trai.ch/zerr"

var (
	// ErrUnresolvedDependencies is returned when one or more graph nodes
	// could not be satisfied for the target platform.
	ErrUnresolvedDependencies = zerr.New("unresolved dependencies")

	// ErrReferenceCycle is returned when the declared references form a
	// cycle. Cycles are a reported error condition, never silently broken.
	ErrReferenceCycle = zerr.New("reference cycle detected")

	// ErrMissingRootUnit is returned when no build unit exists at the
	// configured root.
	ErrMissingRootUnit = zerr.New("missing root unit")

	// ErrDuplicateUnit is returned when a resolution would count the same
	// unit twice.
	ErrDuplicateUnit = zerr.New("unit already present in graph")

	// ErrLoadFailed is returned at the host boundary when the entry unit
	// produced the error load outcome.
	ErrLoadFailed = zerr.New("entry unit failed to load")

	// ErrLoaderExhausted is returned when no registered loader variant
	// accepted a payload.
	ErrLoaderExhausted = zerr.New("no loader accepted the payload")

	// ErrModuleConflict is returned when a load would replace an already
	// loaded module with different content. The module table is append-only.
	ErrModuleConflict = zerr.New("module already loaded with different content")

	// ErrHostShutdown is returned when the host exits because a source
	// change requested a restart.
	ErrHostShutdown = zerr.New("shutdown requested")

	// ErrHostNotInitialized is returned when an entry point is requested
	// before the dependency graph has been walked.
	ErrHostNotInitialized = zerr.New("host not initialized")
)
