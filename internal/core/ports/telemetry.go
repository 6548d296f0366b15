package ports

import (
	"context"
	"io"
)

// Tracer records pipeline progress, one vertex per unit of work.
type Tracer interface {
	// Record starts a new vertex for the named piece of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	io.Writer

	// Complete marks the vertex as finished, successfully or with an error.
	Complete(err error)

	// Cached marks the vertex as a cache hit.
	Cached()
}
