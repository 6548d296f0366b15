package telemetry

import (
	"context"

	"go.trai.ch/kiln/internal/core/ports"
)

// NoopTracer is a no-op implementation of ports.Tracer.
type NoopTracer struct{}

// NewNoop creates a NoopTracer.
func NewNoop() *NoopTracer {
	return &NoopTracer{}
}

// Record returns a vertex that records nothing.
func (t *NoopTracer) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (t *NoopTracer) Close() error {
	return nil
}

type noopVertex struct{}

func (noopVertex) Write(p []byte) (int, error) { return len(p), nil }
func (noopVertex) Complete(error)              {}
func (noopVertex) Cached()                     {}

var _ ports.Tracer = (*NoopTracer)(nil)
