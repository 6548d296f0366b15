// Package loader drives the assemble-then-load half of the build pipeline:
// it turns a compilation result into a loaded in-process module, or into
// the ordered error messages explaining why the unit cannot load.
package loader

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Assembler builds the loadable payload for a compiled unit.
type Assembler interface {
	Assemble(res *domain.CompilationResult) (*domain.Payload, error)
}

// Pipeline holds the loader variants in preference order. The first variant
// that accepts a payload wins; a variant declines by returning (nil, nil).
type Pipeline struct {
	assembler Assembler
	loaders   []ports.ModuleLoader
	tracer    ports.Tracer
	log       ports.Logger
}

// New creates a Pipeline. Variant order is the order given here.
func New(assembler Assembler, loaders []ports.ModuleLoader, tracer ports.Tracer, log ports.Logger) *Pipeline {
	return &Pipeline{assembler: assembler, loaders: loaders, tracer: tracer, log: log}
}

// Load assembles and loads one compiled unit. A result with failing
// diagnostics short-circuits: nothing is assembled and no loader runs, the
// diagnostics become the load errors verbatim.
func (p *Pipeline) Load(ctx context.Context, res *domain.CompilationResult) domain.LoadResult {
	if res.HasErrors() {
		return domain.LoadResult{Errors: res.DiagnosticMessages()}
	}

	ctx, vertex := p.record(ctx, "load "+res.Identity.String())

	payload, err := p.assembler.Assemble(res)
	if err != nil {
		vertex.Complete(err)
		return domain.LoadResult{Errors: []string{err.Error()}}
	}

	for _, l := range p.loaders {
		module, err := l.Load(ctx, res.Identity, payload)
		if err != nil {
			vertex.Complete(err)
			return domain.LoadResult{Errors: []string{err.Error()}}
		}
		if module == nil {
			continue
		}
		if p.log != nil {
			p.log.Info("loaded " + res.Identity.String())
		}
		vertex.Complete(nil)
		return domain.LoadResult{Module: module}
	}

	vertex.Complete(domain.ErrLoaderExhausted)
	return domain.LoadResult{Errors: []string{domain.ErrLoaderExhausted.Error() + ": " + res.Identity.String()}}
}

func (p *Pipeline) record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	if p.tracer == nil {
		return ctx, noopVertex{}
	}
	return p.tracer.Record(ctx, name)
}

type noopVertex struct{}

func (noopVertex) Write(b []byte) (int, error) { return len(b), nil }
func (noopVertex) Complete(error)              {}
func (noopVertex) Cached()                     {}
