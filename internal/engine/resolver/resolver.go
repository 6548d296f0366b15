// Package resolver walks a root unit's declared references and produces the
// dependency graph, flagging every node that cannot be satisfied.
package resolver

import (
	"context"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver builds the dependency graph for a root unit. Resolution is
// best-effort: an unsatisfied reference does not stop sibling branches, so
// the full unresolved set is reported in one pass. It never compiles.
type Resolver struct {
	providers []ports.UnitProvider
	log       ports.Logger
}

// New creates a Resolver over the given unit providers. Providers are
// consulted in order: local build units first, then external packages.
func New(providers []ports.UnitProvider, log ports.Logger) *Resolver {
	return &Resolver{
		providers: providers,
		log:       log,
	}
}

// Resolve walks declared references depth-first from root and returns the
// graph. Unresolved nodes are recorded in the graph, not returned as errors;
// the error return is reserved for cycles and provider failures.
func (r *Resolver) Resolve(ctx context.Context, root domain.UnitIdentity, platform domain.TargetPlatform) (*domain.ResolutionGraph, error) {
	g := domain.NewResolutionGraph(root)
	w := &walk{
		resolver: r,
		graph:    g,
		platform: platform,
		visited:  make(map[domain.UnitIdentity]bool),
		visiting: make(map[domain.UnitIdentity]bool),
	}
	if err := w.visit(ctx, root); err != nil {
		return nil, err
	}
	return g, nil
}

// walk carries the state of one resolution pass. The explicit visiting set
// turns an accidental reference cycle into a reported condition instead of
// infinite recursion.
type walk struct {
	resolver *Resolver
	graph    *domain.ResolutionGraph
	platform domain.TargetPlatform
	visited  map[domain.UnitIdentity]bool
	visiting map[domain.UnitIdentity]bool
	path     []domain.UnitIdentity
}

func (w *walk) visit(ctx context.Context, id domain.UnitIdentity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visiting[id] {
		return w.cycleError(id)
	}
	if w.visited[id] {
		return nil
	}

	w.visiting[id] = true
	w.path = append(w.path, id)
	defer func() {
		delete(w.visiting, id)
		w.path = w.path[:len(w.path)-1]
		w.visited[id] = true
	}()

	manifest, searched, err := w.locate(id)
	if err != nil {
		return err
	}

	if manifest == nil {
		node := &domain.DependencyNode{
			Identity:          id,
			SearchedLocations: searched,
		}
		// Best effort: record the node and keep walking siblings.
		return w.add(node)
	}

	node := &domain.DependencyNode{
		Identity:          manifest.Identity,
		References:        manifest.References,
		Resolved:          true,
		Path:              manifest.Dir,
		SearchedLocations: searched,
	}
	if err := w.add(node); err != nil {
		return err
	}

	for _, ref := range manifest.References {
		if err := w.visit(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

// add inserts the node unless the concrete identity is already present,
// which happens when the same unit is reached through a versionless and a
// versioned reference.
func (w *walk) add(node *domain.DependencyNode) error {
	if existing, ok := w.graph.Node(node.Identity); ok {
		if existing.Path != node.Path {
			return zerr.With(zerr.With(domain.ErrDuplicateUnit, "identity", node.Identity.String()), "conflicting_path", node.Path)
		}
		w.visited[node.Identity] = true
		return nil
	}
	return w.graph.Add(node)
}

// locate asks each provider in order, accumulating every searched location
// so unresolved nodes can report the full list.
func (w *walk) locate(id domain.UnitIdentity) (*domain.UnitManifest, []string, error) {
	var searched []string
	for _, p := range w.resolver.providers {
		manifest, locations, err := p.Locate(id, w.platform)
		searched = append(searched, locations...)
		if err != nil {
			return nil, searched, zerr.With(zerr.Wrap(err, "unit provider failed"), "identity", id.String())
		}
		if manifest != nil {
			return manifest, searched, nil
		}
	}
	return nil, searched, nil
}

func (w *walk) cycleError(id domain.UnitIdentity) error {
	start := 0
	for i, n := range w.path {
		if n == id {
			start = i
			break
		}
	}
	var b strings.Builder
	for _, n := range w.path[start:] {
		b.WriteString(n.String())
		b.WriteString(" -> ")
	}
	b.WriteString(id.String())
	return zerr.With(domain.ErrReferenceCycle, "cycle", b.String())
}
