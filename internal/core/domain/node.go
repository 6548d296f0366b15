package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// DependencyNode is one build unit in a resolution graph. Unresolved nodes
// retain every location that was searched, for the failure report.
type DependencyNode struct {
	Identity UnitIdentity

	// References are the declared references, in declaration order.
	References []UnitIdentity

	// Resolved is false when no provider satisfied the identity for the
	// target platform.
	Resolved bool

	// Path is the physical location of the resolved unit. Empty for
	// unresolved nodes and for units satisfied by non-source providers.
	Path string

	// SearchedLocations are the locations tried while locating the unit,
	// in the order they were tried.
	SearchedLocations []string
}

// ResolutionGraph is the directed, acyclic graph produced by one resolution.
// It is owned by the resolver for the duration of that resolution; cycles are
// rejected at construction, never silently broken.
type ResolutionGraph struct {
	root  UnitIdentity
	nodes map[UnitIdentity]*DependencyNode
	order []UnitIdentity
}

// NewResolutionGraph creates an empty graph rooted at the given identity.
func NewResolutionGraph(root UnitIdentity) *ResolutionGraph {
	return &ResolutionGraph{
		root:  root,
		nodes: make(map[UnitIdentity]*DependencyNode),
	}
}

// Root returns the identity the resolution started from.
func (g *ResolutionGraph) Root() UnitIdentity {
	return g.root
}

// Add inserts a node into the graph. A unit may appear only once; adding the
// same identity again under a different physical path is an error.
func (g *ResolutionGraph) Add(node *DependencyNode) error {
	if existing, ok := g.nodes[node.Identity]; ok {
		if existing.Path != node.Path {
			err := zerr.With(ErrDuplicateUnit, "identity", node.Identity.String())
			err = zerr.With(err, "path", existing.Path)
			err = zerr.With(err, "conflicting_path", node.Path)
			return err
		}
		return zerr.With(ErrDuplicateUnit, "identity", node.Identity.String())
	}
	g.nodes[node.Identity] = node
	g.order = append(g.order, node.Identity)
	return nil
}

// Node returns the node for an identity, if present.
func (g *ResolutionGraph) Node(id UnitIdentity) (*DependencyNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of distinct units in the graph.
func (g *ResolutionGraph) Len() int {
	return len(g.nodes)
}

// Walk returns an iterator over the nodes in the order they were first
// visited during resolution.
func (g *ResolutionGraph) Walk() iter.Seq[*DependencyNode] {
	return func(yield func(*DependencyNode) bool) {
		for _, id := range g.order {
			if !yield(g.nodes[id]) {
				return
			}
		}
	}
}

// Unresolved returns every node that could not be satisfied, sorted by unit
// name (then version) so reports are stable and user-scannable.
func (g *ResolutionGraph) Unresolved() []*DependencyNode {
	var out []*DependencyNode
	for _, id := range g.order {
		if n := g.nodes[id]; !n.Resolved {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b *DependencyNode) int {
		if c := strings.Compare(a.Identity.Name.String(), b.Identity.Name.String()); c != 0 {
			return c
		}
		return strings.Compare(a.Identity.Version.String(), b.Identity.Version.String())
	})
	return out
}
