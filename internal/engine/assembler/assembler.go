// Package assembler turns a compilation result into a loadable payload by
// collecting the unit's resources from every registered provider.
package assembler

import (
	"bytes"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Assembler builds payloads. Providers are consulted in registration order;
// when two descriptors share a logical name, the later registration wins.
type Assembler struct {
	providers []ports.ResourceProvider
	log       ports.Logger
}

// New creates an Assembler over the given providers.
func New(providers []ports.ResourceProvider, log ports.Logger) *Assembler {
	return &Assembler{providers: providers, log: log}
}

// Assemble produces the payload for a successfully compiled unit. Resources
// keep a stable order: first registration position, with later duplicates
// replacing the earlier content in place.
func (a *Assembler) Assemble(res *domain.CompilationResult) (*domain.Payload, error) {
	set := newResourceSet()

	if res.Manifest != nil {
		for _, provider := range a.providers {
			descriptors, err := provider.Resources(res.Manifest)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "collecting resources"), "unit", res.Identity.String())
			}
			for _, d := range descriptors {
				if replaced := set.put(d); replaced && a.log != nil {
					a.log.Warn("resource " + d.LogicalName + " overrides an earlier registration")
				}
			}
		}
	}

	a.collectArtifacts(res, set)

	return &domain.Payload{
		Binary:    res.Binary,
		Symbols:   res.Symbols,
		Resources: set.ordered(),
	}, nil
}

// collectArtifacts walks the result and its references transitively and
// registers every neutral artifact as a public resource named after the
// artifact. The first occurrence of a name wins; transitive duplicates are
// the same artifact reaching the unit along two reference paths.
func (a *Assembler) collectArtifacts(res *domain.CompilationResult, set *resourceSet) {
	seen := make(map[domain.UnitIdentity]bool)
	var walk func(r *domain.CompilationResult)
	walk = func(r *domain.CompilationResult) {
		if r == nil || seen[r.Identity] {
			return
		}
		seen[r.Identity] = true
		for _, art := range r.NeutralArtifacts {
			name := art.Name.String() + ".bin"
			if set.has(name) {
				continue
			}
			data := art.Data
			set.put(domain.ResourceDescriptor{
				LogicalName: name,
				Visibility:  domain.ResourcePublic,
				Source: func() (io.ReadCloser, error) {
					return io.NopCloser(bytes.NewReader(data)), nil
				},
			})
		}
		for _, ref := range r.References {
			walk(ref)
		}
	}
	walk(res)
}

// resourceSet is an ordered set of descriptors keyed by logical name.
type resourceSet struct {
	order []domain.ResourceDescriptor
	index map[string]int
}

func newResourceSet() *resourceSet {
	return &resourceSet{index: make(map[string]int)}
}

// put inserts or replaces the descriptor, reporting whether a previous
// registration was replaced.
func (s *resourceSet) put(d domain.ResourceDescriptor) bool {
	if i, ok := s.index[d.LogicalName]; ok {
		s.order[i] = d
		return true
	}
	s.index[d.LogicalName] = len(s.order)
	s.order = append(s.order, d)
	return false
}

func (s *resourceSet) has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *resourceSet) ordered() []domain.ResourceDescriptor {
	return s.order
}
