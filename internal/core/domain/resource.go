package domain

import (
	"io"
	"time"
)

// ResourceVisibility controls whether a payload resource can be re-extracted
// by downstream loads.
type ResourceVisibility int

const (
	// ResourcePrivate resources are internal to the owning module.
	ResourcePrivate ResourceVisibility = iota
	// ResourcePublic resources are visible to downstream loads.
	ResourcePublic
)

// ResourceDescriptor names a single payload resource. The byte-producing
// source is lazy: it is not materialized until the payload is written.
type ResourceDescriptor struct {
	LogicalName string
	Visibility  ResourceVisibility

	// Source opens the resource content. Each call returns a fresh reader.
	Source func() (io.ReadCloser, error)
}

// Payload is the fully assembled, loadable form of one compiled unit:
// the binary stream plus every resource, held entirely in memory.
type Payload struct {
	Binary    []byte
	Symbols   []byte
	Resources []ResourceDescriptor
}

// Resource returns the descriptor with the given logical name, if present.
func (p *Payload) Resource(name string) (ResourceDescriptor, bool) {
	for _, r := range p.Resources {
		if r.LogicalName == name {
			return r, true
		}
	}
	return ResourceDescriptor{}, false
}

// LoadedModule is the in-process handle for a loaded unit. The host owns it
// for the process lifetime; a reload tears down the whole process rather
// than replacing modules in place.
type LoadedModule struct {
	Name        UnitIdentity
	Fingerprint uint64
	HasSymbols  bool

	// Resources are the logical names of the module's payload resources.
	Resources []string

	LoadedAt time.Time
}

// LoadResult is the discriminated outcome of a load: either a module handle
// or the ordered error messages that prevented the load.
type LoadResult struct {
	Module *LoadedModule
	Errors []string
}

// Failed reports whether the load produced the error outcome.
func (r LoadResult) Failed() bool {
	return r.Module == nil
}
