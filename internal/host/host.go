// Package host owns the top-level build pipeline: it walks the dependency
// graph, fails fast with a formatted report when any unit is unresolved, and
// otherwise compiles and loads the entry unit.
package host

import (
	"context"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// State is the host lifecycle position. Ready and Failed are terminal; a
// fresh Initialize call is required to re-enter the machine after a reload.
type State int

const (
	StateUninitialized State = iota
	StateGraphWalked
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateGraphWalked:
		return "graph-walked"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// GraphResolver walks the root unit's reference graph.
type GraphResolver interface {
	Resolve(ctx context.Context, root domain.UnitIdentity, platform domain.TargetPlatform) (*domain.ResolutionGraph, error)
}

// UnitCompiler is the memoized compile capability.
type UnitCompiler interface {
	GetOrCompile(ctx context.Context, id domain.UnitIdentity, platform domain.TargetPlatform) (*domain.CompilationResult, error)
	Invalidate()
}

// ModulePipeline loads one compiled unit into the process.
type ModulePipeline interface {
	Load(ctx context.Context, res *domain.CompilationResult) domain.LoadResult
}

// Host resolves the configured root unit into a loaded entry module.
type Host struct {
	cfg      *domain.HostConfig
	resolver GraphResolver
	compiler UnitCompiler
	pipeline ModulePipeline
	log      ports.Logger

	state   State
	graph   *domain.ResolutionGraph
	entry   *domain.LoadedModule
	failure error
	report  string
}

// New creates a Host in the uninitialized state.
func New(cfg *domain.HostConfig, resolver GraphResolver, compiler UnitCompiler, pipeline ModulePipeline, log ports.Logger) *Host {
	return &Host{
		cfg:      cfg,
		resolver: resolver,
		compiler: compiler,
		pipeline: pipeline,
		log:      log,
	}
}

// State returns the current lifecycle position.
func (h *Host) State() State {
	return h.state
}

// Graph returns the resolution graph of the last Initialize, if any.
func (h *Host) Graph() *domain.ResolutionGraph {
	return h.graph
}

// Report returns the formatted failure block for a Failed host: the
// unresolved-dependency report, or the entry unit's load errors. Empty while
// the host has not failed.
func (h *Host) Report() string {
	return h.report
}

// Initialize walks the dependency graph from the configured root. Calling it
// again discards all previous state, including every cached compilation
// result; that is the reload path.
func (h *Host) Initialize(ctx context.Context) error {
	if h.state != StateUninitialized {
		h.compiler.Invalidate()
	}
	h.state = StateUninitialized
	h.graph = nil
	h.entry = nil
	h.failure = nil
	h.report = ""

	if h.cfg.Root.IsZero() {
		// No root unit configured. Entry-point requests answer nil.
		h.state = StateGraphWalked
		return nil
	}

	graph, err := h.resolver.Resolve(ctx, h.cfg.Root, h.cfg.Platform)
	if err != nil {
		h.fail(zerr.Wrap(err, "walking dependency graph"))
		return h.failure
	}
	h.graph = graph
	h.state = StateGraphWalked
	return nil
}

// GetEntryPoint returns the loaded entry module for the application, or nil
// when no root unit is configured. The first call on a walked graph drives
// compile and load; repeat calls return the same module. On failure the
// returned error carries the full formatted report as its message.
func (h *Host) GetEntryPoint(ctx context.Context, application string) (*domain.LoadedModule, error) {
	switch h.state {
	case StateReady:
		return h.entry, nil
	case StateFailed:
		return nil, h.failure
	case StateUninitialized:
		return nil, domain.ErrHostNotInitialized
	}

	if h.cfg.Root.IsZero() {
		return nil, nil
	}

	if unresolved := h.graph.Unresolved(); len(unresolved) > 0 {
		h.report = FormatUnresolvedReport(unresolved, h.cfg.Platform)
		err := zerr.With(zerr.Wrap(domain.ErrUnresolvedDependencies, h.report), "units", strconv.Itoa(len(unresolved)))
		h.fail(err)
		return nil, err
	}

	res, err := h.compiler.GetOrCompile(ctx, h.cfg.Root, h.cfg.Platform)
	if err != nil {
		h.fail(zerr.Wrap(err, "compiling "+h.cfg.Root.String()))
		return nil, h.failure
	}
	if res == nil {
		h.fail(zerr.With(domain.ErrMissingRootUnit, "root", h.cfg.Root.String()))
		return nil, h.failure
	}

	result := h.pipeline.Load(ctx, res)
	if result.Failed() {
		h.report = strings.Join(result.Errors, "\n")
		err := zerr.With(zerr.Wrap(domain.ErrLoadFailed, h.report), "unit", res.Identity.String())
		h.fail(err)
		return nil, err
	}

	h.entry = result.Module
	h.state = StateReady
	if h.log != nil {
		h.log.Info("entry point " + application + " ready: " + result.Module.Name.String())
	}
	return h.entry, nil
}

func (h *Host) fail(err error) {
	h.state = StateFailed
	h.failure = err
	if h.log != nil {
		h.log.Error(err)
	}
}
