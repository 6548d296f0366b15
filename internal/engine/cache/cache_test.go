package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/cache"
	"go.uber.org/mock/gomock"
)

func platform(t *testing.T) domain.TargetPlatform {
	t.Helper()
	p, err := domain.ParseTargetPlatform("net-9")
	if err != nil {
		t.Fatalf("parse platform: %v", err)
	}
	return p
}

func id(name, version string) domain.UnitIdentity {
	return domain.NewUnitIdentity(name, version)
}

// countingCompiler serves a fixed reference table through the resolver
// callback and counts how often each unit is actually compiled.
type countingCompiler struct {
	refs map[string][]domain.UnitIdentity

	mu    sync.Mutex
	calls map[string]int
}

func newCountingCompiler(refs map[string][]domain.UnitIdentity) *countingCompiler {
	return &countingCompiler{refs: refs, calls: make(map[string]int)}
}

func (c *countingCompiler) Compile(ctx context.Context, u domain.UnitIdentity, p domain.TargetPlatform, resolve ports.ReferenceResolver) (*domain.CompilationResult, error) {
	c.mu.Lock()
	c.calls[u.String()]++
	c.mu.Unlock()

	res := &domain.CompilationResult{
		Identity: u,
		Binary:   []byte(u.String()),
	}
	for _, ref := range c.refs[u.String()] {
		child, err := resolve(ctx, ref, p)
		if err != nil {
			return nil, err
		}
		res.References = append(res.References, child)
	}
	return res, nil
}

func (c *countingCompiler) callsFor(u domain.UnitIdentity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[u.String()]
}

func TestDiamondCompilesSharedUnitOnce(t *testing.T) {
	app := id("App", "1.0")
	left := id("Left", "1.0")
	right := id("Right", "1.0")
	core := id("Core", "1.0")

	compiler := newCountingCompiler(map[string][]domain.UnitIdentity{
		app.String():   {left, right},
		left.String():  {core},
		right.String(): {core},
	})
	c := cache.New(compiler, nil, nil)

	res, err := c.GetOrCompile(t.Context(), app, platform(t))
	if err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	if res == nil || res.Identity != app {
		t.Fatalf("unexpected result: %+v", res)
	}

	for _, u := range []domain.UnitIdentity{app, left, right, core} {
		if got := compiler.callsFor(u); got != 1 {
			t.Errorf("%s compiled %d times, want 1", u, got)
		}
	}
	if got := c.Len(); got != 4 {
		t.Errorf("cache holds %d entries, want 4", got)
	}
}

func TestRepeatedRequestsReturnSameResult(t *testing.T) {
	app := id("App", "1.0")
	compiler := newCountingCompiler(nil)
	c := cache.New(compiler, nil, nil)

	first, err := c.GetOrCompile(t.Context(), app, platform(t))
	if err != nil {
		t.Fatalf("first GetOrCompile: %v", err)
	}
	second, err := c.GetOrCompile(t.Context(), app, platform(t))
	if err != nil {
		t.Fatalf("second GetOrCompile: %v", err)
	}
	if first != second {
		t.Error("expected the identical cached result on a repeated request")
	}
	if got := compiler.callsFor(app); got != 1 {
		t.Errorf("compiled %d times, want 1", got)
	}
}

// recordingTracer counts vertices and cache marks for assertions.
type recordingTracer struct {
	mu      sync.Mutex
	records []string
	cached  int
}

func (r *recordingTracer) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, name)
	return ctx, &recordingVertex{tracer: r}
}

func (r *recordingTracer) Close() error { return nil }

type recordingVertex struct {
	tracer *recordingTracer
}

func (v *recordingVertex) Write(p []byte) (int, error) { return len(p), nil }
func (v *recordingVertex) Complete(error)              {}
func (v *recordingVertex) Cached() {
	v.tracer.mu.Lock()
	defer v.tracer.mu.Unlock()
	v.tracer.cached++
}

func TestCacheHitMarksVertexCached(t *testing.T) {
	compiler := newCountingCompiler(nil)
	tracer := &recordingTracer{}
	c := cache.New(compiler, tracer, nil)

	app := id("App", "1.0")
	for range 2 {
		if _, err := c.GetOrCompile(t.Context(), app, platform(t)); err != nil {
			t.Fatalf("GetOrCompile: %v", err)
		}
	}
	if len(tracer.records) != 2 {
		t.Errorf("recorded %d vertices, want 2 (compile and cache hit)", len(tracer.records))
	}
	if tracer.cached != 1 {
		t.Errorf("cached marks = %d, want 1", tracer.cached)
	}
}

func TestNonCompilableHitRecordsNoVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	external := id("System.Runtime", "9.0")

	compiler.EXPECT().
		Compile(gomock.Any(), external, gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(1)

	tracer := &recordingTracer{}
	c := cache.New(compiler, tracer, nil)
	for range 2 {
		if _, err := c.GetOrCompile(t.Context(), external, platform(t)); err != nil {
			t.Fatalf("GetOrCompile: %v", err)
		}
	}

	// Only the first probe records a vertex; nothing was compiled, so the
	// hit on the stored nil must not report a cached compile.
	if len(tracer.records) != 1 {
		t.Errorf("recorded %d vertices, want 1", len(tracer.records))
	}
	if tracer.cached != 0 {
		t.Errorf("cached marks = %d, want 0", tracer.cached)
	}
}

func TestNotACompilableUnitIsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	external := id("System.Runtime", "9.0")

	compiler.EXPECT().
		Compile(gomock.Any(), external, gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(1)

	c := cache.New(compiler, nil, nil)
	for range 2 {
		res, err := c.GetOrCompile(t.Context(), external, platform(t))
		if err != nil {
			t.Fatalf("GetOrCompile: %v", err)
		}
		if res != nil {
			t.Fatalf("expected nil result for a non-compilable unit, got %+v", res)
		}
	}
}

func TestFailingResultIsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	broken := id("Broken", "1.0")
	failing := &domain.CompilationResult{
		Identity: broken,
		Diagnostics: []domain.Diagnostic{
			{Severity: domain.SeverityError, Message: "boom"},
		},
	}

	compiler.EXPECT().
		Compile(gomock.Any(), broken, gomock.Any(), gomock.Any()).
		Return(failing, nil).
		Times(1)

	c := cache.New(compiler, nil, nil)
	for range 2 {
		res, err := c.GetOrCompile(t.Context(), broken, platform(t))
		if err != nil {
			t.Fatalf("GetOrCompile: %v", err)
		}
		if res == nil || !res.HasErrors() {
			t.Fatalf("expected the cached failing result, got %+v", res)
		}
	}
}

func TestReferenceCycleIsReported(t *testing.T) {
	a := id("A", "1.0")
	b := id("B", "1.0")
	compiler := newCountingCompiler(map[string][]domain.UnitIdentity{
		a.String(): {b},
		b.String(): {a},
	})
	c := cache.New(compiler, nil, nil)

	_, err := c.GetOrCompile(t.Context(), a, platform(t))
	if !errors.Is(err, domain.ErrReferenceCycle) {
		t.Fatalf("expected ErrReferenceCycle, got %v", err)
	}
}

func TestInvalidateDiscardsEverything(t *testing.T) {
	app := id("App", "1.0")
	compiler := newCountingCompiler(nil)
	c := cache.New(compiler, nil, nil)

	if _, err := c.GetOrCompile(t.Context(), app, platform(t)); err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	c.Invalidate()
	if got := c.Len(); got != 0 {
		t.Fatalf("cache holds %d entries after Invalidate, want 0", got)
	}
	if _, err := c.GetOrCompile(t.Context(), app, platform(t)); err != nil {
		t.Fatalf("GetOrCompile after Invalidate: %v", err)
	}
	if got := compiler.callsFor(app); got != 2 {
		t.Errorf("compiled %d times across invalidation, want 2", got)
	}
}

func TestCompilerErrorIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	flaky := id("Flaky", "1.0")

	compiler.EXPECT().
		Compile(gomock.Any(), flaky, gomock.Any(), gomock.Any()).
		Return(nil, errors.New("disk on fire")).
		Times(2)

	c := cache.New(compiler, nil, nil)
	for range 2 {
		if _, err := c.GetOrCompile(t.Context(), flaky, platform(t)); err == nil {
			t.Fatal("expected an error from the failing compiler invocation")
		}
	}
	if got := c.Len(); got != 0 {
		t.Errorf("cache holds %d entries after errors, want 0", got)
	}
}
