// Package cache memoizes compilation results per build-unit identity so
// every unit in a dependency graph compiles at most once per process
// lifetime.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// entryKey identifies a cache entry: one unit compiled for one platform.
type entryKey struct {
	id       domain.UnitIdentity
	platform domain.TargetPlatform
}

func (k entryKey) String() string {
	return k.id.String() + "|" + k.platform.String()
}

// Cache memoizes the Compiler capability. Entries are immutable once stored
// and shared by reference among all consumers; invalidation is wholesale,
// the whole cache is discarded on a reload because one file change can
// affect any node transitively.
type Cache struct {
	compiler ports.Compiler
	tracer   ports.Tracer
	log      ports.Logger

	mu      sync.RWMutex
	entries map[entryKey]*domain.CompilationResult
	group   singleflight.Group
}

// New creates an empty Cache over the given compiler capability.
func New(compiler ports.Compiler, tracer ports.Tracer, log ports.Logger) *Cache {
	return &Cache{
		compiler: compiler,
		tracer:   tracer,
		log:      log,
		entries:  make(map[entryKey]*domain.CompilationResult),
	}
}

// GetOrCompile returns the memoized result for the identity, compiling on
// first request. It returns (nil, nil) when the compiler reports the
// identity is not a compilable unit; callers fall through to other
// resolution strategies. Failing diagnostics live inside the returned
// result, never in the error: deciding whether they are fatal is the
// caller's responsibility.
func (c *Cache) GetOrCompile(ctx context.Context, id domain.UnitIdentity, platform domain.TargetPlatform) (*domain.CompilationResult, error) {
	return c.getOrCompile(ctx, id, platform, make(map[entryKey]bool))
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate discards every entry. The cache is never invalidated
// entry-by-entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.log != nil && len(c.entries) > 0 {
		c.log.Info(fmt.Sprintf("discarding %d cached compilation results", len(c.entries)))
	}
	c.entries = make(map[entryKey]*domain.CompilationResult)
}

// getOrCompile carries the traversal's visiting set through the recursive
// reference resolution, converting an accidental reference cycle into a
// reported condition instead of a deadlocked or infinite recursion.
func (c *Cache) getOrCompile(ctx context.Context, id domain.UnitIdentity, platform domain.TargetPlatform, visiting map[entryKey]bool) (*domain.CompilationResult, error) {
	k := entryKey{id: id, platform: platform}

	if res, ok := c.lookup(k); ok {
		// A stored nil means the identity is not a compilable unit;
		// nothing was ever compiled, so there is no vertex to report.
		if res != nil {
			c.markCached(ctx, k)
		}
		return res, nil
	}
	if visiting[k] {
		return nil, zerr.With(domain.ErrReferenceCycle, "identity", id.String())
	}
	visiting[k] = true
	defer delete(visiting, k)

	// singleflight serializes concurrent compiles of the same identity so
	// independent root resolutions sharing this cache still compile once.
	v, err, _ := c.group.Do(k.String(), func() (any, error) {
		if res, ok := c.lookup(k); ok {
			return res, nil
		}
		return c.compile(ctx, k, visiting)
	})
	if err != nil {
		return nil, err
	}
	res, _ := v.(*domain.CompilationResult)
	return res, nil
}

func (c *Cache) compile(ctx context.Context, k entryKey, visiting map[entryKey]bool) (*domain.CompilationResult, error) {
	ctx, vertex := c.record(ctx, "compile "+k.id.String())

	refs := func(ctx context.Context, id domain.UnitIdentity, platform domain.TargetPlatform) (*domain.CompilationResult, error) {
		return c.getOrCompile(ctx, id, platform, visiting)
	}

	res, err := c.compiler.Compile(ctx, k.id, k.platform, refs)
	if err != nil {
		vertex.Complete(err)
		return nil, zerr.With(zerr.Wrap(err, "compiler invocation failed"), "identity", k.id.String())
	}
	if res == nil {
		// Not a compilable unit. Remember that so the compiler is not
		// asked again for the same identity.
		c.store(k, nil)
		vertex.Complete(nil)
		return nil, nil
	}

	c.storeTree(k, res, make(map[entryKey]bool))

	if res.HasErrors() {
		// The failing result stays cached so a known-bad unit is not
		// recompiled on every reference.
		vertex.Complete(domain.ErrLoadFailed)
	} else {
		vertex.Complete(nil)
	}
	return res, nil
}

func (c *Cache) lookup(k entryKey) (*domain.CompilationResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[k]
	return res, ok
}

func (c *Cache) store(k entryKey, res *domain.CompilationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[k]; !ok {
		c.entries[k] = res
	}
}

// storeTree stores the result and every referenced result it names, so the
// cache is populated for all transitively visited units exactly once.
func (c *Cache) storeTree(k entryKey, res *domain.CompilationResult, seen map[entryKey]bool) {
	if seen[k] {
		return
	}
	seen[k] = true

	if res.Fingerprint == 0 && res.Binary != nil {
		res.Fingerprint = xxhash.Sum64(res.Binary)
	}
	c.store(k, res)

	for _, ref := range res.References {
		c.storeTree(entryKey{id: ref.Identity, platform: k.platform}, ref, seen)
	}
}

func (c *Cache) record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	if c.tracer == nil {
		return ctx, noopVertex{}
	}
	return c.tracer.Record(ctx, name)
}

func (c *Cache) markCached(ctx context.Context, k entryKey) {
	if c.tracer == nil {
		return
	}
	_, vertex := c.tracer.Record(ctx, "compile "+k.id.String())
	vertex.Cached()
	vertex.Complete(nil)
}

type noopVertex struct{}

func (noopVertex) Write(p []byte) (int, error) { return len(p), nil }
func (noopVertex) Complete(error)              {}
func (noopVertex) Cached()                     {}
