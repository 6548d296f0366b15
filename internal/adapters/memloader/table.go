// Package memloader loads assembled payloads into an in-memory module
// table, the process-side stand-in for the runtime's loaded-module list.
package memloader

import (
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
)

// Table is the process-wide module table. It is append-only: a module, once
// loaded, is never replaced in place. A reload discards the whole process
// and with it the table.
type Table struct {
	mu      sync.RWMutex
	modules map[domain.UnitIdentity]*domain.LoadedModule
}

// NewTable creates an empty module table.
func NewTable() *Table {
	return &Table{modules: make(map[domain.UnitIdentity]*domain.LoadedModule)}
}

// Lookup returns the loaded module for an identity, if present.
func (t *Table) Lookup(name domain.UnitIdentity) (*domain.LoadedModule, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.modules[name]
	return m, ok
}

// Modules returns every loaded module sorted by name for stable listings.
func (t *Table) Modules() []*domain.LoadedModule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*domain.LoadedModule, 0, len(t.modules))
	for _, m := range t.modules {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *domain.LoadedModule) int {
		return strings.Compare(a.Name.String(), b.Name.String())
	})
	return out
}

// Len returns the number of loaded modules.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.modules)
}

// insert stores a module, or returns the existing one when the same content
// is already loaded. The boolean reports whether the module was inserted.
func (t *Table) insert(m *domain.LoadedModule) (*domain.LoadedModule, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.modules[m.Name]; ok {
		if existing.Fingerprint != m.Fingerprint {
			return nil, false, domain.ErrModuleConflict
		}
		return existing, false, nil
	}
	t.modules[m.Name] = m
	return m, true, nil
}
