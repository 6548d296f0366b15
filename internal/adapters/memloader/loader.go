package memloader

import (
	"context"
	"io"
	"time"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loader implements ports.ModuleLoader by materializing the payload into
// the module table. It declines payloads without a binary stream so the
// pipeline can fall through to another variant.
type Loader struct {
	table  *Table
	hasher *fs.Hasher
	log    ports.Logger
}

// New creates a Loader over the given table.
func New(table *Table, hasher *fs.Hasher, log ports.Logger) *Loader {
	return &Loader{table: table, hasher: hasher, log: log}
}

// Load inserts the payload into the module table. Loading the identical
// content twice returns the already loaded module; different content for a
// loaded name is ErrModuleConflict.
func (l *Loader) Load(ctx context.Context, name domain.UnitIdentity, payload *domain.Payload) (*domain.LoadedModule, error) {
	if payload.Binary == nil {
		return nil, nil
	}

	names, err := materialize(payload.Resources)
	if err != nil {
		return nil, zerr.With(err, "module", name.String())
	}

	module := &domain.LoadedModule{
		Name:        name,
		Fingerprint: l.hasher.FingerprintBytes(payload.Binary),
		HasSymbols:  payload.Symbols != nil,
		Resources:   names,
		LoadedAt:    time.Now(),
	}

	loaded, inserted, err := l.table.insert(module)
	if err != nil {
		return nil, zerr.With(err, "module", name.String())
	}
	if !inserted && l.log != nil {
		l.log.Info("module " + name.String() + " already loaded, reusing")
	}
	return loaded, nil
}

// materialize drains every resource source, verifying the payload is fully
// readable before the module becomes visible.
func materialize(resources []domain.ResourceDescriptor) ([]string, error) {
	var names []string
	for _, r := range resources {
		rc, err := r.Source()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to open resource"), "resource", r.LogicalName)
		}
		_, err = io.Copy(io.Discard, rc)
		if cerr := rc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read resource"), "resource", r.LogicalName)
		}
		names = append(names, r.LogicalName)
	}
	return names, nil
}

var _ ports.ModuleLoader = (*Loader)(nil)
