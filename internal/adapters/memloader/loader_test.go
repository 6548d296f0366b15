package memloader_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/memloader"
	"go.trai.ch/kiln/internal/core/domain"
)

func payload(binary string, resources ...string) *domain.Payload {
	p := &domain.Payload{}
	if binary != "" {
		p.Binary = []byte(binary)
	}
	for _, name := range resources {
		p.Resources = append(p.Resources, domain.ResourceDescriptor{
			LogicalName: name,
			Source: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("content")), nil
			},
		})
	}
	return p
}

func TestLoadRecordsModule(t *testing.T) {
	table := memloader.NewTable()
	l := memloader.New(table, fs.NewHasher(), nil)
	app := domain.NewUnitIdentity("App", "1.0")

	p := payload("binary", "strings.yaml", "icon.png")
	p.Symbols = []byte("symbols")

	module, err := l.Load(t.Context(), app, p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if module == nil || module.Name != app {
		t.Fatalf("module = %+v", module)
	}
	if !module.HasSymbols {
		t.Error("symbols flag lost")
	}
	if len(module.Resources) != 2 {
		t.Errorf("resources = %v", module.Resources)
	}
	if got, ok := table.Lookup(app); !ok || got != module {
		t.Error("module not in table")
	}
}

func TestLoadDeclinesWithoutBinary(t *testing.T) {
	l := memloader.New(memloader.NewTable(), fs.NewHasher(), nil)
	module, err := l.Load(t.Context(), domain.NewUnitIdentity("App", "1.0"), payload(""))
	if err != nil || module != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", module, err)
	}
}

func TestLoadSameContentTwiceReusesModule(t *testing.T) {
	table := memloader.NewTable()
	l := memloader.New(table, fs.NewHasher(), nil)
	app := domain.NewUnitIdentity("App", "1.0")

	first, err := l.Load(t.Context(), app, payload("binary"))
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := l.Load(t.Context(), app, payload("binary"))
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Error("identical content must reuse the loaded module")
	}
	if table.Len() != 1 {
		t.Errorf("table holds %d modules, want 1", table.Len())
	}
}

func TestLoadConflictingContentFails(t *testing.T) {
	l := memloader.New(memloader.NewTable(), fs.NewHasher(), nil)
	app := domain.NewUnitIdentity("App", "1.0")

	if _, err := l.Load(t.Context(), app, payload("one")); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	_, err := l.Load(t.Context(), app, payload("two"))
	if !errors.Is(err, domain.ErrModuleConflict) {
		t.Fatalf("expected ErrModuleConflict, got %v", err)
	}
}

func TestLoadFailsOnUnreadableResource(t *testing.T) {
	l := memloader.New(memloader.NewTable(), fs.NewHasher(), nil)
	p := payload("binary")
	p.Resources = append(p.Resources, domain.ResourceDescriptor{
		LogicalName: "broken",
		Source: func() (io.ReadCloser, error) {
			return nil, errors.New("gone")
		},
	})

	if _, err := l.Load(t.Context(), domain.NewUnitIdentity("App", "1.0"), p); err == nil {
		t.Fatal("expected an error for an unreadable resource")
	}
}

func TestModulesSortedByName(t *testing.T) {
	table := memloader.NewTable()
	l := memloader.New(table, fs.NewHasher(), nil)
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		if _, err := l.Load(t.Context(), domain.NewUnitIdentity(name, "1.0"), payload(name)); err != nil {
			t.Fatalf("Load %s: %v", name, err)
		}
	}

	modules := table.Modules()
	want := []string{"Alpha", "Mid", "Zeta"}
	for i, m := range modules {
		if m.Name.Name.String() != want[i] {
			t.Errorf("modules[%d] = %s, want %s", i, m.Name, want[i])
		}
	}
}
