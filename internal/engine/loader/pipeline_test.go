package loader_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/assembler"
	"go.trai.ch/kiln/internal/engine/loader"
	"go.uber.org/mock/gomock"
)

func compiled(name string) *domain.CompilationResult {
	return &domain.CompilationResult{
		Identity: domain.NewUnitIdentity(name, "1.0"),
		Binary:   []byte(name),
	}
}

func module(res *domain.CompilationResult) *domain.LoadedModule {
	return &domain.LoadedModule{
		Name:        res.Identity,
		Fingerprint: res.Fingerprint,
		LoadedAt:    time.Now(),
	}
}

func TestFailingResultShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	variant := mocks.NewMockModuleLoader(ctrl)
	// No Load expectation: a failing result must never reach a loader.

	res := compiled("Broken")
	res.Binary = nil
	res.Diagnostics = []domain.Diagnostic{
		{Severity: domain.SeverityError, Message: "undefined symbol", Location: "main.x:3"},
		{Severity: domain.SeverityWarning, Message: "unused reference"},
	}

	p := loader.New(failingAssembler{}, []ports.ModuleLoader{variant}, nil, nil)
	result := p.Load(t.Context(), res)

	if !result.Failed() {
		t.Fatal("expected a failed load result")
	}
	want := []string{
		"main.x:3: error: undefined symbol",
		"warning: unused reference",
	}
	if len(result.Errors) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(result.Errors), len(want), result.Errors)
	}
	for i, msg := range want {
		if result.Errors[i] != msg {
			t.Errorf("error[%d] = %q, want %q", i, result.Errors[i], msg)
		}
	}
}

func TestVariantsTriedInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockModuleLoader(ctrl)
	second := mocks.NewMockModuleLoader(ctrl)
	res := compiled("App")

	gomock.InOrder(
		first.EXPECT().Load(gomock.Any(), res.Identity, gomock.Any()).Return(nil, nil),
		second.EXPECT().Load(gomock.Any(), res.Identity, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.UnitIdentity, _ *domain.Payload) (*domain.LoadedModule, error) {
				return module(res), nil
			}),
	)

	p := loader.New(assembler.New(nil, nil), []ports.ModuleLoader{first, second}, nil, nil)
	result := p.Load(t.Context(), res)
	if result.Failed() {
		t.Fatalf("expected a loaded module, got errors %v", result.Errors)
	}
	if result.Module.Name != res.Identity {
		t.Errorf("loaded %s, want %s", result.Module.Name, res.Identity)
	}
}

func TestAllVariantsDecline(t *testing.T) {
	ctrl := gomock.NewController(t)
	variant := mocks.NewMockModuleLoader(ctrl)
	variant.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	p := loader.New(assembler.New(nil, nil), []ports.ModuleLoader{variant, variant}, nil, nil)
	result := p.Load(t.Context(), compiled("Orphan"))
	if !result.Failed() {
		t.Fatal("expected a failed load result")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Orphan@1.0") {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestLoaderErrorStopsTheChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockModuleLoader(ctrl)
	second := mocks.NewMockModuleLoader(ctrl)
	first.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("fingerprint conflict"))
	// Second variant must not run after a hard loader error.

	p := loader.New(assembler.New(nil, nil), []ports.ModuleLoader{first, second}, nil, nil)
	result := p.Load(t.Context(), compiled("App"))
	if !result.Failed() {
		t.Fatal("expected a failed load result")
	}
	if !strings.Contains(result.Errors[0], "fingerprint conflict") {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestAssemblerErrorBecomesLoadError(t *testing.T) {
	p := loader.New(failingAssembler{}, nil, nil, nil)
	result := p.Load(t.Context(), compiled("App"))
	if !result.Failed() {
		t.Fatal("expected a failed load result")
	}
	if !strings.Contains(result.Errors[0], "no space left") {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

type failingAssembler struct{}

func (failingAssembler) Assemble(*domain.CompilationResult) (*domain.Payload, error) {
	return nil, errors.New("no space left")
}
