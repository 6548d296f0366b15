package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/kiln/internal/core/domain"
)

func TestResolutionGraph_Add_Duplicate(t *testing.T) {
	g := domain.NewResolutionGraph(domain.NewUnitIdentity("App", "1.0"))

	node := &domain.DependencyNode{
		Identity: domain.NewUnitIdentity("Lib", "1.0"),
		Resolved: true,
		Path:     "/units/Lib",
	}
	if err := g.Add(node); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := &domain.DependencyNode{
		Identity: domain.NewUnitIdentity("Lib", "1.0"),
		Resolved: true,
		Path:     "/elsewhere/Lib",
	}
	err := g.Add(dup)
	if err == nil {
		t.Fatal("expected error when adding the same unit under a different path")
	}
	if !errors.Is(err, domain.ErrDuplicateUnit) {
		t.Errorf("expected ErrDuplicateUnit, got %v", err)
	}
}

func TestResolutionGraph_Walk_Order(t *testing.T) {
	g := domain.NewResolutionGraph(domain.NewUnitIdentity("App", "1.0"))

	names := []string{"App", "B", "A"}
	for _, n := range names {
		node := &domain.DependencyNode{Identity: domain.NewUnitIdentity(n, "1.0"), Resolved: true}
		if err := g.Add(node); err != nil {
			t.Fatalf("failed to add %s: %v", n, err)
		}
	}

	var got []string
	for node := range g.Walk() {
		got = append(got, node.Identity.Name.String())
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(got))
	}
	for i, n := range names {
		if got[i] != n {
			t.Errorf("walk order[%d] = %s, want %s (first-visit order must be preserved)", i, got[i], n)
		}
	}
}

func TestResolutionGraph_Unresolved_Sorted(t *testing.T) {
	g := domain.NewResolutionGraph(domain.NewUnitIdentity("App", "1.0"))

	// Insert unresolved nodes in reverse-alphabetical order.
	for _, n := range []string{"Zeta", "Alpha", "Mid"} {
		node := &domain.DependencyNode{
			Identity:          domain.NewUnitIdentity(n, "1.0"),
			SearchedLocations: []string{"/units/" + n},
		}
		if err := g.Add(node); err != nil {
			t.Fatalf("failed to add %s: %v", n, err)
		}
	}
	resolved := &domain.DependencyNode{Identity: domain.NewUnitIdentity("Ok", "1.0"), Resolved: true}
	if err := g.Add(resolved); err != nil {
		t.Fatalf("failed to add resolved node: %v", err)
	}

	unresolved := g.Unresolved()
	if len(unresolved) != 3 {
		t.Fatalf("expected 3 unresolved nodes, got %d", len(unresolved))
	}

	want := []string{"Alpha", "Mid", "Zeta"}
	for i, n := range unresolved {
		if n.Identity.Name.String() != want[i] {
			t.Errorf("unresolved[%d] = %s, want %s", i, n.Identity.Name, want[i])
		}
	}
}
