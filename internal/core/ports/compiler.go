// Package ports defines the capability interfaces the pipeline is built on.
package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// ReferenceResolver obtains the compilation result for a project reference.
// The compilation cache passes itself through here so diamond-shaped graphs
// compile each shared ancestor exactly once.
type ReferenceResolver func(ctx context.Context, id domain.UnitIdentity, platform domain.TargetPlatform) (*domain.CompilationResult, error)

// Compiler is the opaque compilation capability.
//
// Compile returns (nil, nil) when the identity does not name a compilable
// unit; that is a normal signal to fall back to other resolution strategies,
// not an error. Failing diagnostics are returned inside the result alongside
// a nil binary stream, never as an error.
//
// Implementations must be safe to call concurrently for distinct identities
// and must not observably mutate compiler state between calls for the same
// identity within one process lifetime.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	Compile(ctx context.Context, id domain.UnitIdentity, platform domain.TargetPlatform, refs ReferenceResolver) (*domain.CompilationResult, error)
}
