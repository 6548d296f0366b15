package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// ModuleLoader is one loader variant. Variants are tried in registration
// order until one returns a non-nil module; (nil, nil) means the variant
// cannot handle the payload and the next one is tried.
//
//go:generate go run go.uber.org/mock/mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type ModuleLoader interface {
	Load(ctx context.Context, name domain.UnitIdentity, payload *domain.Payload) (*domain.LoadedModule, error)
}
