package ports

import "go.trai.ch/kiln/internal/core/domain"

// ResourceProvider produces the declared resources of a unit. Providers are
// composed in registration order; when two providers yield the same logical
// name the last-registered provider wins.
//
//go:generate go run go.uber.org/mock/mockgen -source=resources.go -destination=mocks/mock_resources.go -package=mocks
type ResourceProvider interface {
	Resources(manifest *domain.UnitManifest) ([]domain.ResourceDescriptor, error)
}
