package ports

import "go.trai.ch/kiln/internal/core/domain"

// UnitProvider locates build units for a target platform. Providers are
// consulted in registration order: local build units first, then external
// package providers.
//
// Locate returns a nil manifest when no unit satisfies the identity for the
// platform; the returned locations are every path that was tried, in order,
// and are retained for the unresolved-dependency report.
//
//go:generate go run go.uber.org/mock/mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks
type UnitProvider interface {
	Locate(id domain.UnitIdentity, platform domain.TargetPlatform) (manifest *domain.UnitManifest, searched []string, err error)
}
