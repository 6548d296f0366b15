// Package domain contains the core domain models for the build-unit host:
// unit identities, the resolution graph, compilation results and loadable
// payloads.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// UnitIdentity uniquely identifies a build unit within a single resolution.
// Equality is by name and version.
type UnitIdentity struct {
	Name    InternedString
	Version InternedString
}

// NewUnitIdentity creates a UnitIdentity from raw name and version strings.
func NewUnitIdentity(name, version string) UnitIdentity {
	return UnitIdentity{
		Name:    NewInternedString(name),
		Version: NewInternedString(version),
	}
}

// ParseUnitIdentity parses an identity in "name@version" form.
// The version part is optional; "name" alone matches any version.
func ParseUnitIdentity(s string) (UnitIdentity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnitIdentity{}, zerr.New("empty unit identity")
	}
	name, version, _ := strings.Cut(s, "@")
	if name == "" {
		return UnitIdentity{}, zerr.With(zerr.New("unit identity has no name"), "identity", s)
	}
	return NewUnitIdentity(name, version), nil
}

// String renders the identity in "name@version" form, or just the name when
// no version is set.
func (id UnitIdentity) String() string {
	if id.Version.String() == "" {
		return id.Name.String()
	}
	return id.Name.String() + "@" + id.Version.String()
}

// IsZero reports whether the identity is the zero value.
func (id UnitIdentity) IsZero() bool {
	return id.Name.String() == "" && id.Version.String() == ""
}

// Satisfies reports whether a unit carrying this identity satisfies the
// requested one. Names must match exactly; an empty requested version
// matches any version.
func (id UnitIdentity) Satisfies(requested UnitIdentity) bool {
	if id.Name != requested.Name {
		return false
	}
	return requested.Version.String() == "" || id.Version == requested.Version
}

// TargetPlatform identifies the runtime a unit is resolved and compiled for.
// It is opaque to the pipeline; only providers interpret it.
type TargetPlatform struct {
	Family  InternedString
	Version InternedString
}

// ParseTargetPlatform parses a platform descriptor in "family-version" form
// (e.g. "net-x"). A bare family with no dash is accepted.
func ParseTargetPlatform(s string) (TargetPlatform, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TargetPlatform{}, zerr.New("empty target platform")
	}
	family, version, _ := strings.Cut(s, "-")
	if family == "" {
		return TargetPlatform{}, zerr.With(zerr.New("target platform has no family"), "platform", s)
	}
	return TargetPlatform{
		Family:  NewInternedString(family),
		Version: NewInternedString(version),
	}, nil
}

// String renders the descriptor in "family-version" form.
func (p TargetPlatform) String() string {
	if p.Version.String() == "" {
		return p.Family.String()
	}
	return p.Family.String() + "-" + p.Version.String()
}

// IsZero reports whether the platform is the zero value.
func (p TargetPlatform) IsZero() bool {
	return p.Family.String() == "" && p.Version.String() == ""
}
