package domain

// BuildStep describes how a unit's sources are turned into a binary artifact.
type BuildStep struct {
	// Command is the build command and its arguments, run in the unit directory.
	Command []string

	// Output is the path of the produced binary, relative to the unit directory.
	Output string

	// Symbols is the optional path of an auxiliary debug-symbol stream.
	Symbols string

	// NeutralArtifacts are paths of platform-neutral reference artifacts the
	// build produces, relative to the unit directory. Dependent units embed
	// them as publicly visible resources.
	NeutralArtifacts []string
}

// ResourceFiles lists a unit's declared resources by kind.
type ResourceFiles struct {
	// Strings are structured string-resource files (YAML key/value tables).
	Strings []string

	// Files are arbitrary files embedded verbatim.
	Files []string
}

// UnitManifest is a located unit's declaration: identity, references,
// platform constraints and build recipe. It is produced by a unit provider
// and consumed by the compiler and the resource providers.
type UnitManifest struct {
	Identity UnitIdentity

	// References are the declared project references, in declaration order.
	References []UnitIdentity

	// Platforms constrains the platforms the unit supports. Empty means any.
	Platforms []TargetPlatform

	// Dir is the absolute physical directory the manifest was loaded from.
	Dir string

	Build     BuildStep
	Resources ResourceFiles
}

// SupportsPlatform reports whether the unit can be resolved for the given
// target platform.
func (m *UnitManifest) SupportsPlatform(platform TargetPlatform) bool {
	if len(m.Platforms) == 0 {
		return true
	}
	for _, p := range m.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}
