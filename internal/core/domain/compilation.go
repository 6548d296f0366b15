package domain

import "fmt"

// Severity classifies a compiler diagnostic.
type Severity int

const (
	// SeverityHidden is a diagnostic suppressed from normal output.
	SeverityHidden Severity = iota
	// SeverityInfo is an informational diagnostic.
	SeverityInfo
	// SeverityWarning does not prevent a unit from loading.
	SeverityWarning
	// SeverityError makes the compilation result ineligible for loading.
	SeverityError
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityHidden:
		return "hidden"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a compiler-produced message. Its severity determines whether
// the owning result may be loaded.
type Diagnostic struct {
	Severity Severity
	Message  string
	Location string
}

// String formats the diagnostic as "location: severity: message", dropping
// the location when the compiler did not supply one.
func (d Diagnostic) String() string {
	if d.Location == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// NeutralArtifact is a platform-neutral binary byproduct of compiling one
// unit, embedded as a resource into every dependent unit's payload.
type NeutralArtifact struct {
	Name InternedString
	Data []byte
}

// CompilationResult is the outcome of compiling one build unit. A result is
// produced at most once per cache lifetime and shared read-only by every
// consumer; callers must not mutate it.
type CompilationResult struct {
	Identity UnitIdentity

	// Manifest is the unit declaration the result was compiled from.
	// Nil when the unit was satisfied without source compilation.
	Manifest *UnitManifest

	// Binary is the primary binary output. Nil when compilation failed.
	Binary []byte

	// Symbols is the optional debug-symbol stream accompanying Binary.
	Symbols []byte

	// Diagnostics are ordered as the compiler produced them.
	Diagnostics []Diagnostic

	// References holds the compilation results of the unit's project
	// references, one per reference, in declaration order.
	References []*CompilationResult

	// NeutralArtifacts are the platform-neutral artifacts this unit's
	// compilation produced.
	NeutralArtifacts []NeutralArtifact

	// Fingerprint is the xxhash of Binary, zero when compilation failed.
	Fingerprint uint64
}

// HasErrors reports whether any diagnostic carries failing severity.
func (r *CompilationResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Succeeded reports whether the result carries a loadable binary.
func (r *CompilationResult) Succeeded() bool {
	return r.Binary != nil && !r.HasErrors()
}

// DiagnosticMessages returns every diagnostic formatted for display, in the
// order the compiler produced them.
func (r *CompilationResult) DiagnosticMessages() []string {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	out := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		out[i] = d.String()
	}
	return out
}
