package host

import (
	"fmt"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

// remediationHint closes every unresolved-dependency report. The wording is
// fixed so operators and scripts can rely on it.
const remediationHint = "Ensure the referenced units are restored for the target platform and that every search root is configured."

// FormatUnresolvedReport renders the single human-readable failure block for
// a set of unresolved nodes: one "Name, Version" line per node in the given
// order, the deduplicated search locations in first-attempt order, and the
// remediation hint.
func FormatUnresolvedReport(nodes []*domain.DependencyNode, platform domain.TargetPlatform) string {
	var b strings.Builder
	b.WriteString("Unable to resolve the following dependencies:\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "  %s, %s\n", n.Identity.Name, n.Identity.Version)
	}

	fmt.Fprintf(&b, "Searched locations for %s:\n", platform)
	seen := make(map[string]bool)
	for _, n := range nodes {
		for _, loc := range n.SearchedLocations {
			if seen[loc] {
				continue
			}
			seen[loc] = true
			b.WriteString("  " + loc + "\n")
		}
	}

	b.WriteString(remediationHint)
	return b.String()
}
