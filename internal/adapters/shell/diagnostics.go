package shell

import (
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

var severityTokens = []struct {
	token    string
	severity domain.Severity
}{
	{"error", domain.SeverityError},
	{"warning", domain.SeverityWarning},
	{"info", domain.SeverityInfo},
	{"hidden", domain.SeverityHidden},
}

// parseDiagnostics turns compiler stderr into structured diagnostics, one
// per line, preserving order. Lines follow the conventional
// "location: severity: message" shape; the location is optional. Lines with
// no recognizable severity are kept as informational messages so nothing
// the compiler said is dropped.
func parseDiagnostics(stderr string) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimRight(line, "\r ")
		if line == "" {
			continue
		}
		out = append(out, parseLine(line))
	}
	return out
}

func parseLine(line string) domain.Diagnostic {
	for _, s := range severityTokens {
		marker := s.token + ":"
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return domain.Diagnostic{
				Severity: s.severity,
				Message:  strings.TrimSpace(rest),
			}
		}
		if location, rest, ok := strings.Cut(line, ": "+marker); ok {
			return domain.Diagnostic{
				Severity: s.severity,
				Message:  strings.TrimSpace(rest),
				Location: location,
			}
		}
	}
	return domain.Diagnostic{Severity: domain.SeverityInfo, Message: line}
}
