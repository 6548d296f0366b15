// Package resources implements the resource provider capability: string
// tables canonicalized from YAML, and files embedded verbatim.
package resources

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// StringsProvider serves a unit's declared string-resource files. Each file
// is a YAML key/value table; the served bytes are canonicalized (keys
// sorted) so identical tables produce identical payloads regardless of
// declaration order.
type StringsProvider struct{}

// NewStringsProvider creates a StringsProvider.
func NewStringsProvider() *StringsProvider {
	return &StringsProvider{}
}

// Resources reads and canonicalizes every declared string table. Logical
// names are the file base names.
func (p *StringsProvider) Resources(manifest *domain.UnitManifest) ([]domain.ResourceDescriptor, error) {
	var out []domain.ResourceDescriptor
	for _, rel := range manifest.Resources.Strings {
		path := filepath.Join(manifest.Dir, rel)
		canonical, err := canonicalizeTable(path)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ResourceDescriptor{
			LogicalName: filepath.Base(rel),
			Visibility:  domain.ResourcePrivate,
			Source: func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(canonical)), nil
			},
		})
	}
	return out, nil
}

func canonicalizeTable(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the unit manifest
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read string table")
	}

	var table map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse string table"), "path", path)
	}

	// yaml.Marshal emits map keys sorted, which is the canonical form.
	canonical, err := yaml.Marshal(table)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to canonicalize string table"), "path", path)
	}
	return canonical, nil
}

var _ ports.ResourceProvider = (*StringsProvider)(nil)
