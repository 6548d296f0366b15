package resources

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// FilesProvider serves a unit's declared resource files verbatim. Register
// it after StringsProvider so an explicit file wins over a string table
// with the same name.
type FilesProvider struct{}

// NewFilesProvider creates a FilesProvider.
func NewFilesProvider() *FilesProvider {
	return &FilesProvider{}
}

// Resources returns one descriptor per declared file. Content is read
// lazily when the payload is written.
func (p *FilesProvider) Resources(manifest *domain.UnitManifest) ([]domain.ResourceDescriptor, error) {
	var out []domain.ResourceDescriptor
	for _, rel := range manifest.Resources.Files {
		path := filepath.Join(manifest.Dir, rel)
		if _, err := os.Stat(path); err != nil {
			return nil, zerr.Wrap(err, "declared resource file missing")
		}
		out = append(out, domain.ResourceDescriptor{
			LogicalName: filepath.Base(rel),
			Visibility:  domain.ResourcePrivate,
			Source: func() (io.ReadCloser, error) {
				return os.Open(path) //nolint:gosec // path comes from the unit manifest
			},
		})
	}
	return out, nil
}

var _ ports.ResourceProvider = (*FilesProvider)(nil)
