package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ManifestFilename is the unit declaration file looked up in every candidate
// directory.
const ManifestFilename = "unit.yaml"

// manifestDTO mirrors the unit.yaml document.
type manifestDTO struct {
	Name       string   `yaml:"name"`
	Version    string   `yaml:"version"`
	References []string `yaml:"references"`
	Platforms  []string `yaml:"platforms"`
	Build      struct {
		Command   []string `yaml:"command"`
		Output    string   `yaml:"output"`
		Symbols   string   `yaml:"symbols"`
		Artifacts []string `yaml:"artifacts"`
	} `yaml:"build"`
	Resources struct {
		Strings []string `yaml:"strings"`
		Files   []string `yaml:"files"`
	} `yaml:"resources"`
}

// ReadManifest parses the unit.yaml inside dir into a validated manifest.
func ReadManifest(dir string) (*domain.UnitManifest, error) {
	path := filepath.Join(dir, ManifestFilename)
	data, err := os.ReadFile(path) //nolint:gosec // path derives from configured search roots
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read unit manifest")
	}

	var dto manifestDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse unit manifest"), "path", path)
	}
	if dto.Name == "" {
		return nil, zerr.With(zerr.New("unit manifest has no name"), "path", path)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve unit directory"), "path", dir)
	}

	m := &domain.UnitManifest{
		Identity: domain.NewUnitIdentity(dto.Name, dto.Version),
		Dir:      abs,
		Build: domain.BuildStep{
			Command:          dto.Build.Command,
			Output:           dto.Build.Output,
			Symbols:          dto.Build.Symbols,
			NeutralArtifacts: dto.Build.Artifacts,
		},
		Resources: domain.ResourceFiles{
			Strings: dto.Resources.Strings,
			Files:   dto.Resources.Files,
		},
	}

	for _, ref := range dto.References {
		id, err := domain.ParseUnitIdentity(ref)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid reference"), "path", path)
		}
		m.References = append(m.References, id)
	}
	for _, p := range dto.Platforms {
		platform, err := domain.ParseTargetPlatform(p)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid platform"), "path", path)
		}
		m.Platforms = append(m.Platforms, platform)
	}

	return m, nil
}
