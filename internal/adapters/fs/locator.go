// Package fs provides the file-system adapters: the local unit provider,
// directory walking and content hashing.
package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Locator implements ports.UnitProvider over a set of search roots. For an
// identity it tries, per root, the platform-specific directory first and the
// plain unit directory second, so platform-specialized builds of a unit
// shadow the generic one.
type Locator struct {
	roots []string
	log   ports.Logger
}

// NewLocator creates a Locator over the search roots, in precedence order.
func NewLocator(roots []string, log ports.Logger) *Locator {
	return &Locator{roots: roots, log: log}
}

// Locate finds a unit directory whose manifest satisfies the identity and
// supports the platform. Every tried location is returned, found or not.
func (l *Locator) Locate(id domain.UnitIdentity, platform domain.TargetPlatform) (*domain.UnitManifest, []string, error) {
	var searched []string
	for _, root := range l.roots {
		candidates := []string{
			filepath.Join(root, platform.String(), id.Name.String()),
			filepath.Join(root, id.Name.String()),
		}
		for _, dir := range candidates {
			searched = append(searched, dir)

			manifest, err := ReadManifest(dir)
			if err != nil {
				if isNotExist(err) {
					continue
				}
				return nil, searched, err
			}
			if !manifest.Identity.Satisfies(id) {
				if l.log != nil {
					l.log.Warn("unit at " + dir + " is " + manifest.Identity.String() + ", does not satisfy " + id.String())
				}
				continue
			}
			if !manifest.SupportsPlatform(platform) {
				continue
			}
			return manifest, searched, nil
		}
	}
	return nil, searched, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, fs.ErrNotExist)
}
