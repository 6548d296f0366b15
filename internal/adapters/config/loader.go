// Package config provides the kiln.yaml configuration loader.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when no explicit path
// is given.
const DefaultFilename = "kiln.yaml"

const defaultDebounce = 300 * time.Millisecond

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	log ports.Logger
}

// NewLoader creates a Loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{log: log}
}

// Load reads and validates kiln.yaml at the given path. A path naming a
// directory loads DefaultFilename inside it. Relative search roots are
// resolved against the configuration file's directory.
func (l *Loader) Load(path string) (*domain.HostConfig, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file kilnfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	cfg, err := l.validate(&file, filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(err, "config", path)
	}
	return cfg, nil
}

func (l *Loader) validate(file *kilnfile, dir string) (*domain.HostConfig, error) {
	cfg := &domain.HostConfig{
		Application: file.Application,
	}

	if file.Root == "" {
		if l.log != nil {
			l.log.Warn("no root unit configured, entry-point requests will answer nil")
		}
	} else {
		root, err := domain.ParseUnitIdentity(file.Root)
		if err != nil {
			return nil, zerr.Wrap(err, "invalid root unit")
		}
		cfg.Root = root
	}
	if cfg.Application == "" {
		cfg.Application = cfg.Root.Name.String()
	}

	if file.Platform == "" {
		return nil, zerr.New("target platform is required")
	}
	platform, err := domain.ParseTargetPlatform(file.Platform)
	if err != nil {
		return nil, zerr.Wrap(err, "invalid target platform")
	}
	cfg.Platform = platform

	for _, root := range file.SearchRoots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(dir, root)
		}
		cfg.SearchRoots = append(cfg.SearchRoots, filepath.Clean(root))
	}
	if len(cfg.SearchRoots) == 0 {
		cfg.SearchRoots = []string{filepath.Clean(dir)}
	}

	watch, err := l.validateWatch(&file.Watch)
	if err != nil {
		return nil, err
	}
	cfg.Watch = watch

	if file.Supervisor.IdleTimeout != "" {
		timeout, err := time.ParseDuration(file.Supervisor.IdleTimeout)
		if err != nil {
			return nil, zerr.Wrap(err, "invalid supervisor idle timeout")
		}
		cfg.Supervisor.IdleTimeout = timeout
	}

	return cfg, nil
}

func (l *Loader) validateWatch(dto *watchDTO) (domain.WatchPolicy, error) {
	policy := domain.WatchPolicy{
		Enabled:         true,
		Debounce:        defaultDebounce,
		WaitForDebugger: dto.WaitForDebugger,
	}
	if dto.Enabled != nil {
		policy.Enabled = *dto.Enabled
	}
	if dto.Debounce != "" {
		debounce, err := time.ParseDuration(dto.Debounce)
		if err != nil {
			return domain.WatchPolicy{}, zerr.Wrap(err, "invalid watch debounce")
		}
		if debounce <= 0 {
			return domain.WatchPolicy{}, zerr.New("watch debounce must be positive")
		}
		policy.Debounce = debounce
	}
	return policy, nil
}

var _ ports.ConfigLoader = (*Loader)(nil)
