package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.trai.ch/kiln/internal/adapters/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFilename)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
version: "1"
application: demo
root: App@1.0
platform: net-9
searchRoots:
  - units
  - /opt/kiln/units
watch:
  debounce: 150ms
  waitForDebugger: true
supervisor:
  idleTimeout: 2m
`)

	cfg, err := config.NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Application != "demo" {
		t.Errorf("application = %q", cfg.Application)
	}
	if got := cfg.Root.String(); got != "App@1.0" {
		t.Errorf("root = %q", got)
	}
	if got := cfg.Platform.String(); got != "net-9" {
		t.Errorf("platform = %q", got)
	}
	wantRoots := []string{filepath.Join(filepath.Dir(path), "units"), "/opt/kiln/units"}
	if len(cfg.SearchRoots) != 2 || cfg.SearchRoots[0] != wantRoots[0] || cfg.SearchRoots[1] != wantRoots[1] {
		t.Errorf("search roots = %v, want %v", cfg.SearchRoots, wantRoots)
	}
	if !cfg.Watch.Enabled || cfg.Watch.Debounce != 150*time.Millisecond || !cfg.Watch.WaitForDebugger {
		t.Errorf("watch policy = %+v", cfg.Watch)
	}
	if cfg.Supervisor.IdleTimeout != 2*time.Minute {
		t.Errorf("idle timeout = %v", cfg.Supervisor.IdleTimeout)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
root: App@1.0
platform: net-9
`)

	cfg, err := config.NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Application != "App" {
		t.Errorf("application defaults to root name, got %q", cfg.Application)
	}
	if !cfg.Watch.Enabled {
		t.Error("watching defaults to enabled")
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("debounce = %v, want 300ms", cfg.Watch.Debounce)
	}
	if len(cfg.SearchRoots) != 1 || cfg.SearchRoots[0] != filepath.Dir(path) {
		t.Errorf("search roots default to the config directory, got %v", cfg.SearchRoots)
	}
}

func TestLoadFromDirectory(t *testing.T) {
	path := writeConfig(t, `
root: App@1.0
platform: net-9
`)

	cfg, err := config.NewLoader(nil).Load(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root.IsZero() {
		t.Error("expected the directory lookup to find kiln.yaml")
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"missing platform": `root: App@1.0`,
		"bad debounce": `
root: App@1.0
platform: net-9
watch:
  debounce: soon
`,
		"negative debounce": `
root: App@1.0
platform: net-9
watch:
  debounce: -1s
`,
		"bad idle timeout": `
root: App@1.0
platform: net-9
supervisor:
  idleTimeout: forever
`,
		"not yaml": "\t{{",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, content)
			if _, err := config.NewLoader(nil).Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.NewLoader(nil).Load(filepath.Join(t.TempDir(), "kiln.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
