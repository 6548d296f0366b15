package config

// kilnfile mirrors the kiln.yaml document. All fields are optional except
// the root unit; defaults are applied during validation.
type kilnfile struct {
	Version     string        `yaml:"version"`
	Application string        `yaml:"application"`
	Root        string        `yaml:"root"`
	Platform    string        `yaml:"platform"`
	SearchRoots []string      `yaml:"searchRoots"`
	Watch       watchDTO      `yaml:"watch"`
	Supervisor  supervisorDTO `yaml:"supervisor"`
}

type watchDTO struct {
	Enabled         *bool  `yaml:"enabled"`
	Debounce        string `yaml:"debounce"`
	WaitForDebugger bool   `yaml:"waitForDebugger"`
}

type supervisorDTO struct {
	IdleTimeout string `yaml:"idleTimeout"`
}
