package domain

import "time"

// WatchPolicy configures the file-change-driven restart protocol.
type WatchPolicy struct {
	// Enabled installs a real change notifier; when false a no-op notifier
	// is used and no event ever fires.
	Enabled bool

	// Debounce is the window over which rapid change events are coalesced.
	Debounce time.Duration

	// WaitForDebugger makes a shutdown request pause until a debugger
	// signal before the process exits.
	WaitForDebugger bool
}

// SupervisorPolicy configures the out-of-process watchdog runner.
type SupervisorPolicy struct {
	// IdleTimeout kills a child that produced no output for this long.
	// Zero disables the timeout.
	IdleTimeout time.Duration
}

// HostConfig is the validated host configuration a config loader produces.
type HostConfig struct {
	// Application is the name requested at the entry-point boundary.
	Application string

	// Root is the root build unit. Zero when no root is configured.
	Root UnitIdentity

	// Platform is the target platform every unit is resolved for.
	Platform TargetPlatform

	// SearchRoots are the directories local build units are searched in,
	// in precedence order.
	SearchRoots []string

	Watch      WatchPolicy
	Supervisor SupervisorPolicy
}
