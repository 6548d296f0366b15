// Package app implements the application layer for kiln.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.trai.ch/kiln/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/reload"     //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/shell"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/supervisor" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/watcher"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/assembler"
	"go.trai.ch/kiln/internal/engine/cache"
	"go.trai.ch/kiln/internal/engine/loader"
	"go.trai.ch/kiln/internal/engine/resolver"
	"go.trai.ch/kiln/internal/host"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	tracer       ports.Tracer
	loaders      []ports.ModuleLoader
	providers    []ports.ResourceProvider
	walker       *fs.Walker
	hasher       *fs.Hasher
	log          ports.Logger

	stdout io.Writer
}

// New creates a new App instance.
func New(
	configLoader ports.ConfigLoader,
	tracer ports.Tracer,
	loaders []ports.ModuleLoader,
	providers []ports.ResourceProvider,
	walker *fs.Walker,
	hasher *fs.Hasher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: configLoader,
		tracer:       tracer,
		loaders:      loaders,
		providers:    providers,
		walker:       walker,
		hasher:       hasher,
		log:          log,
		stdout:       os.Stdout,
	}
}

// SetOutput redirects the human-readable output. Used for testing.
func (a *App) SetOutput(w io.Writer) {
	a.stdout = w
}

// RunOptions carries the per-invocation flags for Run.
type RunOptions struct {
	// ConfigPath is the kiln.yaml file or the directory containing it.
	ConfigPath string

	// NoWatch disables the file watcher even when the configuration
	// enables it.
	NoWatch bool

	// WaitForDebugger pauses restart requests until a debugger attaches.
	WaitForDebugger bool
}

// Run boots a host for the configured root unit: it walks the dependency
// graph, compiles and loads the entry module, then, with watching enabled,
// blocks until a source change requests a restart or the context is
// cancelled. A restart request surfaces as ErrHostShutdown so the process
// owner can exit with the restart code.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	cfg, h, err := a.boot(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	entry, err := h.GetEntryPoint(ctx, cfg.Application)
	if err != nil {
		a.printReport(h)
		return err
	}
	if entry == nil {
		fmt.Fprintln(a.stdout, "no root unit configured, nothing to load")
		return nil
	}
	fmt.Fprintf(a.stdout, "%s ready: %s (%s)\n", cfg.Application, entry.Name, cfg.Platform)

	if opts.NoWatch || !cfg.Watch.Enabled {
		return nil
	}
	return a.watch(ctx, cfg, opts)
}

// Resolve walks the dependency graph and prints it without compiling or
// loading anything.
func (a *App) Resolve(ctx context.Context, configPath string) error {
	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return zerr.Wrap(err, "loading configuration")
	}
	if cfg.Root.IsZero() {
		fmt.Fprintln(a.stdout, "no root unit configured")
		return nil
	}

	locator := fs.NewLocator(cfg.SearchRoots, a.log)
	res := resolver.New([]ports.UnitProvider{locator}, a.log)
	graph, err := res.Resolve(ctx, cfg.Root, cfg.Platform)
	if err != nil {
		return zerr.Wrap(err, "walking dependency graph")
	}

	for node := range graph.Walk() {
		if !node.Resolved {
			continue
		}
		fmt.Fprintf(a.stdout, "%s  %s\n", node.Identity, node.Path)
	}
	if unresolved := graph.Unresolved(); len(unresolved) > 0 {
		fmt.Fprintln(a.stdout, host.FormatUnresolvedReport(unresolved, cfg.Platform))
		return domain.ErrUnresolvedDependencies
	}
	return nil
}

// Supervise runs the current executable as a supervised child and restarts
// it every time it exits with the restart code.
func (a *App) Supervise(ctx context.Context, configPath string, childArgs []string) error {
	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return zerr.Wrap(err, "loading configuration")
	}
	exe, err := os.Executable()
	if err != nil {
		return zerr.Wrap(err, "locating executable")
	}

	sup := supervisor.New(cfg.Supervisor, a.log)
	sup.SetOutput(a.stdout, os.Stderr)
	return sup.Run(ctx, exe, childArgs...)
}

// boot loads the configuration and assembles an initialized host around it.
func (a *App) boot(ctx context.Context, configPath string) (*domain.HostConfig, *host.Host, error) {
	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "loading configuration")
	}

	locator := fs.NewLocator(cfg.SearchRoots, a.log)
	res := resolver.New([]ports.UnitProvider{locator}, a.log)
	compiler := shell.NewCompiler(locator, a.hasher, a.log)
	units := cache.New(compiler, a.tracer, a.log)
	asm := assembler.New(a.providers, a.log)
	pipeline := loader.New(asm, a.loaders, a.tracer, a.log)

	h := host.New(cfg, res, units, pipeline, a.log)
	if err := h.Initialize(ctx); err != nil {
		a.printReport(h)
		return nil, nil, err
	}
	return cfg, h, nil
}

// watch blocks until a debounced source change requests a restart or the
// context is cancelled.
func (a *App) watch(ctx context.Context, cfg *domain.HostConfig, opts RunOptions) error {
	notifier, err := watcher.NewNotifier(a.walker, a.log)
	if err != nil {
		return zerr.Wrap(err, "starting file watcher")
	}

	policy := cfg.Watch
	policy.WaitForDebugger = policy.WaitForDebugger || opts.WaitForDebugger

	signal := host.NewShutdownSignal()
	controller := reload.NewController(notifier, signal, policy, a.log)
	if err := controller.Start(ctx, cfg.SearchRoots); err != nil {
		_ = notifier.Close()
		return zerr.Wrap(err, "watching search roots")
	}
	defer func() {
		_ = controller.Close()
	}()

	a.log.Info(fmt.Sprintf("watching %d search root(s) for changes", len(cfg.SearchRoots)))

	select {
	case <-ctx.Done():
		return nil
	case req := <-signal.Requests():
		if req.WaitForDebugger {
			a.log.Info("restart pending, waiting for debugger to attach")
		}
		return zerr.Wrap(domain.ErrHostShutdown, "source change requested a restart")
	}
}

func (a *App) printReport(h *host.Host) {
	if report := h.Report(); report != "" {
		fmt.Fprintln(a.stdout, report)
	}
}
