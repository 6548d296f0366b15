// Package shell implements the compiler capability by running each unit's
// declared build command with os/exec and collecting its outputs.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Compiler implements ports.Compiler. It is safe for concurrent use across
// distinct identities; builds for the same identity are serialized by the
// compilation cache.
type Compiler struct {
	provider ports.UnitProvider
	hasher   *fs.Hasher
	log      ports.Logger
}

// NewCompiler creates a Compiler locating units through the given provider.
func NewCompiler(provider ports.UnitProvider, hasher *fs.Hasher, log ports.Logger) *Compiler {
	return &Compiler{provider: provider, hasher: hasher, log: log}
}

// Compile locates and builds one unit. A missing unit returns (nil, nil):
// the identity is not a compilable unit and resolution falls through to
// other strategies. Build failures are returned as a result carrying error
// diagnostics, not as an error; only infrastructure faults use the error
// return.
func (c *Compiler) Compile(ctx context.Context, id domain.UnitIdentity, platform domain.TargetPlatform, resolve ports.ReferenceResolver) (*domain.CompilationResult, error) {
	manifest, _, err := c.provider.Locate(id, platform)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, nil
	}

	res := &domain.CompilationResult{
		Identity: manifest.Identity,
		Manifest: manifest,
	}

	// References compile first so their results are cached before this
	// unit builds against them.
	for _, ref := range manifest.References {
		child, err := resolve(ctx, ref, platform)
		if err != nil {
			return nil, err
		}
		if child == nil {
			// A package reference satisfied without source compilation.
			continue
		}
		res.References = append(res.References, child)
		if child.HasErrors() {
			res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
				Severity: domain.SeverityError,
				Message:  "reference " + ref.String() + " failed to compile",
			})
		}
	}
	if res.HasErrors() {
		return res, nil
	}

	if err := c.build(ctx, manifest, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Compiler) build(ctx context.Context, manifest *domain.UnitManifest, res *domain.CompilationResult) error {
	step := manifest.Build
	if len(step.Command) == 0 {
		res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
			Severity: domain.SeverityError,
			Message:  "unit declares no build command",
			Location: filepath.Join(manifest.Dir, fs.ManifestFilename),
		})
		return nil
	}

	cmd := exec.CommandContext(ctx, step.Command[0], step.Command[1:]...) //nolint:gosec // command comes from the unit manifest
	cmd.Dir = manifest.Dir
	cmd.Stdout = &logWriter{log: c.log}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res.Diagnostics = append(res.Diagnostics, parseDiagnostics(stderr.String())...)

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return zerr.With(zerr.Wrap(runErr, "failed to run build command"), "unit", manifest.Identity.String())
		}
		if !res.HasErrors() {
			// The compiler died without a parseable error line; keep the
			// failure visible.
			res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
				Severity: domain.SeverityError,
				Message:  "build command exited with code " + strconv.Itoa(exitErr.ExitCode()),
			})
		}
		return nil
	}
	if res.HasErrors() {
		return nil
	}

	return c.collectOutputs(manifest, res)
}

func (c *Compiler) collectOutputs(manifest *domain.UnitManifest, res *domain.CompilationResult) error {
	step := manifest.Build
	binary, err := os.ReadFile(filepath.Join(manifest.Dir, step.Output)) //nolint:gosec // path comes from the unit manifest
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
			Severity: domain.SeverityError,
			Message:  "declared build output missing: " + err.Error(),
			Location: step.Output,
		})
		return nil
	}
	res.Binary = binary
	res.Fingerprint = c.hasher.FingerprintBytes(binary)

	if step.Symbols != "" {
		symbols, err := os.ReadFile(filepath.Join(manifest.Dir, step.Symbols)) //nolint:gosec // path comes from the unit manifest
		if err == nil {
			res.Symbols = symbols
		} else if c.log != nil {
			c.log.Warn("debug symbols declared but unreadable: " + err.Error())
		}
	}

	for _, artifact := range step.NeutralArtifacts {
		data, err := os.ReadFile(filepath.Join(manifest.Dir, artifact)) //nolint:gosec // path comes from the unit manifest
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read neutral artifact"), "unit", manifest.Identity.String())
		}
		name := strings.TrimSuffix(filepath.Base(artifact), filepath.Ext(artifact))
		res.NeutralArtifacts = append(res.NeutralArtifacts, domain.NeutralArtifact{
			Name: domain.NewInternedString(name),
			Data: data,
		})
	}
	return nil
}

type logWriter struct {
	log ports.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	if w.log != nil {
		for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
			w.log.Info(line)
		}
	}
	return len(p), nil
}
