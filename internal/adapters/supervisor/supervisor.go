// Package supervisor runs the host as a child process and restarts it
// whenever it exits with the restart code, giving every reload a clean
// process and an empty cache.
package supervisor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// RestartExitCode is the exit code a child uses to request a restart.
const RestartExitCode = 3

// ErrChildIdle is returned when a child produced no output for longer than
// the configured idle timeout and was killed.
var ErrChildIdle = zerr.New("child exceeded idle timeout")

// Supervisor spawns and supervises one child command.
type Supervisor struct {
	policy domain.SupervisorPolicy
	log    ports.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a Supervisor forwarding child output to this process's
// stdout and stderr.
func New(policy domain.SupervisorPolicy, log ports.Logger) *Supervisor {
	return &Supervisor{
		policy: policy,
		log:    log,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetOutput redirects the forwarded child output.
func (s *Supervisor) SetOutput(stdout, stderr io.Writer) {
	s.stdout = stdout
	s.stderr = stderr
}

// Run executes the command, restarting it for as long as it exits with
// RestartExitCode. It returns when the child exits any other way or the
// context is cancelled.
func (s *Supervisor) Run(ctx context.Context, name string, args ...string) error {
	for {
		restart, err := s.runOnce(ctx, name, args...)
		if err != nil {
			return err
		}
		if !restart {
			return nil
		}
		if s.log != nil {
			s.log.Info("child requested restart")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context, name string, args ...string) (restart bool, err error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // the command is the supervised host itself

	var timedOut atomic.Bool
	touch := func() {}
	if s.policy.IdleTimeout > 0 {
		idle := time.AfterFunc(s.policy.IdleTimeout, func() {
			timedOut.Store(true)
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
		})
		defer idle.Stop()
		// Any child output resets the idle window.
		touch = func() { idle.Reset(s.policy.IdleTimeout) }
	}
	cmd.Stdout = &activityWriter{w: s.stdout, touch: touch}
	cmd.Stderr = &activityWriter{w: s.stderr, touch: touch}

	if err := cmd.Start(); err != nil {
		return false, zerr.Wrap(err, "failed to start child")
	}

	waitErr := cmd.Wait()
	if timedOut.Load() {
		return false, ErrChildIdle
	}
	if waitErr == nil {
		return false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if exitErr.ExitCode() == RestartExitCode {
			return true, nil
		}
		return false, zerr.With(zerr.Wrap(waitErr, "child exited"), "exit_code", strconv.Itoa(exitErr.ExitCode()))
	}
	return false, zerr.Wrap(waitErr, "failed to wait for child")
}

type activityWriter struct {
	w     io.Writer
	touch func()
}

func (a *activityWriter) Write(p []byte) (int, error) {
	a.touch()
	return a.w.Write(p)
}
