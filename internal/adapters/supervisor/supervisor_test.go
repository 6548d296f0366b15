package supervisor_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.trai.ch/kiln/internal/adapters/supervisor"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestRunRestartsOnRestartCode(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "restarted")
	// First run requests a restart, second run exits cleanly.
	script := "echo run; if [ ! -f " + marker + " ]; then touch " + marker + "; exit 3; fi"

	s := supervisor.New(domain.SupervisorPolicy{}, nil)
	var out bytes.Buffer
	s.SetOutput(&out, &out)

	if err := s.Run(t.Context(), "sh", "-c", script); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Count(out.String(), "run"); got != 2 {
		t.Errorf("child ran %d times, want 2", got)
	}
}

func TestRunReturnsChildFailure(t *testing.T) {
	s := supervisor.New(domain.SupervisorPolicy{}, nil)
	s.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	if err := s.Run(t.Context(), "sh", "-c", "exit 7"); err == nil {
		t.Fatal("expected the child failure to surface")
	}
}

func TestRunKillsIdleChild(t *testing.T) {
	s := supervisor.New(domain.SupervisorPolicy{IdleTimeout: 100 * time.Millisecond}, nil)
	s.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	start := time.Now()
	err := s.Run(t.Context(), "sh", "-c", "sleep 30")
	if !errors.Is(err, supervisor.ErrChildIdle) {
		t.Fatalf("expected ErrChildIdle, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("idle kill took %v", elapsed)
	}
}

func TestOutputKeepsChildAlive(t *testing.T) {
	s := supervisor.New(domain.SupervisorPolicy{IdleTimeout: 400 * time.Millisecond}, nil)
	var out bytes.Buffer
	s.SetOutput(&out, &out)

	// Emits every 200ms for ~1s: longer than the idle window, but never
	// quiet long enough to be killed.
	script := "for i in 1 2 3 4 5; do echo tick; sleep 0.2; done"
	if err := s.Run(t.Context(), "sh", "-c", script); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Count(out.String(), "tick"); got != 5 {
		t.Errorf("saw %d ticks, want 5", got)
	}
}
