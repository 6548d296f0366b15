package logger_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.trai.ch/kiln/internal/adapters/logger"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Info("graph walked")
	lg.Warn("resource override")
	lg.Error(os.ErrPermission)

	out := buf.String()
	for _, want := range []string{
		"INFO", "graph walked",
		"WARN", "resource override",
		"ERROR", "permission denied",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSetOutputRedirects(t *testing.T) {
	var first, second bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&first)
	lg.Info("before")
	lg.SetOutput(&second)
	lg.Info("after")

	if strings.Contains(first.String(), "after") {
		t.Error("old destination still receiving messages")
	}
	if !strings.Contains(second.String(), "after") {
		t.Error("new destination missing message")
	}
}
