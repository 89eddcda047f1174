package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerPrintsModuleAndAttrs(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, false, nil)).With("module", "surface")

	logger.Info("context created", "version", "OpenGL ES 2.0")

	line := out.String()
	if !strings.Contains(line, "INFO [surface] context created") {
		t.Errorf("unexpected line %q", line)
	}
	if !strings.Contains(line, "version=OpenGL ES 2.0") {
		t.Errorf("attribute missing from %q", line)
	}
	if strings.Contains(line, "\033[") {
		t.Errorf("colour codes emitted with colour disabled: %q", line)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, true, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("hidden")
	if out.Len() != 0 {
		t.Fatalf("info record was printed at warn level: %q", out.String())
	}

	logger.Error("shown")
	if !strings.Contains(out.String(), "shown") {
		t.Errorf("error record missing: %q", out.String())
	}
	if !strings.Contains(out.String(), "\033[91m") {
		t.Errorf("error level not coloured: %q", out.String())
	}
}

func TestHandlerGroups(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, false, nil)).WithGroup("frame")

	logger.Info("rendered", "n", 3)

	if !strings.Contains(out.String(), "frame=map[n:3]") {
		t.Errorf("grouped attribute missing: %q", out.String())
	}
}
