package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormat(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(NewHandler(&out, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Info("Channel 1 is sorted", "module", "demux")
	log.Debug("hidden")
	log.With("run", 17).Warn("late hit")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if !strings.HasSuffix(lines[0], "[INFO] [demux] Channel 1 is sorted") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "[WARN] [17] late hit") {
		t.Errorf("unexpected line %q", lines[1])
	}
}

func TestLoggerVerbosity(t *testing.T) {
	quiet := NewLogger(0)
	if quiet.InfoLog.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("info should be off at verbosity 0")
	}
	verbose := NewLogger(1)
	if !verbose.InfoLog.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("debug should be on at verbosity 1")
	}
}
