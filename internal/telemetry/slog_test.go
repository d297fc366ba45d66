package telemetry

import (
	"context"
	"log/slog"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo}, // unknown falls back to info
	}

	for _, tc := range cases {
		if got := LevelFromString(tc.in); got != tc.want {
			t.Errorf("LevelFromString(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupLogger_InstallsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	SetupLogger("json", "debug")

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default logger does not have debug enabled after SetupLogger(json, debug)")
	}

	SetupLogger("text", "error")
	if slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("default logger still has info enabled after SetupLogger(text, error)")
	}
}
