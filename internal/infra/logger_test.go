package infra

import (
	"log/slog"
	"testing"
)

func TestLogFilename(t *testing.T) {
	cfg := DefaultConfig()
	if got := logFilename(cfg); got != "buda-portfolio.log" {
		t.Errorf("logFilename = %q, want buda-portfolio.log", got)
	}

	cfg.App.Name = "valuation-svc"
	if got := logFilename(cfg); got != "valuation-svc.log" {
		t.Errorf("logFilename = %q, want valuation-svc.log", got)
	}

	cfg.App.Name = ""
	if got := logFilename(cfg); got != "buda-portfolio.log" {
		t.Errorf("logFilename = %q, want fallback name", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
