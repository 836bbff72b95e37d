package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "numbot.log")
	logger, err := Build(Options{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Info("puzzle_session_open", zap.String("room", "r1"))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"puzzle_session_open"`) || !strings.Contains(string(b), `"room":"r1"`) {
		t.Fatalf("unexpected log line: %s", b)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_TO_FILE", "false")
	t.Setenv("LOG_FORMAT", "JSON")
	opts := OptionsFromEnv("logs/x.log")
	if opts.File != "" {
		t.Fatalf("file output should be disabled, got %q", opts.File)
	}
	if opts.Format != "json" {
		t.Fatalf("format = %q", opts.Format)
	}
}

func TestSetNilFallsBackToNop(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })
	Set(nil)
	if L() == nil {
		t.Fatalf("global logger must never be nil")
	}
}
