package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("IRIS_BASE_URL", "http://iris.local")
	t.Setenv("IRIS_WS_URL", "ws://iris.local/ws")
	t.Setenv("BOT_PREFIX", "!")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxConcurrentGames != 200 || cfg.EgressMode != "auto" || cfg.EgressDryRun {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	want := PuzzleConfig{DefaultLevel: 1, DefaultSize: 3, SessionTTLSec: 3600}
	if diff := cmp.Diff(want, cfg.Puzzle); diff != "" {
		t.Fatalf("puzzle defaults (-want +got):\n%s", diff)
	}
	if cfg.Puzzle.SessionTTL() != time.Hour {
		t.Fatalf("ttl = %v", cfg.Puzzle.SessionTTL())
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ROOMS", " room1, ,room2 ")
	t.Setenv("PUZZLE_DEFAULT_LEVEL", "2")
	t.Setenv("PUZZLE_DEFAULT_SIZE", "5")
	t.Setenv("PUZZLE_SESSION_TTL", "60")
	t.Setenv("MAX_CONCURRENT_GAMES", "-3")
	t.Setenv("EGRESS_MODE", "WS")
	t.Setenv("EGRESS_DRYRUN", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"room1", "room2"}, cfg.AllowedRooms); diff != "" {
		t.Fatalf("rooms (-want +got):\n%s", diff)
	}
	if cfg.Puzzle.DefaultLevel != 2 || cfg.Puzzle.DefaultSize != 5 || cfg.Puzzle.SessionTTLSec != 60 {
		t.Fatalf("puzzle overrides not applied: %+v", cfg.Puzzle)
	}
	if cfg.MaxConcurrentGames != 200 {
		t.Fatalf("non-positive cap should keep default, got %d", cfg.MaxConcurrentGames)
	}
	if cfg.EgressMode != "ws" || !cfg.EgressDryRun {
		t.Fatalf("egress = %s dryrun=%v", cfg.EgressMode, cfg.EgressDryRun)
	}
}

func TestLoadRequiresBridge(t *testing.T) {
	t.Setenv("IRIS_BASE_URL", "")
	t.Setenv("IRIS_WS_URL", "ws://x")
	t.Setenv("BOT_PREFIX", "!")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing IRIS_BASE_URL error")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"level":  {"PUZZLE_DEFAULT_LEVEL", "3"},
		"size":   {"PUZZLE_DEFAULT_SIZE", "6"},
		"egress": {"EGRESS_MODE", "carrier-pigeon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoadLocalIgnoresBridge(t *testing.T) {
	t.Setenv("IRIS_BASE_URL", "")
	t.Setenv("PUZZLE_DEFAULT_SIZE", "4")
	p, err := LoadLocal()
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if p.DefaultSize != 4 {
		t.Fatalf("size = %d", p.DefaultSize)
	}
}
