package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string

	XUserID    string
	XUserEmail string
	XSessionID string

	AllowedRooms []string

	Puzzle PuzzleConfig

	MaxConcurrentGames int
	MessagesDir        string

	EgressMode   string
	EgressDryRun bool
}

// PuzzleConfig holds the keys shared by the bot and the terminal client.
type PuzzleConfig struct {
	DefaultLevel  int
	DefaultSize   int
	SessionTTLSec int
}

func (p PuzzleConfig) SessionTTL() time.Duration {
	return time.Duration(p.SessionTTLSec) * time.Second
}

func defaultPuzzle() PuzzleConfig {
	return PuzzleConfig{DefaultLevel: 1, DefaultSize: 3, SessionTTLSec: 3600}
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Puzzle:             defaultPuzzle(),
		MaxConcurrentGames: 200,
		EgressMode:         "auto",
	}

	cfg.IrisBaseURL = env("IRIS_BASE_URL")
	cfg.IrisWSURL = env("IRIS_WS_URL")
	cfg.BotPrefix = env("BOT_PREFIX")

	cfg.XUserID = env("X_USER_ID")
	cfg.XUserEmail = env("X_USER_EMAIL")
	cfg.XSessionID = env("X_SESSION_ID")

	cfg.AllowedRooms = splitList(env("ALLOWED_ROOMS"))
	cfg.MessagesDir = env("MESSAGES_DIR")

	if n, ok := positiveInt("MAX_CONCURRENT_GAMES"); ok {
		cfg.MaxConcurrentGames = n
	}
	if v := strings.ToLower(env("EGRESS_MODE")); v != "" {
		switch v {
		case "http", "ws", "auto":
			cfg.EgressMode = v
		default:
			return nil, fmt.Errorf("EGRESS_MODE must be http, ws or auto: %q", v)
		}
	}
	if v := env("EGRESS_DRYRUN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EgressDryRun = b
		}
	}

	puzzle, err := loadPuzzle()
	if err != nil {
		return nil, err
	}
	cfg.Puzzle = puzzle

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}
	return cfg, nil
}

// LoadLocal reads only the puzzle keys; the terminal client has no bridge.
func LoadLocal() (PuzzleConfig, error) {
	return loadPuzzle()
}

func loadPuzzle() (PuzzleConfig, error) {
	p := defaultPuzzle()
	if v := env("PUZZLE_DEFAULT_LEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != 1 && n != 2) {
			return p, fmt.Errorf("PUZZLE_DEFAULT_LEVEL must be 1 or 2: %q", v)
		}
		p.DefaultLevel = n
	}
	if v := env("PUZZLE_DEFAULT_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 3 || n > 5 {
			return p, fmt.Errorf("PUZZLE_DEFAULT_SIZE must be 3, 4 or 5: %q", v)
		}
		p.DefaultSize = n
	}
	if n, ok := positiveInt("PUZZLE_SESSION_TTL"); ok {
		p.SessionTTLSec = n
	}
	return p, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func positiveInt(key string) (int, bool) {
	v := env(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
