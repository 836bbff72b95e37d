package gamebuilder

import (
	"fmt"
	"strings"

	"github.com/park285/Cheese-NumberOrder-bot/internal/config"
	"github.com/park285/Cheese-NumberOrder-bot/internal/msgcat"
	"github.com/park285/Cheese-NumberOrder-bot/internal/render"
	"github.com/park285/Cheese-NumberOrder-bot/internal/service/numgame"
	"go.uber.org/zap"
)

type Deps struct {
	Service  *numgame.Service
	Catalog  *msgcat.Catalog
	Renderer render.BoardRenderer
}

// New assembles the puzzle service from env config. Extra options are
// appended after the defaults, so tests can swap the scheduler or clock.
func New(cfg *config.AppConfig, logger *zap.Logger, opts ...numgame.Option) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := msgcat.New(strings.TrimSpace(cfg.MessagesDir))
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	renderer := render.NewBoardRenderer()

	svcCfg := numgame.Config{
		DefaultLevel: cfg.Puzzle.DefaultLevel,
		DefaultSize:  cfg.Puzzle.DefaultSize,
		SessionTTL:   cfg.Puzzle.SessionTTL(),
		MaxSessions:  cfg.MaxConcurrentGames,
		AllowedRooms: append([]string(nil), cfg.AllowedRooms...),
	}

	service, err := numgame.NewService(renderer, catalog, svcCfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("puzzle_service_ready",
		zap.Int("default_level", svcCfg.DefaultLevel),
		zap.Int("default_size", svcCfg.DefaultSize),
		zap.Duration("session_ttl", svcCfg.SessionTTL),
		zap.Int("max_sessions", svcCfg.MaxSessions),
		zap.Int("allowed_rooms", len(svcCfg.AllowedRooms)),
	)
	return &Deps{Service: service, Catalog: catalog, Renderer: renderer}, nil
}
