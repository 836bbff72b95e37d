package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/park285/Cheese-NumberOrder-bot/internal/adapter/puzzlepresenter"
	appcfg "github.com/park285/Cheese-NumberOrder-bot/internal/config"
	"github.com/park285/Cheese-NumberOrder-bot/internal/gamebuilder"
	"github.com/park285/Cheese-NumberOrder-bot/internal/irisfast"
	"github.com/park285/Cheese-NumberOrder-bot/internal/obslog"
	svc "github.com/park285/Cheese-NumberOrder-bot/internal/service/numgame"
	"go.uber.org/zap"
)

const (
	sweepInterval = time.Minute
	replyTimeout  = 15 * time.Second
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Printf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		logger.Fatal("config_error", zap.Error(err))
	}

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XUserEmail != "" {
			h["X-User-Email"] = cfg.XUserEmail
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}

	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))

	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", string(state)))
	})

	egress, err := irisfast.NewEgress(cfg.EgressMode, cfg.EgressDryRun, client, ws, logger.Named("egress"))
	if err != nil {
		logger.Fatal("egress_init_error", zap.Error(err))
	}

	deps, err := gamebuilder.New(cfg, logger.Named("puzzle"))
	if err != nil {
		logger.Fatal("puzzle_init_error", zap.Error(err))
	}

	presenter := puzzlepresenter.NewPresenter(
		func(room, message string) error {
			ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
			defer cancel()
			return egress.SendText(ctx, room, message)
		},
		func(room, imageBase64 string) error {
			ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
			defer cancel()
			return egress.SendImage(ctx, room, imageBase64)
		},
	)
	b := &bot{
		game:      deps.Service,
		presenter: presenter,
		formatter: puzzlepresenter.NewFormatter(prefixProvider{prefix: cfg.BotPrefix}, deps.Catalog),
		prefix:    cfg.BotPrefix,
		logger:    logger.Named("bot"),
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || msg.Msg == "" {
			return
		}
		if !roomAllowed(cfg.AllowedRooms, msg.Room) {
			logger.Debug("ignore_room", zap.String("room", msg.Room))
			return
		}
		// keep the websocket read loop free
		go b.handle(rootCtx, msg)
	})

	go sweepLoop(rootCtx, deps.Service, logger)

	cctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		logger.Fatal("ws_connect_error", zap.Error(err))
	}
	cancel()
	logger.Info("numbot_started",
		zap.String("prefix", cfg.BotPrefix),
		zap.String("egress", cfg.EgressMode),
		zap.Bool("dryrun", cfg.EgressDryRun),
	)

	<-rootCtx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := ws.Close(shutdownCtx); err != nil {
		logger.Warn("ws_close_error", zap.Error(err))
	}
	logger.Info("numbot_stopped", zap.Int("sessions", deps.Service.ActiveSessions()))
}

func sweepLoop(ctx context.Context, service *svc.Service, logger *zap.Logger) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := service.Sweep(); n > 0 {
				logger.Debug("sweep_done", zap.Int("removed", n))
			}
		}
	}
}
