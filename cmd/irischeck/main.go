package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/park285/Cheese-NumberOrder-bot/internal/irisfast"
	"github.com/park285/Cheese-NumberOrder-bot/internal/obslog"
	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
	"github.com/park285/Cheese-NumberOrder-bot/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type checkOptions struct {
	baseURL   string
	wsURL     string
	userID    string
	userEmail string
	sessionID string
	logger    *zap.Logger
}

func (o *checkOptions) headers() map[string]string {
	m := map[string]string{}
	if o.userID != "" {
		m["X-User-Id"] = o.userID
	}
	if o.userEmail != "" {
		m["X-User-Email"] = o.userEmail
	}
	if o.sessionID != "" {
		m["X-Session-Id"] = o.sessionID
	}
	return m
}

func (o *checkOptions) client() (*irisfast.Client, error) {
	if strings.TrimSpace(o.baseURL) == "" {
		return nil, fmt.Errorf("IRIS_BASE_URL or --base-url is required")
	}
	return irisfast.NewClient(o.baseURL,
		irisfast.WithHeaderProvider(o.headers),
		irisfast.WithTimeout(8*time.Second),
	), nil
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := &checkOptions{logger: logger}
	root := &cobra.Command{
		Use:           "irischeck",
		Short:         "Check the Iris bridge used by the number puzzle bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.baseURL, "base-url", os.Getenv("IRIS_BASE_URL"), "bridge HTTP base URL")
	pf.StringVar(&opts.wsURL, "ws-url", os.Getenv("IRIS_WS_URL"), "bridge websocket URL")
	pf.StringVar(&opts.userID, "user-id", os.Getenv("X_USER_ID"), "X-User-Id header")
	pf.StringVar(&opts.userEmail, "user-email", os.Getenv("X_USER_EMAIL"), "X-User-Email header")
	pf.StringVar(&opts.sessionID, "session-id", os.Getenv("X_SESSION_ID"), "X-Session-Id header")

	root.AddCommand(newConfigCmd(opts), newWatchCmd(opts), newBoardCmd(opts))
	return root
}

func newConfigCmd(opts *checkOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Fetch /config from the bridge",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			cfg, err := client.GetConfig(ctx)
			if err != nil {
				return fmt.Errorf("/config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "/config ok: port=%d polling=%d rate=%d endpoint=%s\n",
				cfg.Port, cfg.PollingSpeed, cfg.MessageRate, cfg.WebserverEndpoint)
			return nil
		},
	}
}

func newWatchCmd(opts *checkOptions) *cobra.Command {
	var window time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Connect to the websocket and print inbound messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.wsURL) == "" {
				return fmt.Errorf("IRIS_WS_URL or --ws-url is required")
			}
			ws := irisfast.NewWebSocket(opts.wsURL, 5, time.Second)
			ws.SetHeaderProvider(opts.headers)
			ws.OnStateChange(func(state irisfast.WebSocketState) {
				opts.logger.Info("ws_state", zap.String("state", string(state)))
			})
			out := cmd.OutOrStdout()
			ws.OnMessage(func(msg *irisfast.Message) {
				from := "?"
				if msg.Sender != nil {
					from = *msg.Sender
				}
				fmt.Fprintf(out, "WS msg room=%s from=%s text=%q\n", msg.Room, from, msg.Msg)
			})

			cctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := ws.Connect(cctx); err != nil {
				_ = ws.Close(context.Background())
				return fmt.Errorf("ws connect: %w", err)
			}

			select {
			case <-time.After(window):
			case <-cmd.Context().Done():
			}
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			return ws.Close(closeCtx)
		},
	}
	cmd.Flags().DurationVar(&window, "for", 10*time.Second, "how long to observe")
	return cmd
}

type boardOptions struct {
	level   int
	size    int
	seed    uint64
	started bool
	out     string
	room    string
	mode    string
	dryrun  bool
}

func newBoardCmd(opts *checkOptions) *cobra.Command {
	var b boardOptions
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Render a sample puzzle board and optionally post it to a room",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd, opts, b)
		},
	}
	f := cmd.Flags()
	f.IntVar(&b.level, "level", 1, "puzzle level (1 or 2)")
	f.IntVar(&b.size, "size", 3, "level 1 grid size")
	f.Uint64Var(&b.seed, "seed", 0, "shuffle seed (0 for random)")
	f.BoolVar(&b.started, "started", false, "render the hidden board of a started round")
	f.StringVar(&b.out, "out", "", "write the PNG to this path")
	f.StringVar(&b.room, "room", "", "post the board to this room")
	f.StringVar(&b.mode, "egress", irisfast.EgressHTTP, "egress mode: http, ws or auto")
	f.BoolVar(&b.dryrun, "dryrun", false, "log the reply instead of sending it")
	return cmd
}

func runBoard(cmd *cobra.Command, opts *checkOptions, b boardOptions) error {
	mode, err := puzzle.ModeFor(puzzle.Level(b.level), b.size)
	if err != nil {
		return err
	}
	rng := puzzle.DefaultRand()
	if b.seed != 0 {
		rng = puzzle.SeededRand(b.seed)
	}
	session, err := puzzle.NewSession(puzzle.Config{Mode: mode, Rand: rng})
	if err != nil {
		return err
	}
	if b.started {
		if err := session.Start(); err != nil {
			return err
		}
	}

	png, err := render.NewBoardRenderer().RenderPNG(cmd.Context(), session.Snapshot(), render.Options{})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s board: %d bytes\n", render.HeaderText(session.Snapshot()), len(png))

	if b.out != "" {
		if err := os.WriteFile(b.out, png, 0o644); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	}
	if b.room == "" {
		return nil
	}

	var client *irisfast.Client
	if !b.dryrun || strings.TrimSpace(opts.baseURL) != "" {
		if client, err = opts.client(); err != nil {
			return err
		}
	}
	var ws *irisfast.WebSocket
	if b.mode != irisfast.EgressHTTP && strings.TrimSpace(opts.wsURL) != "" {
		ws = irisfast.NewWebSocket(opts.wsURL, 0, time.Second)
		ws.SetHeaderProvider(opts.headers)
		cctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		err := ws.Connect(cctx)
		cancel()
		if err != nil {
			opts.logger.Warn("ws_connect_failed", zap.Error(err))
		}
		defer func() { _ = ws.Close(context.Background()) }()
	}
	egress, err := irisfast.NewEgress(b.mode, b.dryrun, client, ws, opts.logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	if err := egress.SendImage(ctx, b.room, base64.StdEncoding.EncodeToString(png)); err != nil {
		return fmt.Errorf("send board: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "board posted to %s\n", b.room)
	return nil
}

func main() {
	logger, err := obslog.Build(obslog.Options{Level: "info", Format: "console", Console: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("irischeck_failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
