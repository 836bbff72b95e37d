package irisfast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var ErrEgressUnavailable = errors.New("egress transport not configured")

// Egress sends replies back to a chat room.
type Egress interface {
	SendText(ctx context.Context, room, message string) error
	SendImage(ctx context.Context, room, imageBase64 string) error
}

const (
	EgressHTTP = "http"
	EgressWS   = "ws"
	EgressAuto = "auto"
)

// replySender is the HTTP side; *Client satisfies it.
type replySender interface {
	Reply(ctx context.Context, req ReplyRequest) error
}

// frameWriter is the websocket side; *WebSocket satisfies it.
type frameWriter interface {
	Connected() bool
	WriteJSON(ctx context.Context, v any) error
}

// NewEgress picks a transport by mode. auto prefers the websocket while it is
// connected and retries once over HTTP on a websocket error. dryrun logs
// replies instead of delivering them.
func NewEgress(mode string, dryrun bool, c *Client, ws *WebSocket, logger *zap.Logger) (Egress, error) {
	var (
		hs replySender
		fw frameWriter
	)
	if c != nil {
		hs = c
	}
	if ws != nil {
		fw = ws
	}
	return newEgress(mode, dryrun, hs, fw, logger)
}

func newEgress(mode string, dryrun bool, hs replySender, fw frameWriter, logger *zap.Logger) (Egress, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &egress{http: hs, ws: fw, dryrun: dryrun, logger: logger}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case EgressHTTP:
		e.mode = EgressHTTP
		if hs == nil && !dryrun {
			return nil, fmt.Errorf("%w: http", ErrEgressUnavailable)
		}
	case EgressWS:
		e.mode = EgressWS
		if fw == nil && !dryrun {
			return nil, fmt.Errorf("%w: ws", ErrEgressUnavailable)
		}
	case EgressAuto, "":
		e.mode = EgressAuto
		if hs == nil && fw == nil && !dryrun {
			return nil, fmt.Errorf("%w: auto", ErrEgressUnavailable)
		}
	default:
		return nil, fmt.Errorf("unknown egress mode %q", mode)
	}
	return e, nil
}

type egress struct {
	mode   string
	http   replySender
	ws     frameWriter
	dryrun bool
	logger *zap.Logger
}

func (e *egress) SendText(ctx context.Context, room, message string) error {
	return e.send(ctx, ReplyRequest{Type: "text", Room: room, Data: message})
}

func (e *egress) SendImage(ctx context.Context, room, imageBase64 string) error {
	return e.send(ctx, ReplyRequest{Type: "image", Room: room, Data: imageBase64})
}

func (e *egress) send(ctx context.Context, req ReplyRequest) error {
	if strings.TrimSpace(req.Room) == "" || req.Data == "" {
		return ErrEmptyReply
	}
	if e.dryrun {
		e.logger.Info("egress_dryrun",
			zap.String("mode", e.mode),
			zap.String("type", req.Type),
			zap.String("room", req.Room),
			zap.Int("bytes", len(req.Data)),
		)
		return nil
	}

	switch e.mode {
	case EgressWS:
		return e.ws.WriteJSON(ctx, &req)
	case EgressHTTP:
		return e.http.Reply(ctx, req)
	}

	if e.ws != nil && e.ws.Connected() {
		err := e.ws.WriteJSON(ctx, &req)
		if err == nil {
			return nil
		}
		if e.http == nil {
			return err
		}
		e.logger.Warn("egress_fallback",
			zap.String("type", req.Type),
			zap.String("room", req.Room),
			zap.Error(err),
		)
	}
	if e.http == nil {
		return ErrNotConnected
	}
	return e.http.Reply(ctx, req)
}
