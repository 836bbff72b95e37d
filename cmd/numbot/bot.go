package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/Cheese-NumberOrder-bot/internal/adapter/puzzlepresenter"
	"github.com/park285/Cheese-NumberOrder-bot/internal/irisfast"
	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
	svc "github.com/park285/Cheese-NumberOrder-bot/internal/service/numgame"
	"go.uber.org/zap"
)

const gameKeyword = "숫자"

// game is the part of numgame.Service the chat layer drives.
type game interface {
	Open(ctx context.Context, meta svc.SessionMeta) (*svc.SessionState, bool, error)
	Start(ctx context.Context, meta svc.SessionMeta) (*svc.SessionState, error)
	Click(ctx context.Context, meta svc.SessionMeta, cell string) (*svc.ClickSummary, error)
	Reset(ctx context.Context, meta svc.SessionMeta) (*svc.SessionState, error)
	ChangeSize(ctx context.Context, meta svc.SessionMeta, n int) (*svc.SessionState, error)
	SelectLevel(ctx context.Context, meta svc.SessionMeta, level int) (*svc.SessionState, error)
	Decoy(ctx context.Context, meta svc.SessionMeta) (*svc.SessionState, error)
	Status(ctx context.Context, meta svc.SessionMeta) (*svc.SessionState, error)
	Close(meta svc.SessionMeta)
}

var _ game = (*svc.Service)(nil)

type command struct {
	Name string
	Args []string
}

// parseCommand extracts "<prefix>숫자 <sub> <args...>". A bare cell such as
// "b3" or "5" becomes the click command.
func parseCommand(prefix, text string) (command, bool) {
	raw := strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(raw, prefix) {
		return command{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(raw, prefix))
	if len(fields) == 0 {
		return command{}, false
	}
	if fields[0] != gameKeyword {
		return command{}, false
	}
	rest := fields[1:]
	if len(rest) == 0 {
		return command{Name: "open"}, true
	}
	sub := strings.ToLower(rest[0])
	args := rest[1:]
	switch sub {
	case "도움", "help":
		return command{Name: "help"}, true
	case "시작", "start":
		return command{Name: "start"}, true
	case "리셋", "reset":
		return command{Name: "reset"}, true
	case "크기", "size":
		return command{Name: "size", Args: args}, true
	case "레벨", "level":
		return command{Name: "level", Args: args}, true
	case "다음", "next":
		return command{Name: "decoy"}, true
	case "현황", "status":
		return command{Name: "status"}, true
	case "종료", "quit":
		return command{Name: "close"}, true
	}
	if len(args) == 0 {
		return command{Name: "click", Args: []string{sub}}, true
	}
	return command{Name: "unknown", Args: rest}, true
}

type bot struct {
	game      game
	presenter *puzzlepresenter.Presenter
	formatter *puzzlepresenter.Formatter
	prefix    string
	logger    *zap.Logger
}

func (b *bot) handle(ctx context.Context, msg *irisfast.Message) {
	cmd, ok := parseCommand(b.prefix, msg.Msg)
	if !ok {
		return
	}
	meta := svc.SessionMeta{
		SessionID: sessionIDFor(msg),
		Room:      msg.Room,
		Sender:    senderName(msg),
	}
	if err := b.dispatch(ctx, meta, cmd); err != nil {
		de := puzzlepresenter.ToDomainError(err)
		fields := []zap.Field{
			zap.String("command", cmd.Name),
			zap.String("code", de.Code),
			zap.Error(err),
		}
		if de.Code == puzzlepresenter.CodeInternal {
			b.logger.Error("puzzle_command_failed", fields...)
		} else {
			b.logger.Debug("puzzle_command_rejected", fields...)
		}
		b.send(b.presenter.Text(msg.Room, b.formatter.Error(de)), msg.Room)
	}
}

func (b *bot) dispatch(ctx context.Context, meta svc.SessionMeta, cmd command) error {
	room := meta.Room
	switch cmd.Name {
	case "help":
		b.send(b.presenter.Text(room, b.formatter.Help()), room)
	case "open":
		state, resumed, err := b.game.Open(ctx, meta)
		if err != nil {
			return err
		}
		dto := puzzlepresenter.ToDTOState(state)
		b.send(b.presenter.Board(room, b.formatter.Opened(dto, resumed), dto), room)
	case "start":
		state, err := b.game.Start(ctx, meta)
		if errors.Is(err, svc.ErrSessionNotFound) {
			if _, _, err = b.game.Open(ctx, meta); err == nil {
				state, err = b.game.Start(ctx, meta)
			}
		}
		if err != nil {
			return err
		}
		dto := puzzlepresenter.ToDTOState(state)
		b.send(b.presenter.Board(room, b.formatter.Started(dto), dto), room)
	case "reset":
		state, err := b.game.Reset(ctx, meta)
		if err != nil {
			return err
		}
		dto := puzzlepresenter.ToDTOState(state)
		b.send(b.presenter.Board(room, b.formatter.Reset(dto), dto), room)
	case "size":
		n, err := intArg(cmd.Args)
		if err != nil {
			return fmt.Errorf("%w: %v", puzzle.ErrUnsupportedSize, cmd.Args)
		}
		state, err := b.game.ChangeSize(ctx, meta, n)
		if err != nil {
			return err
		}
		dto := puzzlepresenter.ToDTOState(state)
		b.send(b.presenter.Board(room, b.formatter.SizeChanged(dto), dto), room)
	case "level":
		n, err := intArg(cmd.Args)
		if err != nil {
			return fmt.Errorf("%w: %v", puzzle.ErrInvalidMode, cmd.Args)
		}
		state, err := b.game.SelectLevel(ctx, meta, n)
		if err != nil {
			return err
		}
		dto := puzzlepresenter.ToDTOState(state)
		b.send(b.presenter.Board(room, b.formatter.LevelChanged(dto), dto), room)
	case "decoy":
		state, err := b.game.Decoy(ctx, meta)
		if err != nil {
			return err
		}
		b.send(b.presenter.Text(room, b.formatter.Decoy(puzzlepresenter.ToDTOState(state))), room)
	case "status":
		state, err := b.game.Status(ctx, meta)
		if err != nil {
			return err
		}
		dto := puzzlepresenter.ToDTOState(state)
		b.send(b.presenter.Board(room, b.formatter.Status(dto), dto), room)
	case "close":
		b.game.Close(meta)
		b.send(b.presenter.Text(room, b.formatter.Closed()), room)
	case "click":
		summary, err := b.game.Click(ctx, meta, cmd.Args[0])
		if err != nil {
			return err
		}
		result := puzzlepresenter.ToDTOClick(summary)
		text := b.formatter.Click(result)
		// Ignored clicks change nothing on the board; skip the image.
		if result.Outcome == string(puzzle.OutcomeIgnored) {
			b.send(b.presenter.Text(room, text), room)
			return nil
		}
		b.send(b.presenter.Board(room, text, result.State), room)
	default:
		b.send(b.presenter.Text(room, b.formatter.UnknownCommand()), room)
	}
	return nil
}

func (b *bot) send(err error, room string) {
	if err != nil {
		b.logger.Warn("puzzle_reply_failed", zap.String("room", room), zap.Error(err))
	}
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing argument")
	}
	return strconv.Atoi(strings.TrimSpace(args[0]))
}

func userIDFromMessage(msg *irisfast.Message) string {
	if msg.JSON != nil && strings.TrimSpace(msg.JSON.UserID) != "" {
		return strings.TrimSpace(msg.JSON.UserID)
	}
	if msg.Sender != nil {
		return strings.TrimSpace(*msg.Sender)
	}
	return ""
}

func sessionIDFor(msg *irisfast.Message) string {
	uid := userIDFromMessage(msg)
	if uid == "" {
		uid = senderName(msg)
	}
	return fmt.Sprintf("%s:%s", strings.TrimSpace(msg.Room), uid)
}

func senderName(msg *irisfast.Message) string {
	if msg.Sender != nil && strings.TrimSpace(*msg.Sender) != "" {
		return strings.TrimSpace(*msg.Sender)
	}
	if id := userIDFromMessage(msg); id != "" {
		return id
	}
	return "player"
}

func roomAllowed(allowed []string, room string) bool {
	if len(allowed) == 0 {
		return true
	}
	room = strings.ToLower(strings.TrimSpace(room))
	for _, r := range allowed {
		if strings.ToLower(strings.TrimSpace(r)) == room {
			return true
		}
	}
	return false
}

type prefixProvider struct{ prefix string }

func (p prefixProvider) Prefix() string { return p.prefix }
