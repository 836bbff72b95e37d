package numgame

import (
	"go.uber.org/zap"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
)

// logView records render commands at debug level. Chat clients only see
// the images the service sends, so this is the only live projection.
type logView struct {
	logger *zap.Logger
}

func newLogView(logger *zap.Logger, sessionID string) logView {
	return logView{logger: logger.With(zap.String("session_id", sessionID))}
}

func (v logView) ShowBoard(b puzzle.Board) {
	v.logger.Debug("puzzle_view_show_board", zap.Int("size", b.Size), zap.Int("numbers", len(b.Numbers())))
}

func (v logView) HideAll() { v.logger.Debug("puzzle_view_hide_all") }
func (v logView) RevealAll() { v.logger.Debug("puzzle_view_reveal_all") }

func (v logView) RevealCell(i int) { v.logger.Debug("puzzle_view_reveal", zap.Int("cell", i)) }
func (v logView) MarkCorrect(i int) { v.logger.Debug("puzzle_view_mark_correct", zap.Int("cell", i)) }
func (v logView) MarkWrong(i int) { v.logger.Debug("puzzle_view_mark_wrong", zap.Int("cell", i)) }
func (v logView) ClearWrongMark(i int) { v.logger.Debug("puzzle_view_clear_wrong", zap.Int("cell", i)) }

func (v logView) ShowMessage(text string, kind puzzle.MessageKind) {
	v.logger.Debug("puzzle_view_message", zap.String("text", text), zap.String("kind", string(kind)))
}

func (v logView) ClearMessage() { v.logger.Debug("puzzle_view_clear_message") }
