package puzzlepresenter

import (
	"fmt"
	"strings"

	"github.com/park285/Cheese-NumberOrder-bot/internal/msgcat"
	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
	"github.com/park285/Cheese-NumberOrder-bot/internal/util"
	"github.com/park285/Cheese-NumberOrder-bot/pkg/puzzledto"
)

// PrefixProvider exposes the Prefix that Kakao messages should use.
type PrefixProvider interface {
	Prefix() string
}

// Formatter renders puzzle DTOs into Kakao text from the message catalog.
type Formatter struct {
	prefixProvider PrefixProvider
	catalog        *msgcat.Catalog
}

func NewFormatter(provider PrefixProvider, catalog *msgcat.Catalog) *Formatter {
	return &Formatter{prefixProvider: provider, catalog: catalog}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

// text renders a catalog key with Prefix always available. A missing key
// renders as the key itself so the gap is visible in chat.
func (f *Formatter) text(key string, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Prefix"] = f.Prefix()
	return f.catalog.Text(key, data, key)
}

func (f *Formatter) Help() string {
	header := f.text("bot.help_header", nil)
	return util.ApplySeeMoreWithHeader(header+"\n"+f.text("bot.help", nil), header, header)
}

func (f *Formatter) Opened(state *puzzledto.SessionState, resumed bool) string {
	if state == nil {
		return f.Error(puzzledto.DomainError{Code: CodeInternal})
	}
	if resumed {
		return f.Status(state)
	}
	return f.text("bot.opened", map[string]any{"Mode": ModeLabel(state)})
}

func (f *Formatter) Started(state *puzzledto.SessionState) string {
	if state == nil {
		return ""
	}
	return f.text("bot.started", map[string]any{"Next": state.Next})
}

// Click describes one click result. Rejections show the board's own message.
func (f *Formatter) Click(result *puzzledto.ClickResult) string {
	if result == nil || result.State == nil {
		return ""
	}
	state := result.State
	switch puzzle.OutcomeKind(result.Outcome) {
	case puzzle.OutcomeAdvance:
		return f.text("bot.advanced", map[string]any{
			"Number":   result.Number,
			"Progress": state.Progress,
			"Total":    state.Total,
		})
	case puzzle.OutcomeWin:
		return f.text("bot.won", map[string]any{"Message": state.Message, "Total": state.Total})
	case puzzle.OutcomeFail:
		return f.text("bot.failed", map[string]any{"Message": state.Message})
	case puzzle.OutcomeIgnored:
		if result.Reason == puzzle.ReasonEmptyCell {
			return f.text("bot.empty_cell", nil)
		}
		return f.text("bot.already_correct", nil)
	default:
		return state.Message
	}
}

func (f *Formatter) Reset(state *puzzledto.SessionState) string {
	return f.text("bot.reset", nil)
}

func (f *Formatter) SizeChanged(state *puzzledto.SessionState) string {
	if state == nil {
		return ""
	}
	return f.text("bot.size_changed", map[string]any{"Size": state.Size}) + "\n" + f.text("bot.reset", nil)
}

func (f *Formatter) LevelChanged(state *puzzledto.SessionState) string {
	if state == nil {
		return ""
	}
	return f.text("bot.level_changed", map[string]any{"Mode": ModeLabel(state)}) + "\n" + f.text("bot.reset", nil)
}

func (f *Formatter) Closed() string {
	return f.text("bot.closed", nil)
}

// Decoy returns the taunt currently on the board.
func (f *Formatter) Decoy(state *puzzledto.SessionState) string {
	if state == nil {
		return ""
	}
	return state.Message
}

func (f *Formatter) Status(state *puzzledto.SessionState) string {
	if state == nil {
		return f.Help()
	}
	out := f.text("bot.status", map[string]any{
		"Mode":     ModeLabel(state),
		"Phase":    f.text("bot.phase."+state.Phase, nil),
		"Progress": state.Progress,
		"Total":    state.Total,
	})
	if state.Message != "" {
		out += "\n• " + state.Message
	}
	return out
}

func (f *Formatter) Error(de puzzledto.DomainError) string {
	code := de.Code
	if code == "" {
		code = CodeInternal
	}
	return f.text("bot.errors."+code, nil)
}

func (f *Formatter) UnknownCommand() string {
	return f.text("bot.errors.unknown_command", nil)
}

// ModeLabel is the short Korean mode name, e.g. "레벨 1 · 3x3".
func ModeLabel(state *puzzledto.SessionState) string {
	if state == nil {
		return ""
	}
	label := fmt.Sprintf("레벨 %d · %dx%d", state.Level, state.Size, state.Size)
	if state.Level == int(puzzle.Level2) {
		label += fmt.Sprintf(" (숫자 %d개)", state.Total)
	}
	return label
}
