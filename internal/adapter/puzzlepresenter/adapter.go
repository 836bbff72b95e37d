package puzzlepresenter

import (
	"errors"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
	svc "github.com/park285/Cheese-NumberOrder-bot/internal/service/numgame"
	"github.com/park285/Cheese-NumberOrder-bot/pkg/puzzledto"
)

const (
	CodeNoSession        = "no_session"
	CodeRoomNotAllowed   = "room_not_allowed"
	CodeInvalidCell      = "invalid_cell"
	CodeTooManySessions  = "too_many_sessions"
	CodeUnsupportedSize  = "unsupported_size"
	CodeInvalidLevel     = "invalid_level"
	CodeFixedSize        = "fixed_size"
	CodeDecoyUnavailable = "decoy_unavailable"
	CodeRoundOver        = "round_over"
	CodeInternal         = "internal"
)

func ToDTOState(s *svc.SessionState) *puzzledto.SessionState {
	if s == nil {
		return nil
	}
	snap := s.Snapshot
	cells := make([]puzzledto.Cell, 0, len(snap.Cells))
	for _, c := range snap.Cells {
		cells = append(cells, puzzledto.Cell{
			Index:    c.Index,
			Label:    puzzle.CellLabel(snap.Mode.Size, c.Index),
			Number:   c.Number,
			Empty:    c.Empty,
			Revealed: c.Revealed,
			Mark:     string(c.Mark),
		})
	}
	return &puzzledto.SessionState{
		SessionUUID: s.SessionID,
		BoardID:     s.BoardID,
		Level:       int(snap.Mode.Level),
		Size:        snap.Mode.Size,
		Phase:       string(snap.Phase),
		Started:     snap.Started,
		Progress:    snap.Progress,
		Total:       snap.Total,
		Next:        snap.Next,
		Round:       snap.Round,
		Message:     snap.Message.Text,
		MessageKind: string(snap.Message.Kind),
		Cells:       cells,
		BoardImage:  append([]byte(nil), s.BoardImage...),
	}
}

func ToDTOClick(m *svc.ClickSummary) *puzzledto.ClickResult {
	if m == nil {
		return nil
	}
	return &puzzledto.ClickResult{
		State:    ToDTOState(m.State),
		Outcome:  string(m.Outcome.Kind),
		Cell:     m.Cell,
		Number:   m.Outcome.Number,
		Expected: m.Outcome.Expected,
		Reason:   m.Outcome.Reason,
	}
}

// ToDomainError maps service and puzzle errors to stable codes. Unknown
// errors become CodeInternal so their text never reaches chat.
func ToDomainError(err error) puzzledto.DomainError {
	code := CodeInternal
	retryable := false
	switch {
	case errors.Is(err, svc.ErrSessionNotFound):
		code = CodeNoSession
	case errors.Is(err, svc.ErrRoomNotAllowed):
		code = CodeRoomNotAllowed
	case errors.Is(err, svc.ErrInvalidCell):
		code = CodeInvalidCell
	case errors.Is(err, svc.ErrTooManySessions):
		code, retryable = CodeTooManySessions, true
	case errors.Is(err, puzzle.ErrUnsupportedSize):
		code = CodeUnsupportedSize
	case errors.Is(err, puzzle.ErrInvalidMode):
		code = CodeInvalidLevel
	case errors.Is(err, puzzle.ErrFixedSize):
		code = CodeFixedSize
	case errors.Is(err, puzzle.ErrDecoyUnavailable):
		code = CodeDecoyUnavailable
	case errors.Is(err, puzzle.ErrRoundOver):
		code = CodeRoundOver
	default:
		retryable = true
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return puzzledto.DomainError{Code: code, Message: msg, Retryable: retryable}
}
