package puzzlepresenter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
	svc "github.com/park285/Cheese-NumberOrder-bot/internal/service/numgame"
	"github.com/park285/Cheese-NumberOrder-bot/pkg/puzzledto"
)

func TestToDTOState(t *testing.T) {
	s := &svc.SessionState{
		SessionID:  "sid",
		BoardID:    "bid",
		BoardImage: []byte{1, 2},
		Snapshot: puzzle.Snapshot{
			Mode:     puzzle.FullGridMode(3),
			Phase:    puzzle.PhaseActive,
			Started:  true,
			Progress: 1,
			Total:    9,
			Next:     2,
			Round:    1,
			Message:  puzzle.Message{Text: "m", Kind: puzzle.MessageError},
			Cells: []puzzle.CellView{
				{Index: 0, Number: 1, Revealed: true, Mark: puzzle.MarkCorrect},
				{Index: 5, Row: 1, Col: 2, Number: 7, Mark: puzzle.MarkNone},
			},
		},
	}
	got := ToDTOState(s)
	want := &puzzledto.SessionState{
		SessionUUID: "sid",
		BoardID:     "bid",
		Level:       1,
		Size:        3,
		Phase:       "active",
		Started:     true,
		Progress:    1,
		Total:       9,
		Next:        2,
		Round:       1,
		Message:     "m",
		MessageKind: "error",
		Cells: []puzzledto.Cell{
			{Index: 0, Label: "a1", Number: 1, Revealed: true, Mark: "correct"},
			{Index: 5, Label: "c2", Number: 7, Mark: "none"},
		},
		BoardImage: []byte{1, 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ToDTOState (-want +got):\n%s", diff)
	}

	s.BoardImage[0] = 9
	if got.BoardImage[0] != 1 {
		t.Fatalf("board image must be copied")
	}
	if ToDTOState(nil) != nil || ToDTOClick(nil) != nil {
		t.Fatalf("nil input should map to nil")
	}
}

func TestToDTOClick(t *testing.T) {
	m := &svc.ClickSummary{
		State:   &svc.SessionState{Snapshot: puzzle.Snapshot{Mode: puzzle.FullGridMode(3)}},
		Outcome: puzzle.ClickOutcome{Kind: puzzle.OutcomeFail, Number: 5, Expected: 1},
		Cell:    "b2",
	}
	got := ToDTOClick(m)
	if got.Outcome != "fail" || got.Cell != "b2" || got.Number != 5 || got.Expected != 1 || got.State == nil {
		t.Fatalf("unexpected click dto: %+v", got)
	}
}

func TestToDomainError(t *testing.T) {
	cases := []struct {
		err       error
		code      string
		retryable bool
	}{
		{svc.ErrSessionNotFound, CodeNoSession, false},
		{fmt.Errorf("wrapped: %w", svc.ErrInvalidCell), CodeInvalidCell, false},
		{svc.ErrTooManySessions, CodeTooManySessions, true},
		{fmt.Errorf("%w: 7", puzzle.ErrUnsupportedSize), CodeUnsupportedSize, false},
		{fmt.Errorf("%w: level 9", puzzle.ErrInvalidMode), CodeInvalidLevel, false},
		{puzzle.ErrFixedSize, CodeFixedSize, false},
		{puzzle.ErrDecoyUnavailable, CodeDecoyUnavailable, false},
		{puzzle.ErrRoundOver, CodeRoundOver, false},
		{errors.New("disk on fire"), CodeInternal, true},
	}
	for _, tc := range cases {
		got := ToDomainError(tc.err)
		if got.Code != tc.code || got.Retryable != tc.retryable {
			t.Fatalf("ToDomainError(%v) = %+v, want code=%s retryable=%v", tc.err, got, tc.code, tc.retryable)
		}
	}
}
