package puzzle

import (
	"errors"
	"fmt"
)

var (
	ErrNotStarted = errors.New("not_started")
	ErrRoundOver  = errors.New("round is over; reset to play again")
)

// WrongNumberError reports a click out of ascending order.
type WrongNumberError struct {
	Expected int
	Got      int
}

func (e *WrongNumberError) Error() string {
	return fmt.Sprintf("wrong number: expected %d, got %d", e.Expected, e.Got)
}

type OutcomeKind string

const (
	OutcomeAdvance  OutcomeKind = "advance"
	OutcomeWin      OutcomeKind = "win"
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeFail     OutcomeKind = "fail"
	OutcomeIgnored  OutcomeKind = "ignored"
)

const (
	ReasonNotStarted     = "not_started"
	ReasonNoCell         = "no_cell"
	ReasonAlreadyCorrect = "already_correct"
	ReasonEmptyCell      = "empty_cell"
)

// ClickOutcome is the result of one HandleClick call.
type ClickOutcome struct {
	Kind     OutcomeKind
	Index    int
	Number   int
	Progress int
	Expected int
	Reason   string
}

func (o ClickOutcome) String() string {
	switch o.Kind {
	case OutcomeAdvance:
		return fmt.Sprintf("Advance(%d)", o.Progress)
	case OutcomeWin:
		return "Win"
	case OutcomeRejected:
		return fmt.Sprintf("Rejected(%s)", o.Reason)
	case OutcomeFail:
		return fmt.Sprintf("Fail(expected=%d)", o.Expected)
	case OutcomeIgnored:
		return fmt.Sprintf("Ignored(%s)", o.Reason)
	default:
		return string(o.Kind)
	}
}

// Err maps the game-rule rejections to errors; other outcomes return nil.
func (o ClickOutcome) Err() error {
	switch o.Kind {
	case OutcomeRejected:
		if o.Reason == ReasonNotStarted {
			return ErrNotStarted
		}
		return fmt.Errorf("click rejected: %s", o.Reason)
	case OutcomeFail:
		return &WrongNumberError{Expected: o.Expected, Got: o.Number}
	default:
		return nil
	}
}

// Terminal reports whether the click ended the round.
func (o ClickOutcome) Terminal() bool {
	return o.Kind == OutcomeWin || o.Kind == OutcomeFail
}
