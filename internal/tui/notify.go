package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
)

// refreshMsg asks the model to redraw from a fresh snapshot.
type refreshMsg struct{}

// notifier is the puzzle.View of the terminal client. Sessions call it with
// their lock held, sometimes from the Update goroutine itself, so it never
// blocks: pending refreshes coalesce in a one-slot channel.
type notifier struct {
	ch chan struct{}
}

var _ puzzle.View = notifier{}

func newNotifier() notifier {
	return notifier{ch: make(chan struct{}, 1)}
}

func (n notifier) poke() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// wait blocks until the session changes.
func (n notifier) wait() tea.Cmd {
	return func() tea.Msg {
		<-n.ch
		return refreshMsg{}
	}
}

func (n notifier) ShowBoard(puzzle.Board) { n.poke() }
func (n notifier) HideAll() { n.poke() }
func (n notifier) RevealCell(int) { n.poke() }
func (n notifier) RevealAll() { n.poke() }
func (n notifier) MarkCorrect(int) { n.poke() }
func (n notifier) MarkWrong(int) { n.poke() }
func (n notifier) ClearWrongMark(int) { n.poke() }
func (n notifier) ShowMessage(string, puzzle.MessageKind) { n.poke() }
func (n notifier) ClearMessage() { n.poke() }
