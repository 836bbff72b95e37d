package puzzle

import "fmt"

type MessageKind string

const (
	MessageNone    MessageKind = "none"
	MessageError   MessageKind = "error"
	MessageSuccess MessageKind = "success"
)

type Message struct {
	Text string
	Kind MessageKind
}

func (m Message) Empty() bool { return m.Text == "" && (m.Kind == "" || m.Kind == MessageNone) }

// View receives render commands from a Session. Implementations project
// session data and must never be consulted for game state.
// Calls happen with the session lock held; a View must not call back into
// the Session synchronously.
type View interface {
	ShowBoard(b Board)
	HideAll()
	RevealCell(i int)
	RevealAll()
	MarkCorrect(i int)
	MarkWrong(i int)
	ClearWrongMark(i int)
	ShowMessage(text string, kind MessageKind)
	ClearMessage()
}

// NopView discards every command.
type NopView struct{}

func (NopView) ShowBoard(Board) {}
func (NopView) HideAll() {}
func (NopView) RevealCell(int) {}
func (NopView) RevealAll() {}
func (NopView) MarkCorrect(int) {}
func (NopView) MarkWrong(int) {}
func (NopView) ClearWrongMark(int) {}
func (NopView) ShowMessage(string, MessageKind) {}
func (NopView) ClearMessage() {}

// MultiView fans every command out to each view in order.
type MultiView []View

func (m MultiView) ShowBoard(b Board) {
	for _, v := range m {
		v.ShowBoard(b)
	}
}

func (m MultiView) HideAll() {
	for _, v := range m {
		v.HideAll()
	}
}

func (m MultiView) RevealCell(i int) {
	for _, v := range m {
		v.RevealCell(i)
	}
}

func (m MultiView) RevealAll() {
	for _, v := range m {
		v.RevealAll()
	}
}

func (m MultiView) MarkCorrect(i int) {
	for _, v := range m {
		v.MarkCorrect(i)
	}
}

func (m MultiView) MarkWrong(i int) {
	for _, v := range m {
		v.MarkWrong(i)
	}
}

func (m MultiView) ClearWrongMark(i int) {
	for _, v := range m {
		v.ClearWrongMark(i)
	}
}

func (m MultiView) ShowMessage(text string, kind MessageKind) {
	for _, v := range m {
		v.ShowMessage(text, kind)
	}
}

func (m MultiView) ClearMessage() {
	for _, v := range m {
		v.ClearMessage()
	}
}

// Messages supplies the user-facing texts a session shows.
type Messages interface {
	NotStarted() string
	Wrong(expected int) string
	Win() string
	Decoy() string
}

// DefaultMessages is the built-in Korean text set.
type DefaultMessages struct{}

func (DefaultMessages) NotStarted() string { return `먼저 "시작"을 눌러주세요` }
func (DefaultMessages) Wrong(expected int) string {
	return fmt.Sprintf("틀렸습니다! %d을(를) 눌러야 합니다", expected)
}
func (DefaultMessages) Win() string { return "축하합니다! 모두 맞혔습니다!" }
func (DefaultMessages) Decoy() string { return "Got you! 속았지?" }
