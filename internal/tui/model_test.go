package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/goleak"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
)

func newTestModel(t *testing.T, mode puzzle.Mode) (Model, *puzzle.ManualScheduler) {
	t.Helper()
	sched := puzzle.NewManualScheduler()
	m, err := New(Options{Mode: mode, Rand: puzzle.SeededRand(5), Scheduler: sched})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, sched
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(k)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCursorWraps(t *testing.T) {
	m, _ := newTestModel(t, puzzle.FullGridMode(3))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Cursor() != 2 {
		t.Fatalf("left from a1 = %d, want 2", m.Cursor())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor() != 8 {
		t.Fatalf("up from c1 = %d, want 8", m.Cursor())
	}
	m = press(t, m, runes("j"))
	m = press(t, m, runes("l"))
	if m.Cursor() != 0 {
		t.Fatalf("down+right from c3 = %d, want 0", m.Cursor())
	}
}

func TestClickFlowThroughKeys(t *testing.T) {
	m, sched := newTestModel(t, puzzle.FullGridMode(3))
	s := m.Session()

	m = press(t, m, runes("s"))
	if s.Snapshot().Phase != puzzle.PhaseActive {
		t.Fatalf("phase after s = %s", s.Snapshot().Phase)
	}

	m.cursor = s.Board().IndexOf(1)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := s.Snapshot().Progress; got != 1 {
		t.Fatalf("progress = %d", got)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.notice, "이미 맞힌") {
		t.Fatalf("notice = %q", m.notice)
	}

	m.cursor = s.Board().IndexOf(9)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	snap := s.Snapshot()
	if snap.Phase != puzzle.PhaseFailed || snap.Cells[m.cursor].Mark != puzzle.MarkWrong {
		t.Fatalf("expected failed round with wrong mark, got %s", snap.Phase)
	}
	sched.Advance(puzzle.WrongMarkDelay)
	if s.Snapshot().Cells[m.cursor].Mark == puzzle.MarkWrong {
		t.Fatalf("wrong mark not cleared")
	}
	if !strings.Contains(m.View(), "실패") {
		t.Fatalf("view does not show the failed phase")
	}
}

func TestSizeAndLevelKeys(t *testing.T) {
	m, sched := newTestModel(t, puzzle.FullGridMode(3))
	m.cursor = 8

	m = press(t, m, runes("5"))
	if got := m.Session().Mode().Size; got != 5 {
		t.Fatalf("size = %d", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if mode := m.Session().Mode(); mode.FullGrid || mode.Size != 4 {
		t.Fatalf("tab did not switch to level 2: %+v", mode)
	}
	if m.Cursor() != 8 {
		t.Fatalf("cursor = %d", m.Cursor())
	}

	m = press(t, m, runes("3"))
	if !strings.Contains(m.notice, "고정") {
		t.Fatalf("notice = %q", m.notice)
	}

	m = press(t, m, runes("n"))
	if msg := m.Session().Snapshot().Message; msg.Kind != puzzle.MessageError || msg.Text == "" {
		t.Fatalf("decoy message = %+v", msg)
	}
	sched.Advance(puzzle.DecoyDelay)
	if !m.Session().Snapshot().Message.Empty() {
		t.Fatalf("decoy message not cleared")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if mode := m.Session().Mode(); !mode.FullGrid || mode.Size != 5 {
		t.Fatalf("tab back = %+v", mode)
	}
	m = press(t, m, runes("n"))
	if !strings.Contains(m.notice, "레벨 2") {
		t.Fatalf("decoy notice = %q", m.notice)
	}
}

func TestStartAfterWinShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, puzzle.FullGridMode(3))
	s := m.Session()
	m = press(t, m, runes("s"))
	for n := 1; n <= 9; n++ {
		m.cursor = s.Board().IndexOf(n)
		m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if s.Snapshot().Phase != puzzle.PhaseWon {
		t.Fatalf("phase = %s", s.Snapshot().Phase)
	}
	m = press(t, m, runes("s"))
	if !strings.Contains(m.notice, "이미 성공") {
		t.Fatalf("notice = %q", m.notice)
	}
	m = press(t, m, runes("r"))
	if m.notice != "" || s.Snapshot().Phase != puzzle.PhaseIdle {
		t.Fatalf("reset: notice=%q phase=%s", m.notice, s.Snapshot().Phase)
	}
}

func TestNotifierCoalescesAndWakes(t *testing.T) {
	defer goleak.VerifyNone(t)

	n := newNotifier()
	n.MarkCorrect(0)
	n.ClearMessage()
	n.HideAll()

	done := make(chan tea.Msg, 1)
	go func() { done <- n.wait()() }()
	select {
	case msg := <-done:
		if _, ok := msg.(refreshMsg); !ok {
			t.Fatalf("msg = %T", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("wait did not wake")
	}
	if len(n.ch) != 0 {
		t.Fatalf("refreshes were not coalesced")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t, puzzle.FullGridMode(3))
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestViewShowsCoordinates(t *testing.T) {
	m, _ := newTestModel(t, puzzle.FullGridMode(4))
	out := m.View()
	for _, want := range []string{"LEVEL 1  4x4", "a", "d", "4", "외우는 중"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}
