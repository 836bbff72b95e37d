package puzzle

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestRealSchedulerRunsOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	done := make(chan struct{}, 2)
	RealScheduler{}.AfterFunc(5*time.Millisecond, func() { done <- struct{}{} })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("task did not run")
	}
	select {
	case <-done:
		t.Fatalf("task ran twice")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestRealSchedulerWrongMarkClears(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := NewSession(Config{Mode: FullGridMode(3), Rand: SeededRand(3)})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	_ = s.Start()
	idx := s.Board().IndexOf(9)
	if out := s.HandleClick(idx); out.Kind != OutcomeFail {
		t.Fatalf("expected fail, got %s", out)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().Cells[idx].Mark == MarkWrong {
		if time.Now().After(deadline) {
			t.Fatalf("wrong mark never cleared")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var got []int
	s.AfterFunc(30*time.Millisecond, func() { got = append(got, 3) })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, 1) })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, 2) })

	s.Advance(5 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("ran early: %v", got)
	}
	s.Advance(time.Second)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("order = %v", got)
	}
	if s.Pending() != 0 {
		t.Fatalf("pending = %d", s.Pending())
	}
}
