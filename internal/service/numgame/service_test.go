package numgame

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/park285/Cheese-NumberOrder-bot/internal/msgcat"
	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
	"github.com/park285/Cheese-NumberOrder-bot/internal/render"
)

type stubRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *stubRenderer) RenderPNG(_ context.Context, snap puzzle.Snapshot, _ render.Options) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png:" + snap.BoardID), nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc   *Service
	sched *puzzle.ManualScheduler
	clock *fakeClock
	rend  *stubRenderer
}

func newFixture(t *testing.T, cfg Config) fixture {
	t.Helper()
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = time.Hour
	}
	sched := puzzle.NewManualScheduler()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rend := &stubRenderer{}
	seed := uint64(0)
	svc, err := NewService(rend, msgcat.MustDefault(), cfg, nil,
		WithScheduler(sched),
		WithClock(clock.Now),
		WithRandSource(func() puzzle.Rand {
			seed++
			return puzzle.SeededRand(seed)
		}),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return fixture{svc: svc, sched: sched, clock: clock, rend: rend}
}

var alice = SessionMeta{Room: "room-1", Sender: "alice"}

func TestOpenCreatesThenResumes(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	state, resumed, err := f.svc.Open(ctx, alice)
	if err != nil || resumed {
		t.Fatalf("Open: resumed=%v err=%v", resumed, err)
	}
	if state.Snapshot.Phase != puzzle.PhaseIdle || state.Snapshot.Mode.Size != 3 {
		t.Fatalf("unexpected initial state: %+v", state.Snapshot)
	}
	if string(state.BoardImage) != "png:"+state.BoardID {
		t.Fatalf("board image not attached")
	}

	again, resumed, err := f.svc.Open(ctx, SessionMeta{Room: " ROOM-1 ", Sender: "Alice"})
	if err != nil || !resumed {
		t.Fatalf("second Open: resumed=%v err=%v", resumed, err)
	}
	if again.SessionID != state.SessionID {
		t.Fatalf("expected the same session after normalization")
	}
}

func TestPlayFullRound(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	state, _, err := f.svc.Open(ctx, alice)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cells := state.Snapshot.Cells

	if _, err := f.svc.Start(ctx, alice); err != nil {
		t.Fatalf("Start: %v", err)
	}
	var last *ClickSummary
	for n := 1; n <= 9; n++ {
		idx := indexOfNumber(cells, n)
		last, err = f.svc.Click(ctx, alice, puzzle.CellLabel(3, idx))
		if err != nil {
			t.Fatalf("Click %d: %v", n, err)
		}
	}
	if last.Outcome.Kind != puzzle.OutcomeWin {
		t.Fatalf("last outcome = %s", last.Outcome)
	}
	if last.State.Snapshot.Message.Text != "축하합니다! 모두 맞혔습니다!" {
		t.Fatalf("win message = %q", last.State.Snapshot.Message.Text)
	}
	if _, err := f.svc.Start(ctx, alice); !errors.Is(err, puzzle.ErrRoundOver) {
		t.Fatalf("Start after win = %v, want ErrRoundOver", err)
	}
}

func TestClickWrongUsesCatalogAndClears(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	state, _, _ := f.svc.Open(ctx, alice)
	_, _ = f.svc.Start(ctx, alice)

	idx := indexOfNumber(state.Snapshot.Cells, 5)
	sum, err := f.svc.Click(ctx, alice, puzzle.CellLabel(3, idx))
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if sum.Outcome.Kind != puzzle.OutcomeFail || sum.Outcome.Expected != 1 {
		t.Fatalf("outcome = %s", sum.Outcome)
	}
	var wrong *puzzle.WrongNumberError
	if !errors.As(sum.Outcome.Err(), &wrong) || wrong.Got != 5 {
		t.Fatalf("outcome error = %v", sum.Outcome.Err())
	}
	if sum.State.Snapshot.Message.Text != "틀렸습니다! 1을(를) 눌러야 합니다" {
		t.Fatalf("wrong message = %q", sum.State.Snapshot.Message.Text)
	}

	f.sched.Advance(puzzle.WrongMarkDelay)
	st, _ := f.svc.Status(ctx, alice)
	if st.Snapshot.Cells[idx].Mark != puzzle.MarkNone {
		t.Fatalf("wrong mark not cleared: %s", st.Snapshot.Cells[idx].Mark)
	}
}

func TestClickBeforeStart(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	_, _, _ = f.svc.Open(ctx, alice)
	sum, err := f.svc.Click(ctx, alice, "1")
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if !errors.Is(sum.Outcome.Err(), puzzle.ErrNotStarted) {
		t.Fatalf("outcome = %s", sum.Outcome)
	}
}

func TestClickInvalidCell(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	_, _, _ = f.svc.Open(ctx, alice)
	for _, in := range []string{"z9", "10", "", "abc"} {
		if _, err := f.svc.Click(ctx, alice, in); !errors.Is(err, ErrInvalidCell) {
			t.Fatalf("Click(%q) err = %v", in, err)
		}
	}
}

func TestOperationsNeedSession(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, alice); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Start err = %v", err)
	}
	if _, err := f.svc.Click(ctx, alice, "a1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Click err = %v", err)
	}
	if _, err := f.svc.Status(ctx, alice); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Status err = %v", err)
	}
	st, err := f.svc.Reset(ctx, alice)
	if err != nil || st.Snapshot.Phase != puzzle.PhaseIdle {
		t.Fatalf("Reset should create a board: %v", err)
	}
}

func TestChangeSizeAndLevel(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	_, _, _ = f.svc.Open(ctx, alice)

	st, err := f.svc.ChangeSize(ctx, alice, 5)
	if err != nil || st.Snapshot.Mode.Size != 5 || len(st.Snapshot.Cells) != 25 {
		t.Fatalf("ChangeSize(5): %v %+v", err, st)
	}
	if _, err := f.svc.ChangeSize(ctx, alice, 6); !errors.Is(err, puzzle.ErrUnsupportedSize) {
		t.Fatalf("ChangeSize(6) err = %v", err)
	}

	st, err = f.svc.SelectLevel(ctx, alice, 2)
	if err != nil || st.Snapshot.Mode.Level != puzzle.Level2 || st.Snapshot.Total != 8 {
		t.Fatalf("SelectLevel(2): %v", err)
	}
	if _, err := f.svc.ChangeSize(ctx, alice, 3); !errors.Is(err, puzzle.ErrFixedSize) {
		t.Fatalf("ChangeSize in level 2 err = %v", err)
	}
	if _, err := f.svc.SelectLevel(ctx, alice, 7); !errors.Is(err, puzzle.ErrInvalidMode) {
		t.Fatalf("SelectLevel(7) err = %v", err)
	}
	st, err = f.svc.SelectLevel(ctx, alice, 1)
	if err != nil || st.Snapshot.Mode.Size != 3 {
		t.Fatalf("back to level 1 should use the default size: %v", err)
	}
}

func TestDecoy(t *testing.T) {
	f := newFixture(t, Config{DefaultLevel: 2})
	ctx := context.Background()
	_, _, _ = f.svc.Open(ctx, alice)

	st, err := f.svc.Decoy(ctx, alice)
	if err != nil {
		t.Fatalf("Decoy: %v", err)
	}
	if st.Snapshot.Message.Text != "Got you! 속았지?" || st.Snapshot.Phase != puzzle.PhaseIdle {
		t.Fatalf("decoy state = %+v", st.Snapshot.Message)
	}
	f.sched.Advance(puzzle.DecoyDelay)
	st, _ = f.svc.Status(ctx, alice)
	if !st.Snapshot.Message.Empty() {
		t.Fatalf("decoy message not cleared")
	}

	_, _ = f.svc.SelectLevel(ctx, alice, 1)
	if _, err := f.svc.Decoy(ctx, alice); !errors.Is(err, puzzle.ErrDecoyUnavailable) {
		t.Fatalf("Decoy in level 1 err = %v", err)
	}
}

func TestRoomAllowList(t *testing.T) {
	f := newFixture(t, Config{AllowedRooms: []string{" Room-1 "}})
	ctx := context.Background()
	if _, _, err := f.svc.Open(ctx, alice); err != nil {
		t.Fatalf("allowed room rejected: %v", err)
	}
	if _, _, err := f.svc.Open(ctx, SessionMeta{Room: "other", Sender: "bob"}); !errors.Is(err, ErrRoomNotAllowed) {
		t.Fatalf("err = %v", err)
	}
}

func TestSessionExpiryAndCap(t *testing.T) {
	f := newFixture(t, Config{SessionTTL: time.Minute, MaxSessions: 2})
	ctx := context.Background()
	bob := SessionMeta{Room: "room-1", Sender: "bob"}
	carol := SessionMeta{Room: "room-1", Sender: "carol"}

	_, _, _ = f.svc.Open(ctx, alice)
	_, _, _ = f.svc.Open(ctx, bob)
	if _, _, err := f.svc.Open(ctx, carol); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("cap err = %v", err)
	}

	f.clock.Advance(2 * time.Minute)
	if _, _, err := f.svc.Open(ctx, carol); err != nil {
		t.Fatalf("expired sessions should free capacity: %v", err)
	}
	if _, err := f.svc.Status(ctx, alice); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired session still reachable: %v", err)
	}
	if f.svc.ActiveSessions() != 1 {
		t.Fatalf("active = %d", f.svc.ActiveSessions())
	}
}

func TestSweepAndClose(t *testing.T) {
	f := newFixture(t, Config{SessionTTL: time.Minute})
	ctx := context.Background()
	_, _, _ = f.svc.Open(ctx, alice)
	_, _, _ = f.svc.Open(ctx, SessionMeta{Room: "room-2", Sender: "bob"})

	f.svc.Close(alice)
	if f.svc.ActiveSessions() != 1 {
		t.Fatalf("Close did not remove session")
	}
	f.clock.Advance(time.Hour)
	if n := f.svc.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d", n)
	}
}

func TestRenderFailureKeepsState(t *testing.T) {
	f := newFixture(t, Config{})
	f.rend.err = errors.New("boom")
	st, _, err := f.svc.Open(context.Background(), alice)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if st.BoardImage != nil {
		t.Fatalf("image should be empty when rendering fails")
	}
}

func TestNewServiceValidation(t *testing.T) {
	cat := msgcat.MustDefault()
	if _, err := NewService(nil, cat, Config{SessionTTL: time.Hour}, nil); err == nil {
		t.Fatalf("expected renderer error")
	}
	if _, err := NewService(&stubRenderer{}, cat, Config{}, nil); err == nil {
		t.Fatalf("expected ttl error")
	}
	if _, err := NewService(&stubRenderer{}, cat, Config{SessionTTL: time.Hour, DefaultSize: 9}, nil); !errors.Is(err, puzzle.ErrUnsupportedSize) {
		t.Fatalf("expected size error, got %v", err)
	}
}

func indexOfNumber(cells []puzzle.CellView, n int) int {
	for _, c := range cells {
		if c.Number == n {
			return c.Index
		}
	}
	return -1
}
