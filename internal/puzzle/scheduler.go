package puzzle

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs one-shot delayed tasks. Tasks are fire-and-forget: they are
// not cancelled and nothing waits for them.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// RealScheduler runs tasks on time.AfterFunc goroutines.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

type manualTask struct {
	at  time.Duration
	seq int
	fn  func()
}

// ManualScheduler is a virtual clock. Tasks run only when Advance moves the
// clock past their due time, on the goroutine calling Advance.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []manualTask
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks = append(s.tasks, manualTask{at: s.now + d, seq: s.seq, fn: f})
}

// Advance moves the clock forward by d and runs every task that became due,
// in due-time order (ties in scheduling order).
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	now := s.now
	var due, rest []manualTask
	for _, t := range s.tasks {
		if t.at <= now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	s.tasks = rest
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of tasks not yet run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
