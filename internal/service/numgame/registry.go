package numgame

import (
	"sync"
	"time"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
)

type entry struct {
	session   *puzzle.Session
	identity  sessionIdentity
	createdAt time.Time
	touchedAt time.Time
}

// registry is the in-memory session store. Entries idle longer than ttl are
// dropped lazily on access and by sweep.
type registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	now     func() time.Time
	entries map[string]*entry
}

func newRegistry(ttl time.Duration, max int, now func() time.Time) *registry {
	if now == nil {
		now = time.Now
	}
	return &registry{
		ttl:     ttl,
		max:     max,
		now:     now,
		entries: make(map[string]*entry),
	}
}

func (r *registry) get(key string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.expired(e, now) {
		delete(r.entries, key)
		return nil, false
	}
	e.touchedAt = now
	return e, true
}

func (r *registry) put(key string, e *entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if _, exists := r.entries[key]; !exists && r.max > 0 && len(r.entries) >= r.max {
		r.sweepLocked(now)
		if len(r.entries) >= r.max {
			return ErrTooManySessions
		}
	}
	if e.createdAt.IsZero() {
		e.createdAt = now
	}
	e.touchedAt = now
	r.entries[key] = e
	return nil
}

func (r *registry) delete(key string) {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
}

func (r *registry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *registry) sweepLocked(now time.Time) int {
	removed := 0
	for k, e := range r.entries {
		if r.expired(e, now) {
			delete(r.entries, k)
			removed++
		}
	}
	return removed
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *registry) expired(e *entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.touchedAt) > r.ttl
}
