package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soaringjerry/QuickScan/internal/services"
)

const defaultSessionTTL = 2 * time.Hour

// sessionRegistry holds in-flight respondent sessions for this process.
// Each entry has its own lock because services.Session is not safe for
// concurrent use.
type sessionRegistry struct {
	mu      sync.Mutex
	engine  *services.Engine
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *services.Session
	touched time.Time
}

func newSessionRegistry(engine *services.Engine, ttl time.Duration) *sessionRegistry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionRegistry{engine: engine, ttl: ttl, now: time.Now, entries: map[string]*sessionEntry{}}
}

func (r *sessionRegistry) start() *sessionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweepLocked(now)
	id := uuid.NewString()
	e := &sessionEntry{session: r.engine.NewSession(id), touched: now}
	r.entries[id] = e
	return e
}

func (r *sessionRegistry) get(id string) (*sessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(e.touched) > r.ttl {
		delete(r.entries, id)
		return nil, false
	}
	e.touched = now
	return e, true
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *sessionRegistry) sweepLocked(now time.Time) {
	for id, e := range r.entries {
		if now.Sub(e.touched) > r.ttl {
			delete(r.entries, id)
		}
	}
}
