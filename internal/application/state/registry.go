package state

import (
	"sync"
	"time"
)

type entry struct {
	state    *AppState
	lastUsed time.Time
}

// Registry owns the AppState of every live session, keyed by session token.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry), now: time.Now}
}

// GetOrCreate returns the state of a token, creating an empty one when missing.
// created reports whether the state is new and still needs its first load.
// PRE: token is non-empty, gymID > 0
func (r *Registry) GetOrCreate(token string, gymID int, adminUsername string) (st *AppState, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[token]; ok {
		e.lastUsed = r.now()
		return e.state, false
	}
	st = New(gymID, adminUsername)
	r.entries[token] = &entry{state: st, lastUsed: r.now()}
	return st, true
}

// Drop discards the state of a token.
// POST: A later GetOrCreate for token starts from an empty state
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
}

// Len returns the number of live states.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops states unused for longer than maxIdle and returns how many were dropped.
// The durable session survives; its state is rebuilt on the next request.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	n := 0
	for token, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, token)
			n++
		}
	}
	return n
}
