package panel

import (
	"sync"
	"time"

	"github.com/aanand-mishra/students-hub/internal/admin"
)

// Registry maps view ids (kept in the browser's session cookie) to their
// admin.Session.
type Registry struct {
	mu       sync.Mutex
	pageSize int
	now      func() time.Time
	entries  map[string]*entry
}

type entry struct {
	session  *admin.Session
	lastSeen time.Time
}

// NewRegistry returns an empty registry whose sessions use pageSize.
func NewRegistry(pageSize int) *Registry {
	return &Registry{
		pageSize: pageSize,
		now:      time.Now,
		entries:  make(map[string]*entry),
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *admin.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		e = &entry{session: admin.NewSession(r.pageSize)}
		r.entries[id] = e
	}
	e.lastSeen = r.now()
	return e.session
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were dropped.
func (r *Registry) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	n := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}
