package api

import (
	"log/slog"
	"sync"
)

// Registry is the set of live sessions. Add and Remove are idempotent and
// safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
	onChange func(n int)
	logger   *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[*Session]struct{}),
		logger:   logger,
	}
}

// OnChange registers a function called with the new session count after
// every membership change. It runs outside the registry lock.
func (r *Registry) OnChange(fn func(n int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Add registers a session. It reports false if it was already present.
func (r *Registry) Add(s *Session) bool {
	r.mu.Lock()
	if _, ok := r.sessions[s]; ok {
		r.mu.Unlock()
		return false
	}
	r.sessions[s] = struct{}{}
	n, fn := len(r.sessions), r.onChange
	r.mu.Unlock()

	r.logger.Info("Mobile device connected", "addr", s.Addr(), "clients", n)
	if fn != nil {
		fn(n)
	}
	return true
}

// Remove unregisters a session. It reports false if it was not present.
func (r *Registry) Remove(s *Session) bool {
	r.mu.Lock()
	if _, ok := r.sessions[s]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.sessions, s)
	n, fn := len(r.sessions), r.onChange
	r.mu.Unlock()

	r.logger.Info("Mobile device disconnected", "addr", s.Addr(), "clients", n)
	if fn != nil {
		fn(n)
	}
	return true
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sessions returns a snapshot of the live sessions
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for s := range r.sessions {
		out = append(out, s)
	}
	return out
}
