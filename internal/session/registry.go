package session

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/storage"
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

// Registry hands out one Service per browsing context. Services live in a
// bounded cache and are dropped after sitting idle; the persisted record
// brings a dropped context back on its next request.
type Registry struct {
	Directory *Directory

	store storage.SessionStore
	delay time.Duration
	log   zerolog.Logger

	mu       sync.Mutex
	sessions *expirable.LRU[string, *Service]
}

// NewRegistry uses config.MaxCachedSessions and config.SessionIdleTTL.
func NewRegistry(dir *Directory, store storage.SessionStore, delay time.Duration, log zerolog.Logger) *Registry {
	return NewBoundedRegistry(dir, store, delay, config.MaxCachedSessions, config.SessionIdleTTL, log)
}

// NewBoundedRegistry keeps at most size sessions and drops any left unused for idle.
func NewBoundedRegistry(dir *Directory, store storage.SessionStore, delay time.Duration, size int, idle time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		Directory: dir,
		store:     store,
		delay:     delay,
		log:       log,
		sessions:  expirable.NewLRU[string, *Service](size, nil, idle),
	}
}

// Key is the persisted-record key for a browsing context.
func Key(contextID string) string {
	return contextID + ":" + config.SessionKey
}

// Get returns the session of contextID, restoring it from the store when it
// is not cached.
func (r *Registry) Get(ctx context.Context, contextID string) *Service {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions.Get(contextID); ok {
		// Re-adding resets the idle deadline.
		r.sessions.Add(contextID, s)
		return s
	}
	s := NewService(r.Directory, r.store, Key(contextID), r.delay, r.log)
	s.Restore(ctx)
	r.sessions.Add(contextID, s)
	return s
}

// Forget drops the cached session of contextID.
func (r *Registry) Forget(contextID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Remove(contextID)
}

// Len returns the number of cached sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}
