package search

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/domain"
	"github.com/kailas-cloud/caselens/internal/metrics"
)

// MaxSessionIDLength bounds session identifiers supplied by the UI.
const MaxSessionIDLength = 128

const (
	defaultMaxSessions = 1000
	defaultIdleTTL     = 30 * time.Minute
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	MaxSessions int
	IdleTTL     time.Duration
	Logger      *zap.Logger
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

// Registry holds one Session per UI session id in memory. Idle sessions are
// evicted on access and by the janitor started with Start.
type Registry struct {
	newSession func() *Session
	max        int
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
	started  bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRegistry creates a registry. newSession builds a fresh orchestrator.
func NewRegistry(newSession func() *Session, opts RegistryOptions) *Registry {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Registry{
		newSession: newSession,
		max:        opts.MaxSessions,
		ttl:        opts.IdleTTL,
		logger:     l,
		now:        time.Now,
		sessions:   make(map[string]*entry),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Get returns the session for id, creating it if needed.
func (r *Registry) Get(id string) (*Session, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	now := r.now()
	if e, ok := r.sessions[id]; ok && now.Sub(e.lastUsed) < r.ttl {
		e.lastUsed = now
		r.mu.Unlock()
		return e.session, nil
	}

	evicted := r.evictLocked(now)
	if len(r.sessions) >= r.max {
		r.mu.Unlock()
		closeAll(evicted)
		return nil, fmt.Errorf("%d sessions open: %w", r.max, domain.ErrSessionLimit)
	}
	s := r.newSession()
	r.sessions[id] = &entry{session: s, lastUsed: now}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	closeAll(evicted)
	r.logger.Debug("session created", zap.String("session", id))
	return s, nil
}

// Lookup returns an existing, non-expired session without creating one.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(e.lastUsed) >= r.ttl {
		return nil, false
	}
	e.lastUsed = now
	return e.session, true
}

// Delete ends the session for id and reports whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if ok {
		e.session.Close()
	}
	return ok
}

// Len returns the number of sessions held, expired ones included until evicted.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle removes sessions idle for longer than the TTL and returns how many.
func (r *Registry) EvictIdle() int {
	r.mu.Lock()
	evicted := r.evictLocked(r.now())
	r.mu.Unlock()

	closeAll(evicted)
	if len(evicted) > 0 {
		r.logger.Debug("idle sessions evicted", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// Start runs the janitor, evicting idle sessions every interval until Close.
func (r *Registry) Start(interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	go r.run(interval)
}

func (r *Registry) run(interval time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

// Close stops the janitor and closes every session.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if started {
		<-r.done
	}

	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, e := range r.sessions {
		all = append(all, e.session)
		delete(r.sessions, id)
	}
	metrics.ActiveSessions.Set(0)
	r.mu.Unlock()

	closeAll(all)
}

func (r *Registry) evictLocked(now time.Time) []*Session {
	var evicted []*Session
	for id, e := range r.sessions {
		if now.Sub(e.lastUsed) >= r.ttl {
			evicted = append(evicted, e.session)
			delete(r.sessions, id)
		}
	}
	if len(evicted) > 0 {
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
	return evicted
}

func closeAll(sessions []*Session) {
	for _, s := range sessions {
		s.Close()
	}
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("session id is required: %w", domain.ErrInvalidArgument)
	}
	if len(id) > MaxSessionIDLength {
		return fmt.Errorf("session id too long (max %d): %w", MaxSessionIDLength, domain.ErrInvalidArgument)
	}
	return nil
}
