package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
)

const defaultSweepInterval = time.Minute

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
// Expired sessions are dropped when read and swept from Create at most once
// per sweep interval, so records whose cookie never comes back do not pile up.
type InMemoryRepo struct {
	mu            sync.RWMutex
	sessions      map[string]Session
	now           func() time.Time
	sweepInterval time.Duration
	lastSweep     time.Time
}

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryOption func(*InMemoryRepo)

// WithRepoClock overrides time.Now for expiry checks.
func WithRepoClock(now func() time.Time) InMemoryOption {
	return func(r *InMemoryRepo) {
		r.now = now
	}
}

// WithSweepInterval sets how often Create purges expired records.
func WithSweepInterval(d time.Duration) InMemoryOption {
	return func(r *InMemoryRepo) {
		r.sweepInterval = d
	}
}

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo(opts ...InMemoryOption) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions:      make(map[string]Session),
		now:           time.Now,
		sweepInterval: defaultSweepInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSweep = r.now()
	return r
}

// Create stores a new session, replacing any record with the same ID
func (r *InMemoryRepo) Create(_ context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if now := r.now(); now.Sub(r.lastSweep) >= r.sweepInterval {
		r.sweepLocked(now)
	}
	r.sessions[session.ID] = session
	return nil
}

// Len returns the number of records held, expired or not.
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// sweepLocked drops every expired record. Caller holds the write lock.
func (r *InMemoryRepo) sweepLocked(now time.Time) {
	for id, session := range r.sessions {
		if session.expired(now) {
			delete(r.sessions, id)
		}
	}
	r.lastSweep = now
}

// Get retrieves a session by ID
func (r *InMemoryRepo) Get(_ context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return Session{}, errors.ErrSessionNotFound
	}

	if session.expired(r.now()) {
		_ = r.Delete(context.Background(), sessionID)
		return Session{}, errors.ErrSessionExpired
	}
	return session, nil
}

// Update applies fn to a copy of the session under the write lock
func (r *InMemoryRepo) Update(_ context.Context, sessionID string, fn func(*Session) error) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return errors.ErrSessionNotFound
	}
	if session.expired(r.now()) {
		delete(r.sessions, sessionID)
		return errors.ErrSessionExpired
	}

	if err := fn(&session); err != nil {
		return err
	}
	session.ID = sessionID
	r.sessions[sessionID] = session
	return nil
}

// Delete removes a session
func (r *InMemoryRepo) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID) // Already doesn't exist, no error
	return nil
}
