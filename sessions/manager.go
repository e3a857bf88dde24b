package sessions

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/rs/zerolog/log"
)

type contextKey struct{}

// Manager ties the session cookie to records in a Repo.
type Manager struct {
	repo     Repo
	signer   *CookieSigner
	maxAge   time.Duration
	now      func() time.Time
	onCreate func()
}

type ManagerOption func(*Manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// WithCreateHook registers a callback invoked each time a new session is created.
func WithCreateHook(fn func()) ManagerOption {
	return func(m *Manager) {
		m.onCreate = fn
	}
}

func NewManager(repo Repo, signer *CookieSigner, maxAge time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{
		repo:   repo,
		signer: signer,
		maxAge: maxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Repo() Repo {
	return m.repo
}

func (m *Manager) Now() time.Time {
	return m.now()
}

// Middleware makes sure every request carries a live session. A missing,
// invalid or expired cookie gets a fresh session and a new cookie.
func (m *Manager) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := m.existing(r)
		if !ok {
			session, err := m.create(r.Context())
			if err != nil {
				log.Err(err).Msg("failed to create session")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			if err := m.setCookie(w, r, session); err != nil {
				log.Err(err).Msg("failed to sign session cookie")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			sessionID = session.ID
		}
		next(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
	}
}

// Destroy expires the session cookie and deletes the session behind the
// request. The cookie is expired even when the delete fails.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	if sessionID, ok := SessionIDFromContext(r.Context()); ok {
		if err := m.repo.Delete(r.Context(), sessionID); err != nil {
			return errors.Wrapf(err, "[sessions Manager.Destroy] session %s", sessionID)
		}
	}
	return nil
}

func (m *Manager) existing(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	sessionID, err := m.signer.Verify(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("discarding session cookie")
		return "", false
	}
	if _, err := m.repo.Get(r.Context(), sessionID); err != nil {
		if !errors.Is(err, errors.ErrSessionNotFound) && !errors.Is(err, errors.ErrSessionExpired) {
			log.Err(err).Str("session", sessionID).Msg("session lookup failed")
		}
		return "", false
	}
	return sessionID, true
}

func (m *Manager) create(ctx context.Context) (Session, error) {
	now := m.now()
	session := Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.maxAge),
	}
	if err := m.repo.Create(ctx, session); err != nil {
		return Session{}, errors.Wrapf(err, "[sessions Manager.create]")
	}
	if m.onCreate != nil {
		m.onCreate()
	}
	return session, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, r *http.Request, session Session) error {
	value, err := m.signer.Sign(session.ID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.maxAge.Seconds()),
	})
	return nil
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKey{}, sessionID)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(contextKey{}).(string)
	return sessionID, ok && sessionID != ""
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
