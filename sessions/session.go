package sessions

import (
	"time"

	"github.com/jrsteele09/go-oauth-client/oauth2"
)

// Session is the server side record behind one user agent's session cookie.
// It carries the state of an in-flight authorization flow and, once the flow
// has completed, the tokens issued for it.
type Session struct {
	ID string `json:"id"`

	// PendingState is the state issued for the flow currently awaiting its
	// callback. Cleared when the callback binds tokens (single use).
	PendingState string `json:"pending_state,omitempty"`

	AccessToken           string    `json:"access_token,omitempty"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	TokenExpiresAt        time.Time `json:"token_expires_at,omitzero"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitzero"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether an access token is bound to the session.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// BindTokens stores a token bundle issued at now.
func (s *Session) BindTokens(tokens *oauth2.TokenResponse, now time.Time) {
	s.AccessToken = tokens.AccessToken
	s.RefreshToken = tokens.RefreshToken
	s.TokenExpiresAt = tokens.ExpiresAt(now)
	s.RefreshTokenExpiresAt = tokens.RefreshTokenExpiresAt(now)
}

func (s *Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
