package server

import (
	"context"
	"html/template"
	"net/http"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/internal/metrics"
	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/jrsteele09/go-oauth-client/resource"
	"github.com/jrsteele09/go-oauth-client/sessions"
	"github.com/rs/zerolog/log"
)

type pageData struct {
	AppName  string
	LoginURL string
	Profile  *resource.Profile
	Rooms    []resource.Room
	Error    string
	Message  string
}

// IndexHandler shows the profile of an authenticated session, or the sign in
// link otherwise. The link carries the session's pending state, creating one
// if this is the first visit.
func (s *Server) IndexHandler() http.HandlerFunc {
	indexTmpl := mustParseTemplate("index.html")
	profileTmpl := mustParseTemplate("profile.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, session, err := s.currentSession(r)
		if err != nil {
			s.renderError(w, r, err)
			return
		}

		if session.Authenticated() {
			s.renderProfile(w, r, profileTmpl, session.AccessToken)
			return
		}

		state, err := s.pendingState(r.Context(), sessionID)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		renderTemplate(w, indexTmpl, http.StatusOK, pageData{
			AppName:  s.appName,
			LoginURL: s.oauth.AuthorizationURL(state),
		})
	}
}

// CallbackHandler completes the flow: it verifies the callback against the
// session's pending state, exchanges the code, binds the tokens and shows the
// user's profile. Any failure before the bind leaves the session untouched.
func (s *Server) CallbackHandler() http.HandlerFunc {
	profileTmpl := mustParseTemplate("profile.html")

	return func(w http.ResponseWriter, r *http.Request) {
		params := oauthmodel.CallbackParamsFromRequest(r)
		sessionID, session, err := s.currentSession(r)
		if err != nil {
			s.renderError(w, r, err)
			return
		}

		// A configured fixed state is always expected, even before "/" issued it.
		expectedState := session.PendingState
		if fixed := s.oauth.Registration().FixedState; expectedState == "" && fixed != "" {
			expectedState = fixed
		}

		tokens, err := s.oauth.ExchangeCode(r.Context(), params, expectedState)
		if exchangeAttempted(err) {
			s.metrics.ObserveTokenExchange(string(oauth2.AuthorizationCodeGrant), outcomeLabel(err))
		}
		if err != nil {
			if errors.Is(err, oauthmodel.ErrStateMismatch) {
				log.Warn().Str("session", sessionID).Msg("callback state does not match the session's pending state")
			}
			s.renderError(w, r, err)
			return
		}

		// Bind only if the pending state is still the one this callback was checked against.
		pendingAtCheck := session.PendingState
		now := s.sessions.Now()
		err = s.sessions.Repo().Update(r.Context(), sessionID, func(sess *sessions.Session) error {
			if sess.PendingState != pendingAtCheck {
				return oauthmodel.ErrStaleSession
			}
			sess.PendingState = ""
			sess.BindTokens(tokens, now)
			return nil
		})
		if err != nil {
			s.renderError(w, r, staleIfGone(err))
			return
		}
		log.Info().Str("session", sessionID).Msg("access token bound to session")

		s.renderProfile(w, r, profileTmpl, tokens.AccessToken)
	}
}

// RoomsHandler lists the user's rooms. Sessions without a token are sent to
// the home page to sign in.
func (s *Server) RoomsHandler() http.HandlerFunc {
	roomsTmpl := mustParseTemplate("rooms.html")

	return func(w http.ResponseWriter, r *http.Request) {
		_, session, err := s.currentSession(r)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		if !session.Authenticated() {
			http.Redirect(w, r, RouteHome, http.StatusSeeOther)
			return
		}

		rooms, err := s.resources.Rooms(r.Context(), session.AccessToken)
		s.metrics.ObserveResourceRequest(metrics.ResourceRooms, outcomeLabel(err))
		data := pageData{AppName: s.appName}
		status := http.StatusOK
		if err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			outcome := OutcomeFor(err)
			status, data.Error = outcome.Status, outcome.Message
		} else {
			data.Rooms = rooms.Items
		}
		renderTemplate(w, roomsTmpl, status, data)
	}
}

// RefreshHandler renews the token pair with the stored refresh token. The new
// pair replaces the old one only if the access token has not changed since the
// refresh began.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, session, err := s.currentSession(r)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		if session.RefreshToken == "" {
			http.Redirect(w, r, RouteHome, http.StatusSeeOther)
			return
		}

		tokens, err := s.oauth.RefreshToken(r.Context(), session.RefreshToken)
		s.metrics.ObserveTokenExchange(string(oauth2.RefreshTokenGrant), outcomeLabel(err))
		if err != nil {
			s.renderError(w, r, err)
			return
		}

		previous := session.AccessToken
		now := s.sessions.Now()
		err = s.sessions.Repo().Update(r.Context(), sessionID, func(sess *sessions.Session) error {
			if sess.AccessToken != previous {
				return oauthmodel.ErrStaleSession
			}
			sess.BindTokens(tokens, now)
			return nil
		})
		if err != nil {
			s.renderError(w, r, staleIfGone(err))
			return
		}
		log.Info().Str("session", sessionID).Msg("token pair refreshed")
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
	}
}

// LogoutHandler sends the user agent to the provider's logout endpoint and
// destroys the session whatever the outcome.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if _, session, err := s.currentSession(r); err == nil {
			token = session.AccessToken
		}

		logoutURL, err := LogoutURL(s.logoutEndpoint, s.oauth.Registration().RedirectURI, token)
		if err != nil {
			log.Err(err).Msg("failed to build logout URL")
			logoutURL = RouteHome
		}

		if err := s.sessions.Destroy(w, r); err != nil {
			log.Err(err).Msg("failed to delete session")
		}
		s.metrics.IncrementLogouts()
		http.Redirect(w, r, logoutURL, http.StatusFound)
	}
}

func (s *Server) currentSession(r *http.Request) (string, sessions.Session, error) {
	sessionID, ok := sessions.SessionIDFromContext(r.Context())
	if !ok {
		return "", sessions.Session{}, errors.ErrSessionNotFound
	}
	session, err := s.sessions.Repo().Get(r.Context(), sessionID)
	if err != nil {
		return "", sessions.Session{}, err
	}
	return sessionID, session, nil
}

// pendingState returns the session's pending state, issuing one if the
// session has none. Concurrent first visits agree on a single value.
func (s *Server) pendingState(ctx context.Context, sessionID string) (string, error) {
	var state string
	err := s.sessions.Repo().Update(ctx, sessionID, func(sess *sessions.Session) error {
		if sess.PendingState == "" {
			sess.PendingState = s.oauth.NewState()
		}
		state = sess.PendingState
		return nil
	})
	return state, err
}

// renderProfile fetches and shows the token's profile. A failed lookup is shown
// on the page; the session keeps its token.
func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, tmpl *template.Template, token string) {
	profile, err := s.resources.Profile(r.Context(), token)
	s.metrics.ObserveResourceRequest(metrics.ResourceProfile, outcomeLabel(err))

	data := pageData{AppName: s.appName, Profile: profile}
	status := http.StatusOK
	if err != nil {
		logError(r.Method, r.URL.Path, err.Error())
		outcome := OutcomeFor(err)
		status, data.Error = outcome.Status, outcome.Message
	}
	renderTemplate(w, tmpl, status, data)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	outcome := OutcomeFor(err)
	if outcome.Status >= http.StatusInternalServerError {
		logError(r.Method, r.URL.Path, err.Error())
	}
	renderTemplate(w, s.errorTmpl, outcome.Status, pageData{AppName: s.appName, Message: outcome.Message})
}

// staleIfGone treats a session that vanished mid-flow (logout, expiry) like
// one that moved on to a newer flow.
func staleIfGone(err error) error {
	if errors.Is(err, errors.ErrSessionNotFound) || errors.Is(err, errors.ErrSessionExpired) {
		return oauthmodel.ErrStaleSession
	}
	return err
}

// exchangeAttempted reports whether ExchangeCode got as far as the token endpoint.
func exchangeAttempted(err error) bool {
	switch oauthmodel.KindOf(err) {
	case oauthmodel.KindAuthorizationDenied, oauthmodel.KindMalformedCallback, oauthmodel.KindStateMismatch:
		return false
	}
	return true
}
