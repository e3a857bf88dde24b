package server_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-oauth-client/internal/metrics"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/jrsteele09/go-oauth-client/server"
	"github.com/stretchr/testify/require"
)

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"access denied", oauthmodel.NewAuthorizationDenied("access_denied", ""), http.StatusForbidden},
		{"invalid scope", oauthmodel.NewAuthorizationDenied("invalid_scope", ""), http.StatusBadRequest},
		{"server error", oauthmodel.NewAuthorizationDenied("server_error", ""), http.StatusBadGateway},
		{"unknown denial", oauthmodel.NewAuthorizationDenied("login_required", ""), http.StatusBadRequest},
		{"malformed callback", oauthmodel.ErrMalformedCallback, http.StatusBadRequest},
		{"state mismatch", oauthmodel.ErrStateMismatch, http.StatusForbidden},
		{"stale session", oauthmodel.ErrStaleSession, http.StatusConflict},
		{"network", oauthmodel.NewNetworkError(errors.New("refused")), http.StatusGatewayTimeout},
		{"bad request", oauthmodel.NewBadRequest("nope"), http.StatusBadRequest},
		{"auth failure", oauthmodel.NewAuthFailure(), http.StatusBadGateway},
		{"unexpected status", oauthmodel.NewUnexpectedStatus(503), http.StatusBadGateway},
		{"malformed token response", oauthmodel.NewMalformedTokenResponse(nil), http.StatusBadGateway},
		{"malformed response", oauthmodel.NewMalformedResponse(nil), http.StatusBadGateway},
		{"wrapped", fmt.Errorf("callback: %w", oauthmodel.ErrStateMismatch), http.StatusForbidden},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError},
	}

	messages := map[string]string{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := server.OutcomeFor(tt.err)
			require.Equal(t, tt.status, outcome.Status)
			require.NotEmpty(t, outcome.Message)
			messages[tt.name] = outcome.Message
		})
	}

	// Each denial reason reads differently.
	require.NotEqual(t, messages["access denied"], messages["invalid scope"])
	require.NotEqual(t, messages["invalid scope"], messages["server error"])
	require.Contains(t, messages["unknown denial"], "login_required")
	require.Contains(t, messages["bad request"], "nope")
	require.Contains(t, messages["unexpected status"], "503")
}

func TestOutcomeLabels(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, body := h.get("/metrics")
	require.Contains(t, body, `outcome="`+metrics.OutcomeSuccess+`"`)
}
