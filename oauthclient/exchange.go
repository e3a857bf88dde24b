package oauthclient

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/tidwall/gjson"
)

const (
	maxResponseSize      = 1 << 20
	contentTypeForm      = "application/x-www-form-urlencoded"
	defaultBadRequestMsg = "the provider rejected the token request"
)

// ExchangeCode verifies the callback and trades its authorization code for a
// token bundle. The checks run in order and each one short circuits:
// a provider error, a missing code or state, then a state mismatch. The code is
// only transmitted once all of them pass.
func (c *Client) ExchangeCode(ctx context.Context, params oauthmodel.CallbackParams, expectedState string) (*oauth2.TokenResponse, error) {
	if params.Error != "" {
		return nil, oauthmodel.NewAuthorizationDenied(params.Error, params.ErrorDescription)
	}
	if params.Code == "" || params.State == "" {
		return nil, oauthmodel.ErrMalformedCallback
	}
	if !StatesEqual(params.State, expectedState) {
		return nil, oauthmodel.ErrStateMismatch
	}

	return c.tokenRequest(ctx, oauthmodel.TokenRequest{
		GrantType:    oauth2.AuthorizationCodeGrant,
		ClientID:     c.reg.ClientID,
		ClientSecret: c.reg.ClientSecret,
		Code:         params.Code,
		RedirectURI:  c.reg.RedirectURI,
	})
}

// RefreshToken trades a refresh token for a new token bundle. Failures are
// classified exactly like ExchangeCode; retrying is left to the caller.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.TokenResponse, error) {
	if refreshToken == "" {
		return nil, oauthmodel.ErrMalformedCallback
	}
	return c.tokenRequest(ctx, oauthmodel.TokenRequest{
		GrantType:    oauth2.RefreshTokenGrant,
		ClientID:     c.reg.ClientID,
		ClientSecret: c.reg.ClientSecret,
		RefreshToken: refreshToken,
	})
}

// StatesEqual reports whether the received state exactly matches the expected
// one. An empty expected state never matches.
func StatesEqual(received, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}

func (c *Client) tokenRequest(ctx context.Context, tr oauthmodel.TokenRequest) (*oauth2.TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.reg.Endpoint.TokenURL, strings.NewReader(tr.Values().Encode()))
	if err != nil {
		return nil, fmt.Errorf("[oauthclient tokenRequest] building request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oauthmodel.NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, oauthmodel.NewNetworkError(err)
	}

	return parseTokenResponse(resp.StatusCode, body)
}

func parseTokenResponse(statusCode int, body []byte) (*oauth2.TokenResponse, error) {
	switch statusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, oauthmodel.NewBadRequest(providerMessage(body))
	case http.StatusUnauthorized:
		return nil, oauthmodel.NewAuthFailure()
	default:
		return nil, oauthmodel.NewUnexpectedStatus(statusCode)
	}

	if err := oauthmodel.RequireJSONFields(body, oauth2.RequiredTokenFields...); err != nil {
		return nil, oauthmodel.NewMalformedTokenResponse(err)
	}

	var tr oauth2.TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, oauthmodel.NewMalformedTokenResponse(err)
	}
	return &tr, nil
}

func providerMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return defaultBadRequestMsg
	}
	if msg := gjson.GetBytes(body, "message").String(); msg != "" {
		return msg
	}
	return defaultBadRequestMsg
}
