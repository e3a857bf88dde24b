package oauthmodel

import (
	"net/url"

	"github.com/jrsteele09/go-oauth-client/oauth2"
)

// TokenRequest holds the form parameters POSTed to the provider's token endpoint.
type TokenRequest struct {
	GrantType oauth2.GrantType

	ClientID string

	// ClientSecret authenticates this confidential client.
	// Security: Never log or expose this value
	ClientSecret string

	// Code is only sent for the authorization_code grant.
	Code string

	// RedirectURI must be identical to the one used in the authorization request.
	// Omitted for the refresh_token grant.
	RedirectURI string

	// RefreshToken is only sent for the refresh_token grant.
	RefreshToken string
}

// Values encodes the request as an application/x-www-form-urlencoded body.
func (t TokenRequest) Values() url.Values {
	v := url.Values{
		"grant_type":    {string(t.GrantType)},
		"client_id":     {t.ClientID},
		"client_secret": {t.ClientSecret},
	}
	switch t.GrantType {
	case oauth2.AuthorizationCodeGrant:
		v.Set("code", t.Code)
		v.Set("redirect_uri", t.RedirectURI)
	case oauth2.RefreshTokenGrant:
		v.Set("refresh_token", t.RefreshToken)
	}
	return v
}
