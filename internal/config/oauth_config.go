package config

import (
	"strings"

	"github.com/jrsteele09/go-oauth-client/oauthmodel"
)

const (
	clientIDVar              = "CLIENT_ID"
	clientSecretVar          = "CLIENT_SECRET"
	redirectURIVar           = "REDIRECT_URI"
	scopesVar                = "SCOPES"
	stateVar                 = "STATE"
	authorizationEndpointVar = "AUTHORIZATION_ENDPOINT"
	tokenEndpointVar         = "TOKEN_ENDPOINT"
	logoutEndpointVar        = "LOGOUT_ENDPOINT"
	peopleEndpointVar        = "PEOPLE_ENDPOINT"
	roomsEndpointVar         = "ROOMS_ENDPOINT"
	oidcIssuerVar            = "OIDC_ISSUER"
)

const (
	defaultScopes                = "spark:people_read spark:rooms_read"
	defaultAuthorizationEndpoint = "https://webexapis.com/v1/authorize"
	defaultTokenEndpoint         = "https://webexapis.com/v1/access_token"
	defaultLogoutEndpoint        = "https://idbroker.webex.com/idb/oauth2/v1/logout"
	defaultPeopleEndpoint        = "https://webexapis.com/v1/people/me"
	defaultRoomsEndpoint         = "https://webexapis.com/v1/rooms"
)

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetScopes() []string
	GetStateOverride() string
	GetAuthorizationEndpoint() string
	GetTokenEndpoint() string
	GetLogoutEndpoint() string
	GetPeopleEndpoint() string
	GetRoomsEndpoint() string
	GetOIDCIssuer() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetClientID() string {
	return GetEnv(clientIDVar, "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

func (OAuth) GetRedirectURI() string {
	return GetEnv(redirectURIVar, "")
}

// GetScopes splits the space separated SCOPES value, keeping the configured order.
func (OAuth) GetScopes() []string {
	return strings.Fields(GetEnv(scopesVar, defaultScopes))
}

// GetStateOverride returns a fixed state value, or "" to generate one per flow.
func (OAuth) GetStateOverride() string {
	return GetEnv(stateVar, "")
}

func (OAuth) GetAuthorizationEndpoint() string {
	return GetEnv(authorizationEndpointVar, defaultAuthorizationEndpoint)
}

func (OAuth) GetTokenEndpoint() string {
	return GetEnv(tokenEndpointVar, defaultTokenEndpoint)
}

func (OAuth) GetLogoutEndpoint() string {
	return GetEnv(logoutEndpointVar, defaultLogoutEndpoint)
}

func (OAuth) GetPeopleEndpoint() string {
	return GetEnv(peopleEndpointVar, defaultPeopleEndpoint)
}

func (OAuth) GetRoomsEndpoint() string {
	return GetEnv(roomsEndpointVar, defaultRoomsEndpoint)
}

// GetOIDCIssuer enables endpoint discovery when set.
func (OAuth) GetOIDCIssuer() string {
	return GetEnv(oidcIssuerVar, "")
}

// Validate checks the client registration. A failure is fatal: the process must
// not start serving.
func Validate(c OAuthConfig) error {
	var missing []string
	if c.GetClientID() == "" {
		missing = append(missing, clientIDVar)
	}
	if c.GetClientSecret() == "" {
		missing = append(missing, clientSecretVar)
	}
	if c.GetRedirectURI() == "" {
		missing = append(missing, redirectURIVar)
	}
	if len(missing) > 0 {
		return oauthmodel.NewConfigurationError(missing...)
	}
	return nil
}
