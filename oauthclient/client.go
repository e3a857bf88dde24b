package oauthclient

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	xoauth2 "golang.org/x/oauth2"
)

const defaultTimeout = 10 * time.Second

// Registration is the static client registration with the provider.
type Registration struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	Endpoint     xoauth2.Endpoint

	// FixedState replaces per-flow random state values when set.
	FixedState string
}

// Client talks to the provider's authorization and token endpoints on behalf
// of one confidential client.
type Client struct {
	reg        Registration
	authConfig *xoauth2.Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for token endpoint calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New validates the registration and returns a Client. Missing credentials are
// a configuration error and must stop the process from serving.
func New(reg Registration, opts ...Option) (*Client, error) {
	var missing []string
	if reg.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if reg.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if reg.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if reg.Endpoint.AuthURL == "" {
		missing = append(missing, "authorization_endpoint")
	}
	if reg.Endpoint.TokenURL == "" {
		missing = append(missing, "token_endpoint")
	}
	if len(missing) > 0 {
		return nil, oauthmodel.NewConfigurationError(missing...)
	}

	reg.Endpoint.AuthStyle = xoauth2.AuthStyleInParams
	c := &Client{
		reg: reg,
		authConfig: &xoauth2.Config{
			ClientID:     reg.ClientID,
			ClientSecret: reg.ClientSecret,
			RedirectURL:  reg.RedirectURI,
			Scopes:       reg.Scopes,
			Endpoint:     reg.Endpoint,
		},
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Registration returns a copy of the client registration.
func (c *Client) Registration() Registration {
	return c.reg
}

// NewState returns the state value for a new flow.
func (c *Client) NewState() string {
	if c.reg.FixedState != "" {
		return c.reg.FixedState
	}
	return GenerateState()
}

// AuthorizationURL builds the provider authorization URL for the given state.
// Parameters are query encoded in key order and scopes are joined by a single
// space before encoding, so identical inputs always give identical URLs.
func (c *Client) AuthorizationURL(state string) string {
	return c.authConfig.AuthCodeURL(state)
}
