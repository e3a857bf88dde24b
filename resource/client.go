package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	xoauth2 "golang.org/x/oauth2"
)

const (
	maxResponseSize = 1 << 20
	defaultTimeout  = 10 * time.Second
)

// Endpoints are the protected resources the client knows by name.
type Endpoints struct {
	// People is the profile lookup for the token's user, e.g. https://webexapis.com/v1/people/me
	People string

	// Rooms lists the rooms the user belongs to, e.g. https://webexapis.com/v1/rooms
	Rooms string
}

// Client performs bearer authenticated GET calls against protected resources.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the base client. Its transport and timeout are kept; the
// bearer header is layered on top per call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches endpoint with "Authorization: Bearer <token>" and returns the
// decoded JSON object once every required field is present.
func (c *Client) GetJSON(ctx context.Context, endpoint, token string, required ...string) (map[string]any, error) {
	body, err := c.fetch(ctx, endpoint, token, required)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, oauthmodel.NewMalformedResponse(err)
	}
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, endpoint, token string, required []string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("[resource fetch] building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.bearerClient(ctx, token).Do(req)
	if err != nil {
		return nil, oauthmodel.NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, oauthmodel.NewUnexpectedStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, oauthmodel.NewNetworkError(err)
	}
	if err := oauthmodel.RequireJSONFields(body, required...); err != nil {
		return nil, oauthmodel.NewMalformedResponse(err)
	}
	return body, nil
}

// bearerClient wraps the base client's transport so every request carries the token.
func (c *Client) bearerClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, xoauth2.HTTPClient, c.httpClient)
	hc := xoauth2.NewClient(ctx, xoauth2.StaticTokenSource(&xoauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = c.httpClient.Timeout
	return hc
}
