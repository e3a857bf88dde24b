package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/internal/metrics"
	"github.com/jrsteele09/go-oauth-client/oauthclient"
	"github.com/jrsteele09/go-oauth-client/resource"
	"github.com/jrsteele09/go-oauth-client/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	xoauth2 "golang.org/x/oauth2"
)

// SessionStore is the repo the server keeps sessions in, with its health
// check and shutdown hook.
type SessionStore struct {
	Repo   sessions.Repo
	Health func(context.Context) error
	Close  func() error
}

// NewSessionStore picks the Redis repo when REDIS_URL is set, the in-memory one otherwise.
func NewSessionStore(ctx context.Context, c config.StorageConfig) (SessionStore, error) {
	redisURL := c.GetRedisURL()
	if redisURL == "" {
		log.Info().Msg("using in-memory session store")
		return SessionStore{
			Repo:  sessions.NewInMemoryRepo(),
			Close: func() error { return nil },
		}, nil
	}

	repo, err := sessions.NewRedisRepo(ctx, redisURL)
	if err != nil {
		return SessionStore{}, fmt.Errorf("[server NewSessionStore] %w", err)
	}
	log.Info().Msg("using redis session store")
	return SessionStore{Repo: repo, Health: repo.Health, Close: repo.Close}, nil
}

// Bootstrap assembles the server components from configuration. When an OIDC
// issuer is configured its discovery document supplies the provider endpoints.
func Bootstrap(ctx context.Context, c config.Config, store SessionStore, reg prometheus.Registerer, gatherer prometheus.Gatherer) (Components, error) {
	if err := config.Validate(c); err != nil {
		return Components{}, err
	}

	endpoint := xoauth2.Endpoint{
		AuthURL:  c.GetAuthorizationEndpoint(),
		TokenURL: c.GetTokenEndpoint(),
	}
	logoutEndpoint := c.GetLogoutEndpoint()

	if issuer := c.GetOIDCIssuer(); issuer != "" {
		discovered, err := oauthclient.Discover(ctx, issuer)
		if err != nil {
			return Components{}, fmt.Errorf("[server Bootstrap] %w", err)
		}
		endpoint = discovered.Endpoint
		if discovered.EndSessionURL != "" {
			logoutEndpoint = discovered.EndSessionURL
		}
		log.Info().Str("issuer", issuer).Msg("provider endpoints discovered")
	}

	httpClient := &http.Client{Timeout: c.GetHTTPTimeout()}

	oauth, err := oauthclient.New(oauthclient.Registration{
		ClientID:     c.GetClientID(),
		ClientSecret: c.GetClientSecret(),
		RedirectURI:  c.GetRedirectURI(),
		Scopes:       c.GetScopes(),
		Endpoint:     endpoint,
		FixedState:   c.GetStateOverride(),
	}, oauthclient.WithHTTPClient(httpClient))
	if err != nil {
		return Components{}, err
	}

	resources := resource.New(resource.Endpoints{
		People: c.GetPeopleEndpoint(),
		Rooms:  c.GetRoomsEndpoint(),
	}, resource.WithHTTPClient(httpClient))

	if c.GetSessionSecret() == "" {
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}
	signer, err := sessions.NewCookieSigner(c.GetSessionSecret())
	if err != nil {
		return Components{}, fmt.Errorf("[server Bootstrap] %w", err)
	}

	m := metrics.New(reg)
	manager := sessions.NewManager(store.Repo, signer, c.GetMaxSessionAge(),
		sessions.WithCreateHook(m.IncrementSessionsCreated))

	return Components{
		OAuth:          oauth,
		Resources:      resources,
		Sessions:       manager,
		Metrics:        m,
		Gatherer:       gatherer,
		LogoutEndpoint: logoutEndpoint,
		Health:         store.Health,
	}, nil
}
