package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/internal/metrics"
	"github.com/jrsteele09/go-oauth-client/oauthclient"
	"github.com/jrsteele09/go-oauth-client/resource"
	"github.com/jrsteele09/go-oauth-client/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Components are the collaborators the server is assembled from.
type Components struct {
	OAuth     *oauthclient.Client
	Resources *resource.Client
	Sessions  *sessions.Manager
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer

	// LogoutEndpoint is the provider logout URL the user agent is sent to.
	LogoutEndpoint string

	// Health is optional and backs /healthz.
	Health func(context.Context) error
}

type Server struct {
	env            string // Environment (e.g., "DEV", "PROD")
	appName        string
	mux            *http.ServeMux
	routes         []string
	config         config.Config
	oauth          *oauthclient.Client
	resources      *resource.Client
	sessions       *sessions.Manager
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	logoutEndpoint string
	health         func(context.Context) error
	errorTmpl      *template.Template
}

func New(config config.Config, c Components) (*Server, error) {
	if c.OAuth == nil || c.Resources == nil || c.Sessions == nil || c.Metrics == nil {
		return nil, fmt.Errorf("[Server New] oauth, resource, session and metrics components are required")
	}
	if c.Gatherer == nil {
		c.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		env:            config.GetEnv(),
		appName:        config.GetAppName(),
		mux:            http.NewServeMux(),
		config:         config,
		oauth:          c.OAuth,
		resources:      c.Resources,
		sessions:       c.Sessions,
		metrics:        c.Metrics,
		gatherer:       c.Gatherer,
		logoutEndpoint: c.LogoutEndpoint,
		health:         c.Health,
		errorTmpl:      mustParseTemplate("error.html"),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+error+ResetColor)
}
