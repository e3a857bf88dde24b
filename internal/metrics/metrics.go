package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"

	ResourceProfile = "profile"
	ResourceRooms   = "rooms"
)

// Metrics holds all Prometheus metrics for the client
type Metrics struct {
	TokenExchanges   *prometheus.CounterVec
	ResourceRequests *prometheus.CounterVec
	SessionsCreated  prometheus.Counter
	Logouts          prometheus.Counter
}

// New creates the metrics and registers them with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TokenExchanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_client_token_exchanges_total",
			Help: "Token endpoint requests by grant type and outcome",
		}, []string{"grant_type", "outcome"}),
		ResourceRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_client_resource_requests_total",
			Help: "Protected resource requests by resource and outcome",
		}, []string{"resource", "outcome"}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "oauth_client_sessions_created_total",
			Help: "Total number of browser sessions created",
		}),
		Logouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "oauth_client_logouts_total",
			Help: "Total number of logouts",
		}),
	}
}

// ObserveTokenExchange records one token endpoint call. outcome is "success" or an error kind.
func (m *Metrics) ObserveTokenExchange(grantType, outcome string) {
	m.TokenExchanges.WithLabelValues(grantType, outcome).Inc()
}

func (m *Metrics) ObserveResourceRequest(resource, outcome string) {
	m.ResourceRequests.WithLabelValues(resource, outcome).Inc()
}

func (m *Metrics) IncrementSessionsCreated() {
	m.SessionsCreated.Inc()
}

func (m *Metrics) IncrementLogouts() {
	m.Logouts.Inc()
}
