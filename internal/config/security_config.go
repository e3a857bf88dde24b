package config

import "time"

const (
	sessionSecretVar = "SESSION_SECRET"
	sessionMaxAgeVar = "SESSION_MAX_AGE"
	httpTimeoutVar   = "HTTP_TIMEOUT"
)

type SecurityConfig interface {
	GetSessionSecret() string
	GetMaxSessionAge() time.Duration
	GetHTTPTimeout() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret returns the key material for signing session cookies.
// Empty means a random key is generated at startup.
func (Security) GetSessionSecret() string {
	return GetEnv(sessionSecretVar, "")
}

func (Security) GetMaxSessionAge() time.Duration {
	return GetDuration(sessionMaxAgeVar, 24*time.Hour)
}

// GetHTTPTimeout bounds every outbound call to the provider.
func (Security) GetHTTPTimeout() time.Duration {
	return GetDuration(httpTimeoutVar, 10*time.Second)
}
