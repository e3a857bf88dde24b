package config

type Config interface {
	EnvConfig
	OAuthConfig
	SecurityConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Security
	Storage
}

// New returns the process configuration. Values come from the environment,
// optionally seeded from the .env style file named by ENV_FILE.
func New() (Config, error) {
	if err := loadEnvFile(GetEnv(envFileVar, "")); err != nil {
		return nil, err
	}
	return mainConfig{}, nil
}
