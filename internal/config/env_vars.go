package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	envVar         = "ENV"
	logLevelEnvVar = "LOG_LEVEL"
	envFileVar     = "ENV_FILE"
)

// source resolves keys from the process environment first and the optional
// env file second.
var source = newSource()

func newSource() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	source.SetConfigFile(path)
	source.SetConfigType("env")
	if err := source.ReadInConfig(); err != nil {
		return fmt.Errorf("[config loadEnvFile] reading %s: %w", path, err)
	}
	return nil
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "OAuth Client")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "DEV")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func GetEnv(envVar, defaultValue string) string {
	value := source.GetString(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses a Go duration string, falling back to defaultValue when
// the key is unset or unparsable.
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
