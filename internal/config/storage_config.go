package config

const redisURLVar = "REDIS_URL"

type StorageConfig interface {
	GetRedisURL() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

// GetRedisURL selects the Redis session repo when set, e.g. "redis://localhost:6379/0".
func (Storage) GetRedisURL() string {
	return GetEnv(redisURLVar, "")
}
