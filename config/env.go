// Package config loads application configuration from the environment,
// optionally seeded from a .env file. Values are resolved once and cached;
// every getter is safe to call before or after Load().
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv        = "local"
	defaultAppPort       = "8080"
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "canteen"
	defaultRedisAddr     = "localhost:6379"
	defaultJWTSecret     = "change-me-in-production"
)

var (
	loadOnce sync.Once

	mu     sync.RWMutex
	values = map[string]string{}
)

// Load reads .env (if present) into the process environment and snapshots
// the keys this application cares about. Calling it more than once is a
// no-op.
func Load() error {
	loadOnce.Do(func() {
		// Missing .env is fine; real deployments set the environment directly.
		_ = godotenv.Load()

		loaded := map[string]string{}
		for _, key := range []string{
			"APP_ENV", "APP_PORT",
			"MONGO_URI", "MONGO_DB",
			"REDIS_ADDR", "REDIS_PASSWORD",
			"JWT_SECRET",
		} {
			loaded[key] = strings.TrimSpace(os.Getenv(key))
		}

		mu.Lock()
		values = loaded
		mu.Unlock()
	})
	return nil
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DB", defaultMongoDatabase)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := values[key]; value != "" {
		return value
	}
	return fallback
}
