package cache

import (
	"strings"

	"github.com/redis/go-redis/v9"

	"finance-gamification/config"
)

var client *redis.Client

// Init connects the cache client. An empty REDIS_ADDR leaves the client nil
// and every cache operation becomes a no-op, so the engine runs without redis.
func Init() {
	if config.Cfg.RedisAddr == "" {
		return
	}
	client = redis.NewClient(&redis.Options{
		Addr:     config.Cfg.RedisAddr,
		Password: config.Cfg.RedisPassword,
		DB:       config.Cfg.RedisDB,
	})
}

func Client() *redis.Client {
	return client
}

func Key(parts ...string) string {
	return config.Cfg.RedisPrefix + ":" + strings.Join(parts, ":")
}
