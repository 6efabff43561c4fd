package rediscache

import "github.com/redis/go-redis/v9"

// NewClient initializes a redis client
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
