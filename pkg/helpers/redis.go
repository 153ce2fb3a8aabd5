package helpers

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client used by the rate limiter. The limiter
// fails open, so timeouts stay well under typical request latency.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}
