// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"roomdesk/config"

	"github.com/go-redis/redis/v8"
)

var (
	// DecisionCacheClient caches recent decision snapshots per booking so the
	// review surface can re-read the latest evaluation without recomputing.
	DecisionCacheClient *redis.Client
)

// InitDecisionCache initializes the Redis client for decision snapshots.
func InitDecisionCache() {
	DecisionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DecisionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Decision Cache): %v", err)
	}
}

// GetDecisionCacheClient returns the decision snapshot cache client.
func GetDecisionCacheClient() *redis.Client {
	if DecisionCacheClient == nil {
		InitDecisionCache()
	}
	return DecisionCacheClient
}
