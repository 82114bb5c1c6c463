package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

const resultTTL = 24 * time.Hour

// Init connects to Redis when REDIS_ADDR is set. Without it the cache
// is a no-op and every result read falls through to Postgres.
func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, result cache disabled")
		return
	}

	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable (%v), result cache disabled", err)
		client = nil
		return
	}

	log.Println("Connected to Redis result cache")
}

// Enabled reports whether a Redis client is configured and reachable.
func Enabled() bool {
	return client != nil
}

func resultKey(sampleID string) string {
	return fmt.Sprintf("hmpi_result:%s", sampleID)
}

// GetResult fetches a cached result document by sample ID. The second
// return value is false on a miss.
func GetResult(ctx context.Context, sampleID string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}

	data, err := client.Get(ctx, resultKey(sampleID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get result from Redis: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return true, nil
}

// SetResult stores a result document under the sample ID with a TTL.
func SetResult(ctx context.Context, sampleID string, result any) error {
	if client == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := client.Set(ctx, resultKey(sampleID), data, resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to set result in Redis: %w", err)
	}
	return nil
}

// InvalidateResult drops the cached document, called on recompute.
func InvalidateResult(ctx context.Context, sampleID string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, resultKey(sampleID)).Err()
}
