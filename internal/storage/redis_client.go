package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// elevationKeyPrecision rounds cache coordinates to ~100 m so nearby launch
// sites share an entry.
const elevationKeyPrecision = 3

// ElevationCache caches ground elevation lookups in Redis keyed by rounded
// coordinates. A cache failure is never fatal to a request.
type ElevationCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewElevationCache connects to Redis and verifies the connection.
func NewElevationCache(host, port string, ttl time.Duration) (*ElevationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		MaxRetries:   3,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ElevationCache{client: client, ctx: ctx, ttl: ttl}, nil
}

func elevationKey(lat, lon float64) string {
	return fmt.Sprintf("elevation:%.*f,%.*f",
		elevationKeyPrecision, lat, elevationKeyPrecision, lon)
}

// Get returns the cached elevation for a position. The boolean result
// reports whether a value was present.
func (c *ElevationCache) Get(lat, lon float64) (float64, bool, error) {
	val, err := c.client.Get(c.ctx, elevationKey(lat, lon)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	elevation, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt elevation cache entry: %w", err)
	}
	return elevation, true, nil
}

// Set stores the elevation for a position.
func (c *ElevationCache) Set(lat, lon, elevation float64) error {
	value := strconv.FormatFloat(elevation, 'f', -1, 64)
	return c.client.Set(c.ctx, elevationKey(lat, lon), value, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *ElevationCache) Close() error {
	return c.client.Close()
}
