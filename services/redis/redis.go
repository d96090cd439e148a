package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	redis_utils "GameHub/services/redis/utils"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SaveRAWGSearch caches a formatted RAWG search response.
// Key format: "rawg:search:{query}:{limit}", TTL 1 hour.
func (rc *RedisClient) SaveRAWGSearch(query string, limit int, results interface{}) error {
	key := redis_utils.FormatRAWGSearchKey(query, limit)
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("error marshaling RAWG search results: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, time.Hour).Err()
}

// GetRAWGSearch retrieves a cached RAWG search response into dest.
// Returns redis.Nil (wrapped) on a cache miss.
func (rc *RedisClient) GetRAWGSearch(query string, limit int, dest interface{}) error {
	key := redis_utils.FormatRAWGSearchKey(query, limit)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return fmt.Errorf("error getting cached RAWG search: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// SaveRAWGGame caches a single RAWG game payload.
// Key format: "rawg:game:{id}", TTL 24 hours.
func (rc *RedisClient) SaveRAWGGame(rawgID int, game interface{}) error {
	key := redis_utils.FormatRAWGGameKey(rawgID)
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("error marshaling RAWG game data: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, 24*time.Hour).Err()
}

// GetRAWGGame retrieves a cached RAWG game payload into dest.
func (rc *RedisClient) GetRAWGGame(rawgID int, dest interface{}) error {
	key := redis_utils.FormatRAWGGameKey(rawgID)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return fmt.Errorf("error getting cached RAWG game: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// IsCacheMiss reports whether an error returned by the getters above means
// the key was simply absent.
func IsCacheMiss(err error) bool {
	return err != nil && errors.Is(err, redis.Nil)
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
