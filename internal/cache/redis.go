package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/teamform/wellboard/internal/config"
	"github.com/teamform/wellboard/internal/models"
)

const (
	topRatingsKey = "player_ratings:top"
	topRatingsTTL = 5 * time.Minute
)

// RatingCache caches the top-ratings leaderboard in redis. Entries are
// derived data; a miss just falls through to the database.
type RatingCache struct {
	client *redis.Client
}

// NewRatingCache connects to redis using the configured URL.
func NewRatingCache(cfg *config.Config) (*RatingCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RatingCache{client: client}, nil
}

// GetTopRatings returns the cached leaderboard, or nil on a miss.
func (rc *RatingCache) GetTopRatings(ctx context.Context, limit int) ([]models.RatingEntry, error) {
	key := fmt.Sprintf("%s:%d", topRatingsKey, limit)

	data, err := rc.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached ratings: %w", err)
	}

	var entries []models.RatingEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached ratings: %w", err)
	}

	return entries, nil
}

// SetTopRatings caches the leaderboard for a short window.
func (rc *RatingCache) SetTopRatings(ctx context.Context, limit int, entries []models.RatingEntry) error {
	key := fmt.Sprintf("%s:%d", topRatingsKey, limit)

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal ratings: %w", err)
	}

	if err := rc.client.Set(ctx, key, data, topRatingsTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache ratings: %w", err)
	}

	return nil
}

// InvalidateTopRatings drops all cached leaderboard variants, called
// after any point adjustment.
func (rc *RatingCache) InvalidateTopRatings(ctx context.Context) error {
	iter := rc.client.Scan(ctx, 0, topRatingsKey+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := rc.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close shuts down the redis connection.
func (rc *RatingCache) Close() error {
	return rc.client.Close()
}
