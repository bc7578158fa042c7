package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paperScout/domain"

	"github.com/redis/go-redis/v9"
)

// ProfileCache keeps freshly aggregated user profiles for a short TTL so a
// burst of requests does not re-run the three-table aggregation each time.
type ProfileCache struct {
	client *redis.Client
}

func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{
		client: client,
	}
}

func profileKey(userID uint) string {
	return fmt.Sprintf("profile:user:%d", userID)
}

// Get returns (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, userID uint) (*domain.UserProfile, error) {
	val, err := c.client.Get(ctx, profileKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile from Redis: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}

	return &profile, nil
}

func (c *ProfileCache) Set(ctx context.Context, profile domain.UserProfile, ttl time.Duration) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := c.client.Set(ctx, profileKey(profile.UserID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store profile in Redis: %w", err)
	}

	return nil
}
