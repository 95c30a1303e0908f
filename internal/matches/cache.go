package matches

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const scoreCachePrefix = "matches:scored:"

// ScoreCache keeps the last ranked candidate list per user so the
// recommendations endpoint can serve a degraded response when scoring
// or storage is down. A nil client disables caching entirely.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	return &ScoreCache{client: client, ttl: ttl}
}

func (c *ScoreCache) Get(ctx context.Context, userID string) ([]ScoredCandidate, error) {
	if c == nil || c.client == nil {
		return nil, redis.Nil
	}

	raw, err := c.client.Get(ctx, scoreCachePrefix+userID).Bytes()
	if err != nil {
		return nil, err
	}

	var candidates []ScoredCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode cached scores: %w", err)
	}
	return candidates, nil
}

func (c *ScoreCache) Set(ctx context.Context, userID string, candidates []ScoredCandidate) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to encode scores for cache: %w", err)
	}
	return c.client.Set(ctx, scoreCachePrefix+userID, raw, c.ttl).Err()
}
