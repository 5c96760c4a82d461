package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jumpseat/velometro/internal/model"
)

// JourneyCache keeps recently computed comparisons in Redis so that
// repeated lookups for the same trip don't re-hit the PRIM APIs.
//
// Keys round coordinates to 5 decimals (~1 m), close enough that two
// map clicks on the same doorstep share an entry.
type JourneyCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewJourneyCache creates a cache with the given entry TTL.
func NewJourneyCache(redisClient *redis.Client, ttl time.Duration) *JourneyCache {
	return &JourneyCache{redis: redisClient, ttl: ttl}
}

const journeyCacheKeyPrefix = "compare:v1:"

func cacheKey(origin, dest model.Location, walkToBikeMeters float64) string {
	return fmt.Sprintf("%s%.5f,%.5f:%.5f,%.5f:%.0f",
		journeyCacheKeyPrefix,
		origin.Lat, origin.Lon, dest.Lat, dest.Lon, walkToBikeMeters)
}

// Get returns the cached comparison for the trip, if any. Cache
// failures are treated as misses.
func (c *JourneyCache) Get(ctx context.Context, origin, dest model.Location, walkToBikeMeters float64) (*model.Comparison, bool) {
	raw, err := c.redis.Get(ctx, cacheKey(origin, dest, walkToBikeMeters)).Bytes()
	if err != nil {
		return nil, false
	}

	var cmp model.Comparison
	if err := json.Unmarshal(raw, &cmp); err != nil {
		log.Printf("[cache] corrupt comparison entry, dropping: %v", err)
		_ = c.redis.Del(ctx, cacheKey(origin, dest, walkToBikeMeters)).Err()
		return nil, false
	}

	return &cmp, true
}

// Set stores a comparison. Fire-and-forget: errors only log.
func (c *JourneyCache) Set(ctx context.Context, origin, dest model.Location, walkToBikeMeters float64, cmp *model.Comparison) {
	raw, err := json.Marshal(cmp)
	if err != nil {
		log.Printf("[cache] encode comparison: %v", err)
		return
	}

	if err := c.redis.Set(ctx, cacheKey(origin, dest, walkToBikeMeters), raw, c.ttl).Err(); err != nil {
		log.Printf("[cache] store comparison: %v", err)
	}
}
