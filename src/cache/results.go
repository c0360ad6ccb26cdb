// Package cache keeps recent classification results in redis so an
// unchanged post window doesn't re-run the model.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
	"github.com/stake-plus/ideograph/src/classifier"
)

const keyPrefix = "classify:"

// Results is a best-effort read-through cache. A nil redis client
// disables it entirely.
type Results struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResults(rdb *redis.Client, ttl time.Duration) *Results {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Results{rdb: rdb, ttl: ttl}
}

// Key derives the cache key from the user and the exact post window, so
// any new post invalidates naturally.
func Key(userID string, posts []string) string {
	h := xxhash.New64()
	h.WriteString(userID)
	for _, p := range posts {
		h.WriteString("\x00")
		h.WriteString(p)
	}
	return fmt.Sprintf("%s%s:%x", keyPrefix, userID, h.Sum64())
}

func (r *Results) Get(ctx context.Context, key string) (classifier.ClassificationResult, bool) {
	if r == nil || r.rdb == nil {
		return classifier.ClassificationResult{}, false
	}
	payload, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		return classifier.ClassificationResult{}, false
	}
	var res classifier.ClassificationResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		log.Printf("cache: corrupt entry %s: %v", key, err)
		return classifier.ClassificationResult{}, false
	}
	return res, true
}

func (r *Results) Put(ctx context.Context, key string, res classifier.ClassificationResult) {
	if r == nil || r.rdb == nil {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}
