package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stake-plus/ideograph/src/logging"
)

const statePrefix = "oauth:state:"

// RedisStateStore keeps state records in redis with a server-side TTL.
// GETDEL makes consumption atomic, so a callback replay within the TTL
// window finds nothing.
type RedisStateStore struct {
	rdb *redis.Client
}

func NewRedisStateStore(rdb *redis.Client) *RedisStateStore {
	return &RedisStateStore{rdb: rdb}
}

func (s *RedisStateStore) PutState(ctx context.Context, state string, rec StateRecord, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, statePrefix+state, payload, ttl).Err()
}

func (s *RedisStateStore) TakeState(ctx context.Context, state string) (StateRecord, error) {
	payload, err := s.rdb.GetDel(ctx, statePrefix+state).Result()
	if err == redis.Nil {
		return StateRecord{}, logging.State("unknown or expired state")
	}
	if err != nil {
		return StateRecord{}, err
	}
	var rec StateRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return StateRecord{}, logging.State("corrupt state record: %v", err)
	}
	if time.Now().After(rec.ExpiresAt) {
		return StateRecord{}, logging.State("state expired")
	}
	return rec, nil
}
