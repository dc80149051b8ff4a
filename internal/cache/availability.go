package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 30 * time.Second

// Availability keeps one Redis hash per bar so a single DEL drops every
// cached date range of that bar.
type Availability struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewAvailability(rdb *redis.Client, ttl time.Duration) *Availability {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Availability{redis: rdb, ttl: ttl}
}

func barKey(barID int) string {
	return fmt.Sprintf("availability:bar:%d", barID)
}

func (a *Availability) Get(ctx context.Context, barID int, field string) ([]byte, bool, error) {
	raw, err := a.redis.HGet(ctx, barKey(barID), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (a *Availability) Set(ctx context.Context, barID int, field string, value []byte) error {
	key := barKey(barID)

	pipe := a.redis.TxPipeline()
	pipe.HSet(ctx, key, field, value)
	pipe.Expire(ctx, key, a.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (a *Availability) Invalidate(ctx context.Context, barID int) error {
	return a.redis.Del(ctx, barKey(barID)).Err()
}
