package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	refKeyPrefix = "vaulta:ref:"
	refKeyTTL    = 48 * time.Hour
)

// ReferenceSequencer issues per-day reference numbers shared by every
// instance. Keys outlive their day briefly and then expire.
type ReferenceSequencer struct {
	client *redis.Client
}

func NewReferenceSequencer(client *redis.Client) *ReferenceSequencer {
	return &ReferenceSequencer{client: client}
}

func (s *ReferenceSequencer) Next(ctx context.Context, key string) (int64, error) {
	full := refKeyPrefix + key
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, full)
	pipe.Expire(ctx, full, refKeyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("next reference: %w", err)
	}
	return incr.Val(), nil
}
