package finance

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rentledger/rentledger-backend/pkg/redis"
)

// SummaryCache stores rendered summaries in redis under a per-lease version
// counter. Invalidation bumps the counter instead of scanning for keys, so
// every cached range of a lease expires at once.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache builds a cache around the shared redis client. A nil client
// disables caching entirely.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Get returns the cached summary for a lease range, or nil on a miss.
func (c *SummaryCache) Get(ctx context.Context, leaseID uuid.UUID, rangeKey string) (*Summary, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	version, err := c.version(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	raw, err := c.client.Get(ctx, c.key(leaseID, version, rangeKey))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var summary Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Put stores a summary for a lease range.
func (c *SummaryCache) Put(ctx context.Context, leaseID uuid.UUID, rangeKey string, summary Summary) error {
	if c == nil || c.client == nil {
		return nil
	}
	version, err := c.version(ctx, leaseID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(leaseID, version, rangeKey), string(raw), c.ttl)
}

// InvalidateLease drops every cached range of a lease by advancing its
// version counter.
func (c *SummaryCache) InvalidateLease(ctx context.Context, leaseID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, err := c.client.Incr(ctx, c.client.CounterKey("summary:"+leaseID.String()))
	return err
}

func (c *SummaryCache) version(ctx context.Context, leaseID uuid.UUID) (string, error) {
	version, err := c.client.Get(ctx, c.client.CounterKey("summary:"+leaseID.String()))
	if err != nil {
		if redis.IsNil(err) {
			return "0", nil
		}
		return "", err
	}
	return version, nil
}

func (c *SummaryCache) key(leaseID uuid.UUID, version, rangeKey string) string {
	return c.client.CacheKey("summary", leaseID.String(), version, rangeKey)
}
