package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"gatepass/internal/platform/metrics"
	"gatepass/internal/platform/redis"
)

// GateCache caches gate check lookups. The public check endpoint is hit by
// every registration page load, so it gets a short-TTL cache in front of the
// store.
type GateCache interface {
	Get(ctx context.Context, id int64) (*Event, bool)
	Set(ctx context.Context, e *Event)
	Invalidate(ctx context.Context, id int64)
}

// RedisGateCache backs GateCache with Redis.
type RedisGateCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewRedisGateCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *RedisGateCache {
	return &RedisGateCache{client: client, ttl: ttl, metrics: m}
}

func gateKey(id int64) string {
	return "gate:event:" + strconv.FormatInt(id, 10)
}

func (c *RedisGateCache) Get(ctx context.Context, id int64) (*Event, bool) {
	raw, err := c.client.Get(ctx, gateKey(id))
	if err != nil {
		c.metrics.RecordGateCacheMiss()
		return nil, false
	}
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		c.metrics.RecordGateCacheMiss()
		return nil, false
	}
	c.metrics.RecordGateCacheHit()
	return &e, true
}

func (c *RedisGateCache) Set(ctx context.Context, e *Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, gateKey(e.ID), string(raw), c.ttl)
}

func (c *RedisGateCache) Invalidate(ctx context.Context, id int64) {
	_ = c.client.Delete(ctx, gateKey(id))
}

// NoopGateCache disables caching. Used when no Redis URL is configured.
type NoopGateCache struct{}

func (NoopGateCache) Get(context.Context, int64) (*Event, bool) { return nil, false }
func (NoopGateCache) Set(context.Context, *Event)               {}
func (NoopGateCache) Invalidate(context.Context, int64)         {}
