// Package cache provides the Redis-backed interest summary cache. Summaries
// are immutable for a well+date until an ownership change, so mutations
// invalidate every cached date for the well.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"wellflow/internal/ownership/service"
	"wellflow/internal/platform/redis"
	"wellflow/pkg/domain"
)

// DefaultTTL bounds staleness if an invalidation is lost.
const DefaultTTL = 5 * time.Minute

// SummaryCache stores interest summaries in Redis. Transport failures are
// logged and absorbed: a cache outage degrades to recomputing summaries.
type SummaryCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func NewSummaryCache(client *redis.Client, logger *slog.Logger, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SummaryCache{client: client, logger: logger, ttl: ttl}
}

func (c *SummaryCache) Get(ctx context.Context, wellID domain.WellID, date time.Time) (*service.InterestSummary, bool) {
	payload, err := c.client.Get(ctx, summaryKey(wellID, date)).Bytes()
	if err != nil {
		if !redis.IsNil(err) {
			c.logger.WarnContext(ctx, "summary cache read failed", "error", err)
		}
		return nil, false
	}
	var summary service.InterestSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		c.logger.WarnContext(ctx, "summary cache entry corrupt", "error", err)
		return nil, false
	}
	return &summary, true
}

func (c *SummaryCache) Set(ctx context.Context, summary service.InterestSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		c.logger.WarnContext(ctx, "summary cache marshal failed", "error", err)
		return
	}
	key := summaryKey(summary.WellID, summary.EffectiveDate)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "summary cache write failed", "error", err)
	}
}

func (c *SummaryCache) Invalidate(ctx context.Context, wellID domain.WellID) {
	pattern := fmt.Sprintf("interest-summary:%s:*", wellID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.WarnContext(ctx, "summary cache invalidation failed", "error", err)
			return
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.WarnContext(ctx, "summary cache scan failed", "error", err)
	}
}

func summaryKey(wellID domain.WellID, date time.Time) string {
	return fmt.Sprintf("interest-summary:%s:%s", wellID, date.Format("2006-01-02"))
}
