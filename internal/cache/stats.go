// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// stats.go provides a Valkey-backed cache for the usage statistics report.
// Computing the report runs several aggregate queries over the generations
// table; caching it briefly keeps the admin dashboard cheap to refresh.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"fabricai/internal/models"
)

const (
	// statsKey is the Valkey key for the cached usage report.
	statsKey = "usage:stats"

	// DefaultStatsTTL is how long a computed report stays cached.
	DefaultStatsTTL = 60 * time.Second
)

// StatsCache caches the admin usage report in Valkey.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a stats cache backed by the given Valkey client.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl == 0 {
		ttl = DefaultStatsTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get retrieves the cached report. Returns (nil, false) on miss.
func (sc *StatsCache) Get(ctx context.Context) (*models.UsageStats, bool) {
	val, err := sc.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("stats cache get error", "error", err)
		return nil, false
	}

	var stats models.UsageStats
	if err := json.Unmarshal(val, &stats); err != nil {
		slog.Warn("stats cache unmarshal error", "error", err)
		return nil, false
	}
	return &stats, true
}

// Set stores the computed report with the configured TTL.
func (sc *StatsCache) Set(ctx context.Context, stats *models.UsageStats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		slog.Warn("stats cache marshal error", "error", err)
		return
	}
	if err := sc.client.Set(ctx, statsKey, payload, sc.ttl).Err(); err != nil {
		slog.Warn("stats cache set error", "error", err)
	}
}

// Invalidate removes the cached report. Called when limits change so the
// dashboard reflects the new configuration immediately.
func (sc *StatsCache) Invalidate(ctx context.Context) {
	if err := sc.client.Del(ctx, statsKey).Err(); err != nil {
		slog.Warn("stats cache invalidate error", "error", err)
	}
}
