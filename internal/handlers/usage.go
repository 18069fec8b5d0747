// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"fabricai/internal/cache"
	"fabricai/internal/models"
	"fabricai/internal/store"
)

// Usage groups the usage reporting and limit configuration handlers.
type Usage struct {
	usage *store.UsageStore
	stats *cache.StatsCache
}

// NewUsage creates the usage handler group. stats may be nil; the report is
// then recomputed on every request.
func NewUsage(usage *store.UsageStore, stats *cache.StatsCache) *Usage {
	return &Usage{usage: usage, stats: stats}
}

// Stats handles GET /api/admin/usage/stats. The computed report is cached
// briefly in Valkey.
func (u *Usage) Stats(w http.ResponseWriter, r *http.Request) {
	if u.stats != nil {
		if cached, ok := u.stats.Get(r.Context()); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	stats, err := u.usage.Stats()
	if err != nil {
		slog.Error("usage stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if u.stats != nil {
		u.stats.Set(r.Context(), stats)
	}
	writeJSON(w, http.StatusOK, stats)
}

// SetLimits handles PUT /api/admin/usage/limits. Persists the single-row
// configuration and invalidates the cached report.
func (u *Usage) SetLimits(w http.ResponseWriter, r *http.Request) {
	var req models.UsageLimits
	if !decodeBody(w, r, &req) {
		return
	}

	if req.CostPerImage < 0 {
		writeError(w, http.StatusBadRequest, "Cost per image cannot be negative.")
		return
	}

	if err := u.usage.SetLimits(&req); err != nil {
		slog.Error("set usage limits failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if u.stats != nil {
		u.stats.Invalidate(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Limits handles GET /api/admin/usage/limits.
func (u *Usage) Limits(w http.ResponseWriter, r *http.Request) {
	limits, err := u.usage.Limits()
	if err != nil {
		slog.Error("load usage limits failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, limits)
}
