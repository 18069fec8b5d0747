// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation records one successful image generation for usage accounting.
type Generation struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Mode      string     `json:"mode"`
	CreatedAt time.Time  `json:"created_at"`
}

// UsageLimits holds the configurable generation caps and the per-image cost
// used for spend reporting. Nil limits mean "no cap configured".
type UsageLimits struct {
	DailyLimit   *int    `json:"daily_limit"`
	WeeklyLimit  *int    `json:"weekly_limit"`
	CostPerImage float64 `json:"cost_per_image"`
}

// UsageStats is the aggregate usage report served to the admin dashboard.
// Costs are derived: count times the configured per-image cost.
type UsageStats struct {
	Today         int            `json:"today"`
	ThisWeek      int            `json:"thisWeek"`
	ThisMonth     int            `json:"thisMonth"`
	Total         int            `json:"total"`
	CostToday     float64        `json:"costToday"`
	CostThisWeek  float64        `json:"costThisWeek"`
	CostThisMonth float64        `json:"costThisMonth"`
	DailyLimit    *int           `json:"dailyLimit"`
	WeeklyLimit   *int           `json:"weeklyLimit"`
	CostPerImage  float64        `json:"costPerImage"`
	UsageByDate   map[string]int `json:"usageByDate"`
}
