// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"fabricai/internal/models"
)

// UsageStore records generations and builds the admin usage report.
type UsageStore struct {
	db *sql.DB
}

// NewUsageStore creates a new UsageStore with the given database connection.
func NewUsageStore(db *sql.DB) *UsageStore {
	return &UsageStore{db: db}
}

// Record inserts one generation event. userID may be nil for anonymous
// calls made with a caller-supplied API key.
func (s *UsageStore) Record(userID *uuid.UUID, mode string) error {
	_, err := s.db.Exec(`
		INSERT INTO generations (user_id, mode) VALUES ($1, $2)
	`, userID, mode)
	if err != nil {
		return fmt.Errorf("record generation: %w", err)
	}
	return nil
}

// Limits returns the configured caps and per-image cost.
func (s *UsageStore) Limits() (*models.UsageLimits, error) {
	l := &models.UsageLimits{}
	err := s.db.QueryRow(`
		SELECT daily_limit, weekly_limit, cost_per_image FROM usage_limits WHERE id
	`).Scan(&l.DailyLimit, &l.WeeklyLimit, &l.CostPerImage)
	if err != nil {
		return nil, fmt.Errorf("load usage limits: %w", err)
	}
	return l, nil
}

// SetLimits updates the caps and per-image cost in place.
func (s *UsageStore) SetLimits(l *models.UsageLimits) error {
	_, err := s.db.Exec(`
		UPDATE usage_limits SET daily_limit = $1, weekly_limit = $2, cost_per_image = $3 WHERE id
	`, l.DailyLimit, l.WeeklyLimit, l.CostPerImage)
	if err != nil {
		return fmt.Errorf("save usage limits: %w", err)
	}
	return nil
}

// Stats computes the aggregate usage report: counts for today, the
// current ISO week, the current month, and overall, plus a 30-day
// histogram. Costs are derived from the configured per-image cost.
func (s *UsageStore) Stats() (*models.UsageStats, error) {
	limits, err := s.Limits()
	if err != nil {
		return nil, err
	}

	stats := &models.UsageStats{
		DailyLimit:   limits.DailyLimit,
		WeeklyLimit:  limits.WeeklyLimit,
		CostPerImage: limits.CostPerImage,
		UsageByDate:  make(map[string]int),
	}

	err = s.db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', NOW())),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('week', NOW())),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', NOW())),
			COUNT(*)
		FROM generations
	`).Scan(&stats.Today, &stats.ThisWeek, &stats.ThisMonth, &stats.Total)
	if err != nil {
		return nil, fmt.Errorf("usage stats counts: %w", err)
	}

	stats.CostToday = float64(stats.Today) * limits.CostPerImage
	stats.CostThisWeek = float64(stats.ThisWeek) * limits.CostPerImage
	stats.CostThisMonth = float64(stats.ThisMonth) * limits.CostPerImage

	rows, err := s.db.Query(`
		SELECT to_char(created_at, 'YYYY-MM-DD'), COUNT(*)
		FROM generations
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY 1 ORDER BY 1
	`)
	if err != nil {
		return nil, fmt.Errorf("usage stats histogram: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan usage histogram: %w", err)
		}
		stats.UsageByDate[day] = count
	}
	return stats, rows.Err()
}
