package store

import (
	"testing"

	"fabricai/internal/models"
)

func TestUsageStoreRecordAndStats(t *testing.T) {
	db := testDB(t)
	s := NewUsageStore(db)

	before, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if err := s.Record(nil, "ambientato"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM generations WHERE id = (SELECT id FROM generations ORDER BY created_at DESC LIMIT 1)")
	})

	after, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if after.Today != before.Today+1 {
		t.Errorf("today: got %d, want %d", after.Today, before.Today+1)
	}
	if after.Total != before.Total+1 {
		t.Errorf("total: got %d, want %d", after.Total, before.Total+1)
	}

	// The session timezone decides which bucket the row lands in, so
	// compare histogram totals rather than a specific day.
	var beforeSum, afterSum int
	for _, n := range before.UsageByDate {
		beforeSum += n
	}
	for _, n := range after.UsageByDate {
		afterSum += n
	}
	if afterSum != beforeSum+1 {
		t.Errorf("histogram total: got %d, want %d", afterSum, beforeSum+1)
	}
}

func TestUsageStoreCostsFollowPerImagePrice(t *testing.T) {
	db := testDB(t)
	s := NewUsageStore(db)

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if want := float64(stats.Today) * stats.CostPerImage; stats.CostToday != want {
		t.Errorf("cost today: got %f, want %f", stats.CostToday, want)
	}
	if want := float64(stats.ThisWeek) * stats.CostPerImage; stats.CostThisWeek != want {
		t.Errorf("cost this week: got %f, want %f", stats.CostThisWeek, want)
	}
	if want := float64(stats.ThisMonth) * stats.CostPerImage; stats.CostThisMonth != want {
		t.Errorf("cost this month: got %f, want %f", stats.CostThisMonth, want)
	}
}

func TestUsageStoreLimitsRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewUsageStore(db)

	orig, err := s.Limits()
	if err != nil {
		t.Fatalf("Limits: %v", err)
	}
	t.Cleanup(func() { s.SetLimits(orig) })

	daily, weekly := 100, 500
	if err := s.SetLimits(&models.UsageLimits{
		DailyLimit:   &daily,
		WeeklyLimit:  &weekly,
		CostPerImage: 0.005,
	}); err != nil {
		t.Fatalf("SetLimits: %v", err)
	}

	got, err := s.Limits()
	if err != nil {
		t.Fatalf("Limits: %v", err)
	}
	if got.DailyLimit == nil || *got.DailyLimit != daily {
		t.Errorf("daily limit: got %v, want %d", got.DailyLimit, daily)
	}
	if got.WeeklyLimit == nil || *got.WeeklyLimit != weekly {
		t.Errorf("weekly limit: got %v, want %d", got.WeeklyLimit, weekly)
	}
	if got.CostPerImage != 0.005 {
		t.Errorf("cost per image: got %f, want 0.005", got.CostPerImage)
	}

	// Clearing caps back to unlimited stores NULLs.
	if err := s.SetLimits(&models.UsageLimits{CostPerImage: 0.003}); err != nil {
		t.Fatalf("SetLimits (clear): %v", err)
	}
	got, err = s.Limits()
	if err != nil {
		t.Fatalf("Limits: %v", err)
	}
	if got.DailyLimit != nil || got.WeeklyLimit != nil {
		t.Error("expected nil limits after clearing")
	}
}
