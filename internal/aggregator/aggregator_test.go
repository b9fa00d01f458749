package aggregator

import (
	"testing"
	"time"

	"voice-leads-go/internal/types"
)

var now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func call(id, assistant string, start time.Time, dur int, cost float64, ok bool) types.CallRecord {
	return types.CallRecord{
		ID: id, AssistantID: assistant, StartedAt: start,
		DurationSec: dur, Cost: cost, Success: ok,
		CallerNumber: "+15550001111",
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil, nil, now)

	if d.TotalCalls != 0 || d.TotalCost != 0 || d.AvgDuration != 0 || d.SuccessRate != 0 {
		t.Errorf("totals not zero: %+v", d)
	}
	if d.TopAssistants == nil || len(d.TopAssistants) != 0 {
		t.Errorf("topAssistants = %v, want empty non-nil", d.TopAssistants)
	}
	if d.RecentActivity == nil || len(d.RecentActivity) != 0 {
		t.Errorf("recentActivity = %v, want empty non-nil", d.RecentActivity)
	}
	if len(d.DailyStats) != 7 {
		t.Fatalf("dailyStats len = %d, want 7", len(d.DailyStats))
	}
	for _, s := range d.DailyStats {
		if s.Calls != 0 || s.Cost != 0 || s.AvgDuration != 0 {
			t.Errorf("non-zero day in empty dashboard: %+v", s)
		}
	}
}

func TestBuildDashboardTotals(t *testing.T) {
	calls := []types.CallRecord{
		call("c1", "a1", now.Add(-time.Hour), 300, 1.234, true),
		call("c2", "a1", now.Add(-2*time.Hour), 100, 0.5, false),
		call("c3", "a2", now.Add(-3*time.Hour), 200, 0.25, true),
	}
	d := BuildDashboard(calls, nil, now)

	if d.TotalCalls != 3 {
		t.Errorf("totalCalls = %d", d.TotalCalls)
	}
	if d.TotalCost != 1.98 {
		t.Errorf("totalCost = %v, want 1.98", d.TotalCost)
	}
	if d.TotalDuration != 600 || d.AvgDuration != 200 {
		t.Errorf("durations = %d/%d", d.TotalDuration, d.AvgDuration)
	}
	if d.SuccessRate != 66.7 {
		t.Errorf("successRate = %v, want 66.7", d.SuccessRate)
	}
}

func TestDailyStatsWindow(t *testing.T) {
	calls := []types.CallRecord{
		call("c1", "a1", now, 60, 1, true),
		call("c2", "a1", now.AddDate(0, 0, -6), 120, 1, true),
		// outside the trailing window, must be dropped from daily buckets
		call("c3", "a1", now.AddDate(0, 0, -8), 60, 1, true),
	}
	d := BuildDashboard(calls, nil, now)

	if len(d.DailyStats) != 7 {
		t.Fatalf("dailyStats len = %d, want 7", len(d.DailyStats))
	}
	if d.DailyStats[0].Date != "2026-03-09" || d.DailyStats[6].Date != "2026-03-15" {
		t.Errorf("window = %s..%s", d.DailyStats[0].Date, d.DailyStats[6].Date)
	}
	sum := 0
	for _, s := range d.DailyStats {
		sum += s.Calls
	}
	if sum != 2 {
		t.Errorf("windowed daily sum = %d, want 2", sum)
	}
	if d.DailyStats[0].Calls != 1 || d.DailyStats[6].Calls != 1 {
		t.Errorf("edge buckets wrong: %+v", d.DailyStats)
	}
}

func TestDailySumMatchesTotalInsideWindow(t *testing.T) {
	var calls []types.CallRecord
	for i := 0; i < 20; i++ {
		calls = append(calls, call("c", "a1", now.AddDate(0, 0, -(i%7)), 60, 0.1, true))
	}
	d := BuildDashboard(calls, nil, now)
	sum := 0
	for _, s := range d.DailyStats {
		sum += s.Calls
	}
	if sum != d.TotalCalls {
		t.Errorf("daily sum %d != totalCalls %d", sum, d.TotalCalls)
	}
}

func TestTopAssistants(t *testing.T) {
	assistants := []types.Assistant{
		{ID: "a1", Name: "Buyer Bot"},
		{ID: "a2", Name: "Seller Bot"},
		{ID: "a3", Name: "Idle Bot"}, // zero calls, filtered
	}
	calls := []types.CallRecord{
		call("c1", "a1", now, 60, 1, true),
		call("c2", "a2", now, 60, 1, true),
		call("c3", "a2", now, 60, 1, false),
	}
	d := BuildDashboard(calls, assistants, now)

	if len(d.TopAssistants) != 2 {
		t.Fatalf("topAssistants = %+v, want 2 entries", d.TopAssistants)
	}
	if d.TopAssistants[0].ID != "a2" || d.TopAssistants[0].Calls != 2 {
		t.Errorf("top entry = %+v, want a2 with 2 calls", d.TopAssistants[0])
	}
	if d.TopAssistants[0].SuccessRate != 50.0 {
		t.Errorf("a2 successRate = %v, want 50.0", d.TopAssistants[0].SuccessRate)
	}
}

func TestRecentActivityNameFallback(t *testing.T) {
	calls := []types.CallRecord{
		call("c1", "ghost", now, 60, 1, true),
	}
	d := BuildDashboard(calls, []types.Assistant{{ID: "a1", Name: "Known"}}, now)
	if len(d.RecentActivity) != 1 {
		t.Fatalf("recentActivity = %+v", d.RecentActivity)
	}
	if d.RecentActivity[0].AssistantName != "Unknown Assistant" {
		t.Errorf("name = %q, want Unknown Assistant", d.RecentActivity[0].AssistantName)
	}
}

func TestRecentActivityCapAndOrder(t *testing.T) {
	var calls []types.CallRecord
	for i := 0; i < 15; i++ {
		calls = append(calls, call("c", "a1", now.Add(-time.Duration(i)*time.Minute), 60, 0.1, true))
	}
	d := BuildDashboard(calls, nil, now)
	if len(d.RecentActivity) != 10 {
		t.Fatalf("recentActivity len = %d, want 10", len(d.RecentActivity))
	}
	for i := 1; i < len(d.RecentActivity); i++ {
		if d.RecentActivity[i].Timestamp.After(d.RecentActivity[i-1].Timestamp) {
			t.Fatal("recentActivity not newest-first")
		}
	}
}
