// Package aggregator folds call records into the dashboard rollup. All
// computation is request-scoped and in-memory; callers bound the input
// (most recent 100 per source) before handing it over.
package aggregator

import (
	"math"
	"sort"
	"time"

	"voice-leads-go/internal/types"
)

const (
	topAssistantLimit = 5
	recentLimit       = 10
	dailyWindowDays   = 7
)

// BuildDashboard computes the full dashboard contract. Zero assistants or
// zero calls yields a fully-shaped zero-valued result, never nils: the
// frontend depends on the shape always being present.
func BuildDashboard(calls []types.CallRecord, assistants []types.Assistant, now time.Time) types.Dashboard {
	d := types.Dashboard{
		TopAssistants:  []types.AssistantStat{},
		RecentActivity: []types.ActivityEntry{},
	}

	totalDuration := 0
	totalCost := 0.0
	succeeded := 0
	for _, c := range calls {
		totalDuration += c.DurationSec
		totalCost += c.Cost
		if c.Success {
			succeeded++
		}
	}
	d.TotalCalls = len(calls)
	d.TotalCost = round2(totalCost)
	d.TotalDuration = totalDuration
	if len(calls) > 0 {
		d.AvgDuration = totalDuration / len(calls)
		d.SuccessRate = round1(float64(succeeded) / float64(len(calls)) * 100)
	}

	d.TopAssistants = topAssistants(calls, assistants)
	d.RecentActivity = recentActivity(calls, assistants)
	d.DailyStats = dailyStats(calls, now)
	return d
}

// topAssistants ranks assistants by call count, dropping those with zero
// calls before ranking, and keeps the top 5.
func topAssistants(calls []types.CallRecord, assistants []types.Assistant) []types.AssistantStat {
	out := []types.AssistantStat{}
	for _, a := range assistants {
		var n, ok int
		var cost float64
		for _, c := range calls {
			if c.AssistantID != a.ID {
				continue
			}
			n++
			cost += c.Cost
			if c.Success {
				ok++
			}
		}
		if n == 0 {
			continue
		}
		out = append(out, types.AssistantStat{
			ID:          a.ID,
			Name:        a.Name,
			Calls:       n,
			Cost:        round2(cost),
			SuccessRate: round1(float64(ok) / float64(n) * 100),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Calls > out[j].Calls })
	if len(out) > topAssistantLimit {
		out = out[:topAssistantLimit]
	}
	return out
}

func recentActivity(calls []types.CallRecord, assistants []types.Assistant) []types.ActivityEntry {
	names := make(map[string]string, len(assistants))
	for _, a := range assistants {
		names[a.ID] = a.Name
	}

	sorted := append([]types.CallRecord(nil), calls...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartedAt.After(sorted[j].StartedAt) })
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}

	out := []types.ActivityEntry{}
	for _, c := range sorted {
		name, ok := names[c.AssistantID]
		if !ok || name == "" {
			name = "Unknown Assistant"
		}
		out = append(out, types.ActivityEntry{
			ID:            c.ID,
			AssistantName: name,
			CallerNumber:  c.CallerNumber,
			Duration:      c.DurationSec,
			Cost:          round2(c.Cost),
			Success:       c.Success,
			Timestamp:     c.StartedAt,
		})
	}
	return out
}

// dailyStats buckets the trailing 7 UTC calendar days including today,
// oldest first. Always exactly 7 entries.
func dailyStats(calls []types.CallRecord, now time.Time) []types.DailyStat {
	today := now.UTC().Truncate(24 * time.Hour)

	type bucket struct {
		calls    int
		cost     float64
		duration int
	}
	buckets := map[string]*bucket{}
	out := make([]types.DailyStat, 0, dailyWindowDays)
	for i := dailyWindowDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		buckets[date] = &bucket{}
		out = append(out, types.DailyStat{Date: date})
	}

	for _, c := range calls {
		date := c.StartedAt.UTC().Format("2006-01-02")
		b, ok := buckets[date]
		if !ok {
			continue
		}
		b.calls++
		b.cost += c.Cost
		b.duration += c.DurationSec
	}

	for i := range out {
		b := buckets[out[i].Date]
		out[i].Calls = b.calls
		out[i].Cost = round2(b.cost)
		if b.calls > 0 {
			out[i].AvgDuration = b.duration / b.calls
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
