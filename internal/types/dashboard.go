// internal/types/dashboard.go
package types

import "time"

// --------------------------------------------
// Dashboard payload delivered to the frontend
// --------------------------------------------
type Dashboard struct {
	TotalCalls     int             `json:"totalCalls"`
	TotalCost      float64         `json:"totalCost"`     // 2dp
	TotalDuration  int             `json:"totalDuration"` // seconds
	AvgDuration    int             `json:"avgDuration"`
	SuccessRate    float64         `json:"successRate"` // percentage, 1dp
	TopAssistants  []AssistantStat `json:"topAssistants"`
	RecentActivity []ActivityEntry `json:"recentActivity"`
	DailyStats     []DailyStat     `json:"dailyStats"` // exactly 7, oldest first
}

// --------------------------------------------
// Per-assistant rollup (top-5 table)
// --------------------------------------------
type AssistantStat struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Calls       int     `json:"calls"`
	Cost        float64 `json:"cost"`
	SuccessRate float64 `json:"successRate"`
}

// --------------------------------------------
// Recent-activity row
// --------------------------------------------
type ActivityEntry struct {
	ID            string    `json:"id"`
	AssistantName string    `json:"assistantName"`
	CallerNumber  string    `json:"callerNumber"`
	Duration      int       `json:"duration"`
	Cost          float64   `json:"cost"`
	Success       bool      `json:"success"`
	Timestamp     time.Time `json:"timestamp"`
}

// --------------------------------------------
// UTC calendar-day bucket
// --------------------------------------------
type DailyStat struct {
	Date        string  `json:"date"` // YYYY-MM-DD, UTC
	Calls       int     `json:"calls"`
	Cost        float64 `json:"cost"`
	AvgDuration int     `json:"avgDuration"`
}
