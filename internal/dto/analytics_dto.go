package dto

import "time"

// DailyCountPoint is one day's bucketed count for a dashboard series.
type DailyCountPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AnalyticsSeries is a named daily series with its comparison-period delta.
type AnalyticsSeries struct {
	Total         int64             `json:"total"`
	PreviousTotal int64             `json:"previous_total"`
	DeltaPercent  float64           `json:"delta_percent"`
	Daily         []DailyCountPoint `json:"daily"`
}

// AnalyticsSummaryRequest selects the reporting window.
type AnalyticsSummaryRequest struct {
	Days     int
	Timezone string
}

// AnalyticsSummaryResponse is the admin dashboard payload.
type AnalyticsSummaryResponse struct {
	Uploads     AnalyticsSeries `json:"uploads"`
	NewUsers    AnalyticsSeries `json:"new_users"`
	Views       AnalyticsSeries `json:"views"`
	Downloads   AnalyticsSeries `json:"downloads"`
	RangeDays   int             `json:"range_days"`
	Timezone    string          `json:"timezone"`
	GeneratedAt time.Time       `json:"generated_at"`
	CacheHit    bool            `json:"cache_hit"`
}
