package domain

// KPISummary is the headline figures for one filter state.
// FCRPct and AvgTimeToResolve are nil when undefined: FCRPct when no records
// match, AvgTimeToResolve when no matching record has a recorded, non-zero
// resolution time.
type KPISummary struct {
	TotalQueries     int64    `json:"total_queries"`
	FCRPct           *float64 `json:"fcr_pct"`
	AvgTimeToResolve *string  `json:"avg_time_to_resolve"`
}

// CategoryCount is one row of the category split.
type CategoryCount struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// ThemeCount is one row of the controllable complaint-theme ranking.
type ThemeCount struct {
	Theme string `json:"theme"`
	Total int64  `json:"total"`
}

// TrendPoint is the record count for one calendar day.
type TrendPoint struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
}

// Report bundles the five aggregate views computed from one filter state.
type Report struct {
	KPIs       KPISummary      `json:"kpis"`
	Categories []CategoryCount `json:"categories"`
	Themes     []ThemeCount    `json:"themes"`
	Trend      []TrendPoint    `json:"trend"`
	Products   []string        `json:"products"`
}
