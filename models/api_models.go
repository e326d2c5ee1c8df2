// models/api_models.go
package models

// SeriesPoint is one x/y point of a chart series. Date is formatted
// YYYY-MM-DD for daily/total series and the week-ending Sunday for weekly.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// NamedSeries is one plottable line. The "all" selection returns three.
type NamedSeries struct {
	Name   string        `json:"name"`
	Points []SeriesPoint `json:"points"`
}

// SeriesResponse is the body of GET /api/series.
type SeriesResponse struct {
	Country string        `json:"country"`
	Option  string        `json:"option"` // total, daily or weekly
	Metric  string        `json:"metric"`
	Label   string        `json:"label"`
	Series  []NamedSeries `json:"series"`
}

// SummaryStats is the body of GET /api/stats. The percent-change fields are
// omitted when the series is too short or the latest value is zero.
type SummaryStats struct {
	Country                string   `json:"country"`
	CurrentActive          float64  `json:"current_active"`
	NewCases               float64  `json:"new_cases"`
	NewDeaths              float64  `json:"new_deaths"`
	TotalCases             float64  `json:"total_cases"`
	TotalDeaths            float64  `json:"total_deaths"`
	WeekChangeCasesPct     *float64 `json:"week_change_cases_pct,omitempty"`
	WeekChangeDeathsPct    *float64 `json:"week_change_deaths_pct,omitempty"`
	TwoWeekChangeCasesPct  *float64 `json:"two_week_change_cases_pct,omitempty"`
	TwoWeekChangeDeathsPct *float64 `json:"two_week_change_deaths_pct,omitempty"`
	LastUpdated            string   `json:"last_updated,omitempty"`
}
