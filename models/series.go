// models/series.go
package models

import "time"

// Metric names for the three raw tables and their value columns.
const (
	MetricConfirmed = "confirmed"
	MetricDeaths    = "deaths"
	MetricRecovered = "recovered"
)

// RawSeriesRow is one wide row: a province (often blank) of a country with one
// cumulative count per date column. CSV tags EXACTLY match the CSSE headers.
// Values is parallel to RawSeriesTable.Dates and is filled by the parser, not
// by csvutil (the date columns are open-ended and grow upstream).
type RawSeriesRow struct {
	Province string  `csv:"Province/State"`
	Country  string  `csv:"Country/Region"`
	Lat      float64 `csv:"Lat"`
	Long     float64 `csv:"Long"`

	Values []float64 `csv:"-"`
}

// RawSeriesTable is the wide form of one metric: one row per
// (province, country, lat, long), one column per calendar date.
type RawSeriesTable struct {
	Metric string
	Dates  []string // raw upstream headers, e.g. "1/22/20", in column order
	Rows   []RawSeriesRow
}

// LongRecord is one melted cell of a RawSeriesTable.
type LongRecord struct {
	Province string
	Country  string
	Lat      float64
	Long     float64
	Date     string // raw upstream header, parsed later in the pipeline
	Value    float64
}

// JoinedRecord carries all three metrics for one (province, country, date)
// after the left join on the confirmed key universe.
type JoinedRecord struct {
	Province  string
	Country   string
	Lat       float64
	Long      float64
	Date      time.Time
	Confirmed float64
	Deaths    float64
	Recovered float64
}

// CountryDay is one aggregate row per (country, date): provinces summed,
// lat/long averaged, daily metrics derived from the cumulative ones.
type CountryDay struct {
	Country        string    `json:"country"`
	Date           time.Time `json:"date"`
	Lat            float64   `json:"lat"`
	Long           float64   `json:"long"`
	TotalConfirmed float64   `json:"total_confirmed"`
	TotalDeaths    float64   `json:"total_deaths"`
	TotalRecovered float64   `json:"total_recovered"`
	DailyConfirmed float64   `json:"daily_confirmed"`
	DailyDeaths    float64   `json:"daily_deaths"`
	DailyRecovered float64   `json:"daily_recovered"`
	DailyActive    float64   `json:"daily_active"`
}

// CountryInfo pairs a country name with its ISO alpha-3 code.
// IsoA3 is "unknown" when the enrichment helper could not resolve the name.
type CountryInfo struct {
	Name  string `json:"name"`
	IsoA3 string `json:"iso_a3"`
}

// IsoUnknown is the sentinel recorded for countries the ISO helper
// cannot resolve.
const IsoUnknown = "unknown"
