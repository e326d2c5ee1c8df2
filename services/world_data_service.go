// services/world_data_service.go
package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/gewnthar/covidash/models"
)

// Upstream date headers look like "1/22/20".
const seriesDateLayout = "1/2/06"

// MeltSeries converts one wide table into long records, one per
// (province, country, lat, long, date) cell.
func MeltSeries(t models.RawSeriesTable) []models.LongRecord {
	records := make([]models.LongRecord, 0, len(t.Rows)*len(t.Dates))
	for _, row := range t.Rows {
		for i, date := range t.Dates {
			var value float64
			if i < len(row.Values) {
				value = row.Values[i]
			}
			records = append(records, models.LongRecord{
				Province: row.Province,
				Country:  row.Country,
				Lat:      row.Lat,
				Long:     row.Long,
				Date:     date,
				Value:    value,
			})
		}
	}
	return records
}

// seriesKey is the join key shared by the three melted tables.
type seriesKey struct {
	province string
	country  string
	lat      float64
	long     float64
	date     string
}

func metricLookup(t models.RawSeriesTable) map[seriesKey]float64 {
	lookup := make(map[seriesKey]float64, len(t.Rows)*len(t.Dates))
	for _, rec := range MeltSeries(t) {
		lookup[seriesKey{rec.Province, rec.Country, rec.Lat, rec.Long, rec.Date}] = rec.Value
	}
	return lookup
}

func sameDates(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BuildCountryDayTable reshapes the three wide tables into one aggregate row
// per (country, date): melt, left join on the confirmed key universe, sum
// provinces per country, average lat/long, then derive the daily metrics.
//
// Rows present only in deaths/recovered are dropped by the left join. If the
// date columns differ across the tables, the join is restricted to the
// confirmed table's dates and missing metric values read as 0.
func BuildCountryDayTable(confirmed, deaths, recovered models.RawSeriesTable) ([]models.CountryDay, error) {
	if len(confirmed.Rows) == 0 || len(confirmed.Dates) == 0 {
		return nil, fmt.Errorf("confirmed table is empty, nothing to join against")
	}
	if !sameDates(confirmed.Dates, deaths.Dates) || !sameDates(confirmed.Dates, recovered.Dates) {
		log.Println("WARN Service: Date columns differ across the three raw tables. Joining on the confirmed table's dates; missing values read as 0.")
	}

	dateByHeader := make(map[string]time.Time, len(confirmed.Dates))
	for _, raw := range confirmed.Dates {
		d, err := time.Parse(seriesDateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date column %q: %w", raw, err)
		}
		dateByHeader[raw] = d
	}

	deathsByKey := metricLookup(deaths)
	recoveredByKey := metricLookup(recovered)

	// Left join: the confirmed key universe defines the result rows.
	joined := make([]models.JoinedRecord, 0, len(confirmed.Rows)*len(confirmed.Dates))
	for _, rec := range MeltSeries(confirmed) {
		key := seriesKey{rec.Province, rec.Country, rec.Lat, rec.Long, rec.Date}
		joined = append(joined, models.JoinedRecord{
			Province:  rec.Province,
			Country:   rec.Country,
			Lat:       rec.Lat,
			Long:      rec.Long,
			Date:      dateByHeader[rec.Date],
			Confirmed: rec.Value,
			Deaths:    deathsByKey[key],
			Recovered: recoveredByKey[key],
		})
	}

	// Collapse provinces: group by (country, date), sum the metrics and
	// average lat/long.
	type groupKey struct {
		country string
		date    time.Time
	}
	type groupAgg struct {
		latSum, longSum              float64
		provinces                    int
		confirmed, deaths, recovered float64
	}
	groups := make(map[groupKey]*groupAgg)
	for _, j := range joined {
		key := groupKey{j.Country, j.Date}
		agg, ok := groups[key]
		if !ok {
			agg = &groupAgg{}
			groups[key] = agg
		}
		agg.latSum += j.Lat
		agg.longSum += j.Long
		agg.provinces++
		agg.confirmed += j.Confirmed
		agg.deaths += j.Deaths
		agg.recovered += j.Recovered
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].country != keys[j].country {
			return keys[i].country < keys[j].country
		}
		return keys[i].date.Before(keys[j].date)
	})

	rows := make([]models.CountryDay, 0, len(keys))
	for _, key := range keys {
		agg := groups[key]
		rows = append(rows, models.CountryDay{
			Country:        key.country,
			Date:           key.date,
			Lat:            agg.latSum / float64(agg.provinces),
			Long:           agg.longSum / float64(agg.provinces),
			TotalConfirmed: agg.confirmed,
			TotalDeaths:    agg.deaths,
			TotalRecovered: agg.recovered,
		})
	}

	// Daily metrics: first difference of the cumulative columns within each
	// country. The first row of a country has no prior day (diff = 0), and
	// negative diffs from upstream corrections are clamped to 0. Active cases
	// are NOT clamped; upstream inconsistencies pass through.
	for i := range rows {
		if i > 0 && rows[i-1].Country == rows[i].Country {
			rows[i].DailyConfirmed = clampDiff(rows[i].TotalConfirmed - rows[i-1].TotalConfirmed)
			rows[i].DailyDeaths = clampDiff(rows[i].TotalDeaths - rows[i-1].TotalDeaths)
			rows[i].DailyRecovered = clampDiff(rows[i].TotalRecovered - rows[i-1].TotalRecovered)
		}
		rows[i].DailyActive = rows[i].TotalConfirmed - rows[i].TotalRecovered - rows[i].TotalDeaths
	}

	return rows, nil
}

func clampDiff(d float64) float64 {
	if d < 0 {
		return 0
	}
	return d
}
