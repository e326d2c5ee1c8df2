// services/series_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gewnthar/covidash/config"
	"github.com/gewnthar/covidash/models"
	"github.com/gewnthar/covidash/scraper"
	"github.com/gewnthar/covidash/store"
	"github.com/gewnthar/covidash/utils"
)

// ErrUnknownCountry is returned when a requested country has no rows in the
// aggregate table.
var ErrUnknownCountry = errors.New("unknown country")

// ErrInvalidSelection is returned for an option/metric combination the
// dashboard does not offer.
var ErrInvalidSelection = errors.New("invalid selection")

const apiDateLayout = "2006-01-02"

// Options and metrics accepted by Series.
const (
	OptionTotal  = "total"
	OptionDaily  = "daily"
	OptionWeekly = "weekly"

	MetricActive = "active"
	MetricAll    = "all"
)

// SeriesService slices the aggregate table into the chart-ready views the
// dashboard asks for, and enriches country names with ISO alpha-3 codes.
type SeriesService struct {
	loader *LoaderService

	mu      sync.Mutex
	isoDict map[string]string // normalized country name -> alpha-3
}

// NewSeriesService creates a series service on top of the given loader.
func NewSeriesService(loader *LoaderService) *SeriesService {
	return &SeriesService{loader: loader}
}

// Countries lists the countries present in the aggregate table, each with its
// ISO alpha-3 code (or the "unknown" sentinel).
func (s *SeriesService) Countries() ([]models.CountryInfo, error) {
	rows, err := s.loader.CountryDayTable(false)
	if err != nil {
		return nil, err
	}

	codes := s.isoCodes()
	var countries []models.CountryInfo
	for i, row := range rows {
		// Rows are sorted by country, so each name appears as one run.
		if i > 0 && rows[i-1].Country == row.Country {
			continue
		}
		countries = append(countries, models.CountryInfo{
			Name:  row.Country,
			IsoA3: resolveIso(codes, row.Country),
		})
	}
	return countries, nil
}

// Series returns the plottable series for one country. option selects the
// date granularity (total, daily, weekly); metric selects the column
// (confirmed, deaths, recovered; active only for daily; all only for weekly).
func (s *SeriesService) Series(country, option, metric string) (models.SeriesResponse, error) {
	resp := models.SeriesResponse{Country: country, Option: option, Metric: metric}

	if err := validateSelection(option, metric); err != nil {
		return resp, err
	}

	rows, err := s.loader.CountryDayTable(false)
	if err != nil {
		return resp, err
	}
	countryRows := filterCountry(rows, country)
	if len(countryRows) == 0 {
		return resp, fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}

	resp.Label = seriesLabel(option, metric)

	switch option {
	case OptionWeekly:
		metrics := []string{metric}
		if metric == MetricAll {
			metrics = []string{models.MetricConfirmed, models.MetricDeaths, models.MetricRecovered}
		}
		for _, m := range metrics {
			resp.Series = append(resp.Series, models.NamedSeries{
				Name:   "daily_" + m,
				Points: resampleWeekly(countryRows, dailyValue(m)),
			})
		}
	case OptionDaily:
		resp.Series = []models.NamedSeries{{
			Name:   "daily_" + metric,
			Points: seriesPoints(countryRows, dailyValue(metric)),
		}}
	case OptionTotal:
		resp.Series = []models.NamedSeries{{
			Name:   "total_" + metric,
			Points: seriesPoints(countryRows, totalValue(metric)),
		}}
	}

	return resp, nil
}

// Stats summarizes the latest state of one country: active, new and total
// counts plus 7- and 14-day percent changes of the new cases/deaths. The
// change figures are omitted when the series is too short or the latest value
// is zero, instead of dividing by it.
func (s *SeriesService) Stats(country string) (models.SummaryStats, error) {
	rows, err := s.loader.CountryDayTable(false)
	if err != nil {
		return models.SummaryStats{}, err
	}
	countryRows := filterCountry(rows, country)
	if len(countryRows) == 0 {
		return models.SummaryStats{}, fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}

	last := countryRows[len(countryRows)-1]
	stats := models.SummaryStats{
		Country:       country,
		CurrentActive: last.DailyActive,
		NewCases:      last.DailyConfirmed,
		NewDeaths:     last.DailyDeaths,
		TotalCases:    last.TotalConfirmed,
		TotalDeaths:   last.TotalDeaths,
	}
	if d, ok := s.loader.LastRefreshed(); ok {
		stats.LastUpdated = d.Format("02.01.2006")
	}

	if len(countryRows) >= 8 {
		week := countryRows[len(countryRows)-8]
		stats.WeekChangeCasesPct = pctChange(last.DailyConfirmed, week.DailyConfirmed)
		stats.WeekChangeDeathsPct = pctChange(last.DailyDeaths, week.DailyDeaths)
	}
	if len(countryRows) >= 15 {
		twoWeek := countryRows[len(countryRows)-15]
		stats.TwoWeekChangeCasesPct = pctChange(last.DailyConfirmed, twoWeek.DailyConfirmed)
		stats.TwoWeekChangeDeathsPct = pctChange(last.DailyDeaths, twoWeek.DailyDeaths)
	}

	return stats, nil
}

func validateSelection(option, metric string) error {
	switch option {
	case OptionTotal, OptionDaily, OptionWeekly:
	default:
		return fmt.Errorf("%w: option %q: use total, daily or weekly", ErrInvalidSelection, option)
	}
	switch metric {
	case models.MetricConfirmed, models.MetricDeaths, models.MetricRecovered:
	case MetricActive:
		// Active cases are only available daily.
		if option != OptionDaily {
			return fmt.Errorf("%w: metric %q is only available with option %q", ErrInvalidSelection, MetricActive, OptionDaily)
		}
	case MetricAll:
		if option != OptionWeekly {
			return fmt.Errorf("%w: metric %q is only available with option %q", ErrInvalidSelection, MetricAll, OptionWeekly)
		}
	default:
		return fmt.Errorf("%w: metric %q: use confirmed, deaths, recovered, active or all", ErrInvalidSelection, metric)
	}
	return nil
}

func filterCountry(rows []models.CountryDay, country string) []models.CountryDay {
	var out []models.CountryDay
	for _, row := range rows {
		if row.Country == country {
			out = append(out, row)
		}
	}
	return out
}

func totalValue(metric string) func(models.CountryDay) float64 {
	switch metric {
	case models.MetricDeaths:
		return func(r models.CountryDay) float64 { return r.TotalDeaths }
	case models.MetricRecovered:
		return func(r models.CountryDay) float64 { return r.TotalRecovered }
	default:
		return func(r models.CountryDay) float64 { return r.TotalConfirmed }
	}
}

func dailyValue(metric string) func(models.CountryDay) float64 {
	switch metric {
	case models.MetricDeaths:
		return func(r models.CountryDay) float64 { return r.DailyDeaths }
	case models.MetricRecovered:
		return func(r models.CountryDay) float64 { return r.DailyRecovered }
	case MetricActive:
		return func(r models.CountryDay) float64 { return r.DailyActive }
	default:
		return func(r models.CountryDay) float64 { return r.DailyConfirmed }
	}
}

func seriesPoints(rows []models.CountryDay, value func(models.CountryDay) float64) []models.SeriesPoint {
	points := make([]models.SeriesPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.SeriesPoint{
			Date:  row.Date.Format(apiDateLayout),
			Value: value(row),
		})
	}
	return points
}

// resampleWeekly sums a daily metric into calendar-week buckets labeled by
// their ending Sunday.
func resampleWeekly(rows []models.CountryDay, value func(models.CountryDay) float64) []models.SeriesPoint {
	sums := make(map[time.Time]float64)
	for _, row := range rows {
		sums[weekEnding(row.Date)] += value(row)
	}

	weeks := make([]time.Time, 0, len(sums))
	for week := range sums {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	points := make([]models.SeriesPoint, 0, len(weeks))
	for _, week := range weeks {
		points = append(points, models.SeriesPoint{
			Date:  week.Format(apiDateLayout),
			Value: sums[week],
		})
	}
	return points
}

func weekEnding(d time.Time) time.Time {
	// time.Sunday == 0, so a Sunday maps to itself.
	return d.AddDate(0, 0, (7-int(d.Weekday()))%7)
}

// pctChange is the change of the latest value relative to the prior one,
// in percent of the latest value. nil when the latest value is zero.
func pctChange(latest, prior float64) *float64 {
	if latest == 0 {
		return nil
	}
	pct := (latest - prior) / latest * 100
	return &pct
}

// seriesLabel builds a chart title, e.g. "Daily confirmed cases".
func seriesLabel(option, metric string) string {
	title := strings.ToUpper(option[:1]) + option[1:]
	if metric == models.MetricConfirmed || metric == models.MetricRecovered {
		return fmt.Sprintf("%s %s cases", title, metric)
	}
	return fmt.Sprintf("%s %s", title, metric)
}

// isoCodes returns the country -> alpha-3 map, loading the JSON cache when it
// exists and scraping the reference page otherwise. A failed scrape degrades
// to the "unknown" sentinel for every country; it never blocks the dashboard.
func (s *SeriesService) isoCodes() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isoDict != nil {
		return s.isoDict
	}

	path := config.AppConfig.LocalPaths.IsoDictFile
	if store.HasIsoDict(path) {
		dict, err := store.LoadIsoDict(path)
		if err == nil {
			s.isoDict = dict
			return dict
		}
		log.Printf("WARN Service: Failed to load ISO dict: %v. Re-fetching.\n", err)
	}

	dict, err := scraper.FetchIsoCodes()
	if err != nil {
		log.Printf("WARN Service: Could not fetch ISO codes (%v). Countries will be reported as %q.\n",
			err, models.IsoUnknown)
		dict = map[string]string{}
	} else if saveErr := store.SaveIsoDict(path, dict); saveErr != nil {
		log.Printf("ERROR Service: %v\n", saveErr)
	}
	s.isoDict = dict
	return dict
}

func resolveIso(codes map[string]string, country string) string {
	if code, ok := codes[utils.NormalizeCountryName(country)]; ok {
		return code
	}
	return models.IsoUnknown
}
