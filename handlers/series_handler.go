// handlers/series_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gewnthar/covidash/models"
	"github.com/gewnthar/covidash/services"
)

// GetCountriesHandler lists the available countries with their ISO codes.
// Expects GET /api/countries.
func GetCountriesHandler(series *services.SeriesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}

		countries, err := series.Countries()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load countries: %v", err))
			return
		}
		if countries == nil { // Always return an array for JSON, even if empty
			countries = []models.CountryInfo{}
		}
		respondWithJSON(w, http.StatusOK, countries)
	}
}

// GetSeriesHandler returns one country's chart series.
// Expects GET /api/series?country=Germany&option=daily&metric=confirmed.
func GetSeriesHandler(series *services.SeriesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}

		country := strings.TrimSpace(r.URL.Query().Get("country"))
		if country == "" {
			respondWithError(w, http.StatusBadRequest, "Missing 'country' query parameter")
			return
		}
		option := r.URL.Query().Get("option")
		if option == "" {
			option = services.OptionTotal
		}
		metric := r.URL.Query().Get("metric")
		if metric == "" {
			metric = models.MetricConfirmed
		}

		resp, err := series.Series(country, option, metric)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnknownCountry):
				respondWithError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, services.ErrInvalidSelection):
				respondWithError(w, http.StatusBadRequest, err.Error())
			default:
				respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load series: %v", err))
			}
			return
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

// GetStatsHandler returns one country's summary statistics.
// Expects GET /api/stats?country=Germany.
func GetStatsHandler(series *services.SeriesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}

		country := strings.TrimSpace(r.URL.Query().Get("country"))
		if country == "" {
			respondWithError(w, http.StatusBadRequest, "Missing 'country' query parameter")
			return
		}

		stats, err := series.Stats(country)
		if err != nil {
			if errors.Is(err, services.ErrUnknownCountry) {
				respondWithError(w, http.StatusNotFound, err.Error())
			} else {
				respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to compute stats: %v", err))
			}
			return
		}
		respondWithJSON(w, http.StatusOK, stats)
	}
}
