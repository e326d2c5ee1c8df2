// handlers/series_handler_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gewnthar/covidash/services"
	"github.com/gewnthar/covidash/store"
)

func testSeriesService() *services.SeriesService {
	tracker := store.NewFreshnessTracker("testdata/does-not-exist.dat", nil)
	return services.NewSeriesService(services.NewLoaderService(tracker))
}

func TestGetSeriesHandlerRejectsMissingCountry(t *testing.T) {
	handler := GetSeriesHandler(testSeriesService())

	req := httptest.NewRequest(http.MethodGet, "/api/series", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetSeriesHandlerRejectsWrongMethod(t *testing.T) {
	handler := GetSeriesHandler(testSeriesService())

	req := httptest.NewRequest(http.MethodPost, "/api/series?country=Germany", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestGetStatsHandlerRejectsMissingCountry(t *testing.T) {
	handler := GetStatsHandler(testSeriesService())

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRefreshDataHandlerRejectsWrongMethod(t *testing.T) {
	tracker := store.NewFreshnessTracker("testdata/does-not-exist.dat", nil)
	handler := RefreshDataHandler(services.NewLoaderService(tracker))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/refresh", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
