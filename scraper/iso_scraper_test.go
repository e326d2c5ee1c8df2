// scraper/iso_scraper_test.go
package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gewnthar/covidash/config"
)

const isoPageFixture = `<html><body>
<table id="codes">
<thead><tr><th>Country</th><th>Alpha-2 code</th><th>Alpha-3 code</th><th>Numeric</th></tr></thead>
<tbody>
<tr><td>Germany</td><td>DE</td><td>DEU</td><td>276</td></tr>
<tr><td>United States of America (the)</td><td>US</td><td>USA</td><td>840</td></tr>
<tr><td></td><td>ZZ</td><td>ZZZ</td><td>0</td></tr>
<tr><td>Broken row</td><td>only-two-cells</td></tr>
</tbody>
</table>
</body></html>`

func TestFetchIsoCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, isoPageFixture)
	}))
	defer server.Close()

	config.AppConfig.IsoSource.PageURL = server.URL
	config.AppConfig.IsoSource.TableSelector = "table#codes"

	codes, err := FetchIsoCodes()
	if err != nil {
		t.Fatalf("FetchIsoCodes failed: %v", err)
	}

	if got := codes["germany"]; got != "DEU" {
		t.Errorf("codes[germany] = %q, want DEU", got)
	}
	// "(the)" suffix is stripped by normalization.
	if got := codes["united states of america"]; got != "USA" {
		t.Errorf("codes[united states of america] = %q, want USA", got)
	}
	if _, ok := codes[""]; ok {
		t.Error("row with an empty name should have been skipped")
	}
	if len(codes) != 2 {
		t.Errorf("got %d codes, want 2", len(codes))
	}
}

func TestFetchIsoCodesHonorsDownloadTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		fmt.Fprint(w, isoPageFixture)
	}))
	defer server.Close()

	config.AppConfig.IsoSource.PageURL = server.URL
	config.AppConfig.IsoSource.TableSelector = "table#codes"
	config.AppConfig.Download.Timeout = 20 * time.Millisecond
	defer func() { config.AppConfig.Download.Timeout = 0 }()

	if _, err := FetchIsoCodes(); err == nil {
		t.Fatal("expected an error when the page exceeds the configured timeout")
	}
}

func TestFetchIsoCodesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	config.AppConfig.IsoSource.PageURL = server.URL
	config.AppConfig.IsoSource.TableSelector = "table#codes"

	if _, err := FetchIsoCodes(); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestFetchIsoCodesNoTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>nothing here</p></body></html>")
	}))
	defer server.Close()

	config.AppConfig.IsoSource.PageURL = server.URL
	config.AppConfig.IsoSource.TableSelector = "table#codes"

	if _, err := FetchIsoCodes(); err == nil {
		t.Fatal("expected an error when the table is missing")
	}
}
