// scraper/csv_parser_test.go
package scraper

import (
	"strings"
	"testing"

	"github.com/gewnthar/covidash/models"
	"github.com/google/go-cmp/cmp"
)

const seriesFixture = `Province/State,Country/Region,Lat,Long,1/22/20,1/23/20,1/24/20
,Germany,51.0,9.0,0,1,4
Hubei,China,30.97,112.27,444,444,549
,"Korea, South",35.9,127.7,1,,2
`

func TestParseSeriesCsv(t *testing.T) {
	table, err := ParseSeriesCsv(strings.NewReader(seriesFixture), models.MetricConfirmed)
	if err != nil {
		t.Fatalf("ParseSeriesCsv failed: %v", err)
	}

	if table.Metric != models.MetricConfirmed {
		t.Errorf("Metric = %q, want %q", table.Metric, models.MetricConfirmed)
	}
	wantDates := []string{"1/22/20", "1/23/20", "1/24/20"}
	if diff := cmp.Diff(wantDates, table.Dates); diff != "" {
		t.Errorf("Dates mismatch (-want +got):\n%s", diff)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(table.Rows))
	}

	germany := table.Rows[0]
	if germany.Province != "" || germany.Country != "Germany" {
		t.Errorf("row 0 key = (%q, %q), want (\"\", \"Germany\")", germany.Province, germany.Country)
	}
	if germany.Lat != 51.0 || germany.Long != 9.0 {
		t.Errorf("row 0 lat/long = (%v, %v), want (51, 9)", germany.Lat, germany.Long)
	}
	if diff := cmp.Diff([]float64{0, 1, 4}, germany.Values); diff != "" {
		t.Errorf("row 0 values mismatch (-want +got):\n%s", diff)
	}

	hubei := table.Rows[1]
	if hubei.Province != "Hubei" || hubei.Country != "China" {
		t.Errorf("row 1 key = (%q, %q), want (\"Hubei\", \"China\")", hubei.Province, hubei.Country)
	}

	// Quoted country with a comma, and a blank cell reading as 0.
	korea := table.Rows[2]
	if korea.Country != "Korea, South" {
		t.Errorf("row 2 country = %q, want \"Korea, South\"", korea.Country)
	}
	if diff := cmp.Diff([]float64{1, 0, 2}, korea.Values); diff != "" {
		t.Errorf("row 2 values mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSeriesCsvHeaderOnly(t *testing.T) {
	header := "Province/State,Country/Region,Lat,Long,1/22/20\n"
	if _, err := ParseSeriesCsv(strings.NewReader(header), models.MetricDeaths); err == nil {
		t.Fatal("expected an error for a CSV with no data rows")
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		cell string
		want float64
	}{
		{"42", 42},
		{" 7 ", 7},
		{"", 0},
		{"n/a", 0},
		{"3.5", 3.5},
	}
	for _, c := range cases {
		if got := parseCount(c.cell); got != c.want {
			t.Errorf("parseCount(%q) = %v, want %v", c.cell, got, c.want)
		}
	}
}
