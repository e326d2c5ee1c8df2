// scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gewnthar/covidash/models"
	"github.com/jszwec/csvutil"
)

// ParseSeriesCsv reads one wide time-series CSV into a RawSeriesTable.
//
// The fixed key columns (Province/State, Country/Region, Lat, Long) are mapped
// through the csv tags on models.RawSeriesRow. The date columns are open-ended
// (upstream appends one per day), so they cannot be struct fields; they are
// picked up from the decoder's unused header columns instead, in header order.
func ParseSeriesCsv(reader io.Reader, metric string) (models.RawSeriesTable, error) {
	table := models.RawSeriesTable{Metric: metric}

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return table, fmt.Errorf("failed to create CSV decoder for %s: %w", metric, err)
	}
	header := decoder.Header()

	for {
		var row models.RawSeriesRow
		if err := decoder.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return table, fmt.Errorf("failed to decode %s CSV data: %w", metric, err)
		}

		// Unused() is only meaningful after the first Decode.
		unused := decoder.Unused()
		if table.Dates == nil {
			table.Dates = make([]string, 0, len(unused))
			for _, i := range unused {
				table.Dates = append(table.Dates, header[i])
			}
		}

		record := decoder.Record()
		row.Values = make([]float64, 0, len(unused))
		for _, i := range unused {
			row.Values = append(row.Values, parseCount(record[i]))
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return table, fmt.Errorf("no data rows in %s CSV", metric)
	}

	log.Printf("Scraper: Parsed %d rows x %d dates from %s CSV.\n",
		len(table.Rows), len(table.Dates), metric)
	return table, nil
}

// parseCount reads one cumulative-count cell. Blank or unparsable cells read
// as 0 rather than failing the whole table.
func parseCount(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return v
}
