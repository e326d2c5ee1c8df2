// scraper/iso_scraper.go
package scraper

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gewnthar/covidash/config"
	"github.com/gewnthar/covidash/utils"
)

// FetchIsoCodes scrapes the configured reference page for the country-code
// table and returns a map from normalized country name to ISO alpha-3 code.
// The table is expected to have rows of at least three cells:
// name, alpha-2, alpha-3 (the iban.com layout).
func FetchIsoCodes() (map[string]string, error) {
	pageURL := config.AppConfig.IsoSource.PageURL
	tableSelector := config.AppConfig.IsoSource.TableSelector
	if tableSelector == "" {
		log.Println("WARN Scraper: No CSS selector configured for the ISO code table, using 'table'.")
		tableSelector = "table"
	}
	log.Printf("Scraper: Fetching ISO country codes from %s (table: '%s')\n", pageURL, tableSelector)

	client := http.Client{
		Timeout: config.AppConfig.Download.Timeout,
	}
	res, err := client.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get URL %s: status code %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	codes := make(map[string]string)
	doc.Find(tableSelector).Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return // header row or malformed row
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		alpha3 := strings.ToUpper(strings.TrimSpace(cells.Eq(2).Text()))
		if name == "" || len(alpha3) != 3 {
			return
		}
		codes[utils.NormalizeCountryName(name)] = alpha3
	})

	if len(codes) == 0 {
		return nil, fmt.Errorf("no country-code rows found on %s within table '%s'", pageURL, tableSelector)
	}

	log.Printf("Scraper: Fetched %d ISO country codes.\n", len(codes))
	return codes, nil
}
