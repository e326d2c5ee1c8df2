// scraper/csv_downloader.go
package scraper

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gewnthar/covidash/config"
	"github.com/gewnthar/covidash/models"
)

// DownloadFile downloads a file from a URL and saves it to a local path.
// A non-2xx status is an error so callers can treat it as a transport failure.
func DownloadFile(url string, localSavePath string) error {
	log.Printf("Scraper: Downloading %s to %s\n", url, localSavePath)

	client := http.Client{
		Timeout: config.AppConfig.Download.Timeout,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to download file from %s: received status code %d", url, resp.StatusCode)
	}

	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}

	return nil
}

// TempPath returns the staging path a series CSV is downloaded to before the
// loader renames it over the cache file. Keeping the rename separate gives the
// loader its all-or-nothing overwrite: a failed fetch never clobbers a cache
// file another metric still needs to join against.
func TempPath(cachePath string) string {
	return cachePath + ".tmp"
}

// DownloadSeriesCsv downloads the raw wide table for one metric to the
// staging path next to its cache file and returns that staging path.
func DownloadSeriesCsv(metric string) (string, error) {
	var csvURL, cachePath string

	switch metric {
	case models.MetricConfirmed:
		csvURL = config.AppConfig.DataURLs.ConfirmedCSV
		cachePath = config.AppConfig.LocalPaths.ConfirmedCSV
	case models.MetricDeaths:
		csvURL = config.AppConfig.DataURLs.DeathsCSV
		cachePath = config.AppConfig.LocalPaths.DeathsCSV
	case models.MetricRecovered:
		csvURL = config.AppConfig.DataURLs.RecoveredCSV
		cachePath = config.AppConfig.LocalPaths.RecoveredCSV
	default:
		return "", fmt.Errorf("unknown series metric: %s", metric)
	}

	if csvURL == "" {
		return "", fmt.Errorf("%s CSV URL is not configured", metric)
	}
	if cachePath == "" {
		return "", fmt.Errorf("local cache path for %s CSV is not configured", metric)
	}

	tmpPath := TempPath(cachePath)
	if err := DownloadFile(csvURL, tmpPath); err != nil {
		return "", fmt.Errorf("failed to download %s CSV: %w", metric, err)
	}
	return tmpPath, nil
}
