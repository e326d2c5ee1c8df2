// config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DataURLsConfig struct {
	ConfirmedCSV string `yaml:"confirmed_csv"`
	DeathsCSV    string `yaml:"deaths_csv"`
	RecoveredCSV string `yaml:"recovered_csv"`
}

type LocalPathsConfig struct {
	ConfirmedCSV string `yaml:"confirmed_csv"`
	DeathsCSV    string `yaml:"deaths_csv"`
	RecoveredCSV string `yaml:"recovered_csv"`
	MarkerFile   string `yaml:"marker_file"`
	IsoDictFile  string `yaml:"iso_dict_file"`
}

type IsoSourceConfig struct {
	PageURL       string `yaml:"page_url"`
	TableSelector string `yaml:"table_selector"`
}

type DownloadConfig struct {
	TimeoutStr string `yaml:"timeout"`
	Timeout    time.Duration // Parsed duration
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DataURLs   DataURLsConfig   `yaml:"data_urls"`
	LocalPaths LocalPathsConfig `yaml:"local_paths"`
	IsoSource  IsoSourceConfig  `yaml:"iso_source"`
	Download   DownloadConfig   `yaml:"download"`
}

var AppConfig Config

const csseBase = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_time_series"

// LoadConfig reads the YAML configuration file and fills in defaults for
// anything the file leaves unset. Cache directories are created here so the
// downloader and the file stores can assume their parent dirs exist.
func LoadConfig(configPath string) error {
	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, &AppConfig); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyDefaults(&AppConfig)

	// Parse durations
	if AppConfig.Download.TimeoutStr != "" {
		var err error
		AppConfig.Download.Timeout, err = time.ParseDuration(AppConfig.Download.TimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse download timeout: %w", err)
		}
	} else {
		AppConfig.Download.Timeout = 30 * time.Second
	}

	for _, p := range []string{
		AppConfig.LocalPaths.ConfirmedCSV,
		AppConfig.LocalPaths.DeathsCSV,
		AppConfig.LocalPaths.RecoveredCSV,
		AppConfig.LocalPaths.MarkerFile,
		AppConfig.LocalPaths.IsoDictFile,
	} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.DataURLs.ConfirmedCSV == "" {
		cfg.DataURLs.ConfirmedCSV = csseBase + "/time_series_covid19_confirmed_global.csv"
	}
	if cfg.DataURLs.DeathsCSV == "" {
		cfg.DataURLs.DeathsCSV = csseBase + "/time_series_covid19_deaths_global.csv"
	}
	if cfg.DataURLs.RecoveredCSV == "" {
		cfg.DataURLs.RecoveredCSV = csseBase + "/time_series_covid19_recovered_global.csv"
	}
	if cfg.LocalPaths.ConfirmedCSV == "" {
		cfg.LocalPaths.ConfirmedCSV = "data/covid_world_confirmed.csv"
	}
	if cfg.LocalPaths.DeathsCSV == "" {
		cfg.LocalPaths.DeathsCSV = "data/covid_world_deaths.csv"
	}
	if cfg.LocalPaths.RecoveredCSV == "" {
		cfg.LocalPaths.RecoveredCSV = "data/covid_world_recovered.csv"
	}
	if cfg.LocalPaths.MarkerFile == "" {
		cfg.LocalPaths.MarkerFile = "data/last_updated.dat"
	}
	if cfg.LocalPaths.IsoDictFile == "" {
		cfg.LocalPaths.IsoDictFile = "data/iso_dict.json"
	}
	if cfg.IsoSource.PageURL == "" {
		cfg.IsoSource.PageURL = "https://www.iban.com/country-codes"
	}
	if cfg.IsoSource.TableSelector == "" {
		cfg.IsoSource.TableSelector = "table#myTable"
	}
}
