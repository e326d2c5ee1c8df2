// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/gewnthar/covidash/config"
	"github.com/gewnthar/covidash/handlers"
	"github.com/gewnthar/covidash/services"
	"github.com/gewnthar/covidash/store"
)

func main() {
	log.Println("Starting covidash backend...")

	// .env is optional; it can override COVIDASH_CONFIG.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := os.Getenv("COVIDASH_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Printf("No config file at %s, using built-in defaults.", configPath)
			configPath = ""
		}
	}

	if err := config.LoadConfig(configPath); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, confirmed CSV URL: %s",
		config.AppConfig.Server.Port, config.AppConfig.DataURLs.ConfirmedCSV)

	freshness := store.NewFreshnessTracker(config.AppConfig.LocalPaths.MarkerFile, store.WallClock{})
	loader := services.NewLoaderService(freshness)
	series := services.NewSeriesService(loader)

	if last, ok := freshness.LastRefreshed(); ok {
		log.Printf("Last updated: %s.", last.Format("02.01.2006"))
	}

	// --- Setup HTTP routes ---
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status": "ok", "message": "covidash backend is healthy"}`)
	})

	http.HandleFunc("/api/countries", handlers.GetCountriesHandler(series))
	http.HandleFunc("/api/series", handlers.GetSeriesHandler(series))
	http.HandleFunc("/api/stats", handlers.GetStatsHandler(series))
	http.HandleFunc("/api/admin/refresh", handlers.RefreshDataHandler(loader))

	// Static dashboard page
	http.Handle("/", http.FileServer(http.Dir("web/static")))

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	if err := http.ListenAndServe(serverAddr, nil); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
