// store/freshness.go
package store

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Clock defines an interface for clocks so tests can pin the current day.
type Clock interface {
	// Now returns the current local time.
	Now() time.Time
}

// WallClock is the Clock implementation backed by the wall time.
type WallClock struct{}

// Now returns the current local time.
func (WallClock) Now() time.Time {
	return time.Now()
}

// Marker layout: day.month.year, matching the cached marker files in the wild.
const markerLayout = "02.01.2006"

// FreshnessTracker persists the date of the last successful data refresh in a
// single marker file. Day granularity, single writer, last write wins.
type FreshnessTracker struct {
	path  string
	clock Clock
}

// NewFreshnessTracker creates a tracker for the given marker file. A nil
// clock falls back to the wall clock.
func NewFreshnessTracker(path string, clock Clock) *FreshnessTracker {
	if clock == nil {
		clock = WallClock{}
	}
	return &FreshnessTracker{path: path, clock: clock}
}

// IsFresh reports whether the marker holds today's date. A missing marker or
// any read failure reads as stale, never as an error.
func (t *FreshnessTracker) IsFresh() bool {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return false
	}
	today := t.clock.Now().Format(markerLayout)
	return strings.TrimSpace(string(data)) == today
}

// MarkRefreshed overwrites the marker with the current calendar date.
func (t *FreshnessTracker) MarkRefreshed() error {
	today := t.clock.Now().Format(markerLayout)
	if err := os.WriteFile(t.path, []byte(today), 0644); err != nil {
		return fmt.Errorf("failed to write freshness marker %s: %w", t.path, err)
	}
	log.Printf("Store: Freshness marker set to %s.\n", today)
	return nil
}

// LastRefreshed returns the stored marker date, if any.
func (t *FreshnessTracker) LastRefreshed() (time.Time, bool) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(markerLayout, strings.TrimSpace(string(data)), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
