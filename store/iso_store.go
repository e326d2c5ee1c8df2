// store/iso_store.go
package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveIsoDict writes the country name -> ISO alpha-3 map as a JSON file.
func SaveIsoDict(path string, isoDict map[string]string) error {
	data, err := json.Marshal(isoDict)
	if err != nil {
		return fmt.Errorf("failed to marshal ISO dict: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write ISO dict %s: %w", path, err)
	}
	return nil
}

// LoadIsoDict reads the country name -> ISO alpha-3 map back from disk.
func LoadIsoDict(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ISO dict %s: %w", path, err)
	}
	var isoDict map[string]string
	if err := json.Unmarshal(data, &isoDict); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ISO dict %s: %w", path, err)
	}
	return isoDict, nil
}

// HasIsoDict reports whether the ISO dict file exists.
func HasIsoDict(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
