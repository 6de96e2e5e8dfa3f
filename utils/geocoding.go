package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var geocodeClient = &http.Client{Timeout: 5 * time.Second}

// GeocodeAddress converts a free-text location to coordinates using
// OpenStreetMap Nominatim. This is a free service; for production use,
// consider using Google Maps API or similar.
func GeocodeAddress(addressText string) (float64, float64, error) {
	cleanAddress := strings.TrimSpace(addressText)
	if cleanAddress == "" {
		return 0, 0, fmt.Errorf("address cannot be empty")
	}

	apiURL := fmt.Sprintf("https://nominatim.openstreetmap.org/search?q=%s&format=json&limit=1",
		url.QueryEscape(cleanAddress))

	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, 0, err
	}
	// Nominatim's usage policy requires an identifying user agent.
	req.Header.Set("User-Agent", "artist-marketplace-server/1.0")

	resp, err := geocodeClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to make geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding service returned status: %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding results for %q", cleanAddress)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in response: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in response: %w", err)
	}

	return lat, lon, nil
}
