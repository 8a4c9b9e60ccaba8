package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"occupancy-logger/models"
)

// WeatherAPISource fetches current conditions from weatherapi.com for a
// fixed latitude/longitude.
type WeatherAPISource struct {
	apiKey     string
	baseURL    string
	lat, lon   float64
	httpClient *http.Client
}

// NewWeatherAPISource creates a new WeatherAPI source
func NewWeatherAPISource(apiKey string, lat, lon float64) *WeatherAPISource {
	return &WeatherAPISource{
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		lat:     lat,
		lon:     lon,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the source name
func (s *WeatherAPISource) Name() string {
	return "WeatherAPI"
}

// Current fetches the current observation for the configured location
func (s *WeatherAPISource) Current(ctx context.Context) (models.Observation, error) {
	// Build URL
	endpoint := fmt.Sprintf("%s/current.json", s.baseURL)
	params := url.Values{}
	params.Add("q", fmt.Sprintf("%f,%f", s.lat, s.lon))
	params.Add("key", s.apiKey)

	// Create request
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.Observation{}, fmt.Errorf("failed to create request: %w", err)
	}

	// Execute request
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Observation{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Observation{}, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for error status code
	if resp.StatusCode != http.StatusOK {
		return models.Observation{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	// Parse response
	var response struct {
		Current struct {
			FeelsLikeF float64 `json:"feelslike_f"`
			PrecipIn   float64 `json:"precip_in"`
		} `json:"current"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return models.Observation{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return models.Observation{
		Provider:        s.Name(),
		FeelsLikeF:      response.Current.FeelsLikeF,
		PrecipitationIn: response.Current.PrecipIn,
		Timestamp:       time.Now(),
	}, nil
}
