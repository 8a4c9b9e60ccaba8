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

// mmPerInch converts OpenWeatherMap's millimeter rain volumes to inches.
const mmPerInch = 25.4

// OpenWeatherMapSource fetches current conditions from OpenWeatherMap for a
// fixed latitude/longitude.
type OpenWeatherMapSource struct {
	apiKey     string
	baseURL    string
	lat, lon   float64
	httpClient *http.Client
}

// NewOpenWeatherMapSource creates a new OpenWeatherMap source
func NewOpenWeatherMapSource(apiKey string, lat, lon float64) *OpenWeatherMapSource {
	return &OpenWeatherMapSource{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		lat:     lat,
		lon:     lon,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the source name
func (s *OpenWeatherMapSource) Name() string {
	return "OpenWeatherMap"
}

// Current fetches the current observation for the configured location
func (s *OpenWeatherMapSource) Current(ctx context.Context) (models.Observation, error) {
	// Build URL
	endpoint := fmt.Sprintf("%s/weather", s.baseURL)
	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%f", s.lat))
	params.Add("lon", fmt.Sprintf("%f", s.lon))
	params.Add("appid", s.apiKey)
	params.Add("units", "imperial") // feels_like in Fahrenheit

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
		Main struct {
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Rain struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return models.Observation{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return models.Observation{
		Provider:        s.Name(),
		FeelsLikeF:      response.Main.FeelsLike,
		PrecipitationIn: response.Rain.OneHour / mmPerInch,
		Timestamp:       time.Now(),
	}, nil
}
