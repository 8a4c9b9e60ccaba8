package datasource

import (
	"context"
	"fmt"

	"occupancy-logger/models"

	"golang.org/x/time/rate"
)

// RateLimitedOccupancySource wraps an OccupancySource with rate limiting
type RateLimitedOccupancySource struct {
	source  OccupancySource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedOccupancySource creates a new rate limited occupancy source
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedOccupancySource(source OccupancySource, rps float64, burst int) *RateLimitedOccupancySource {
	return &RateLimitedOccupancySource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchOccupancy fetches occupancy, respecting rate limits
func (r *RateLimitedOccupancySource) FetchOccupancy(ctx context.Context) (int, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	// Forward to the underlying source
	return r.source.FetchOccupancy(ctx)
}

// Name returns the source name
func (r *RateLimitedOccupancySource) Name() string {
	return r.name
}

// RateLimitedWeatherSource wraps a WeatherSource with rate limiting
type RateLimitedWeatherSource struct {
	source  WeatherSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedWeatherSource creates a new rate limited weather source
// rps is the maximum requests per second allowed
// burst is the maximum burst size allowed
func NewRateLimitedWeatherSource(source WeatherSource, rps float64, burst int) *RateLimitedWeatherSource {
	return &RateLimitedWeatherSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// Current fetches the current observation, respecting rate limits
func (r *RateLimitedWeatherSource) Current(ctx context.Context) (models.Observation, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Observation{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	// Forward to the underlying source
	return r.source.Current(ctx)
}

// Name returns the source name
func (r *RateLimitedWeatherSource) Name() string {
	return r.name
}

// Verify that our rate limited types implement the required interfaces
var (
	_ OccupancySource = (*RateLimitedOccupancySource)(nil)
	_ WeatherSource   = (*RateLimitedWeatherSource)(nil)
)
