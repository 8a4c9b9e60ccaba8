package datasource

import (
	"context"

	"occupancy-logger/models"
)

// OccupancySource fetches the current occupancy percentage for a facility.
type OccupancySource interface {
	// FetchOccupancy returns the occupancy as an integer in [0,100].
	FetchOccupancy(ctx context.Context) (int, error)

	// Name returns the source's name
	Name() string
}

// WeatherSource fetches the current weather observation for a fixed location.
type WeatherSource interface {
	// Current returns the latest observation.
	Current(ctx context.Context) (models.Observation, error)

	// Name returns the source's name
	Name() string
}
