package models

import (
	"time"
)

// Sample is one recorded occupancy reading, optionally paired with the
// weather observed at the same time. Temperature and precipitation are
// pointers because a weather failure leaves them absent, not zero.
type Sample struct {
	Timestamp       time.Time `json:"timestamp"`
	Facility        string    `json:"facility"`
	Occupancy       int       `json:"occupancy"`
	TemperatureF    *float64  `json:"temperatureF,omitempty"`
	PrecipitationIn *float64  `json:"precipitationIn,omitempty"`
}

// ErrorKind classifies a failed collection cycle.
type ErrorKind string

const (
	ErrorFetch      ErrorKind = "fetch_error"
	ErrorWeatherAPI ErrorKind = "weather_api_error"
	ErrorWeather    ErrorKind = "weather_error"
)

// ErrorRecord is one appended failure entry.
type ErrorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
}

// Observation is a single weather reading from a provider.
type Observation struct {
	Provider        string    `json:"provider"`
	FeelsLikeF      float64   `json:"feelsLikeF"`
	PrecipitationIn float64   `json:"precipitationIn"`
	Timestamp       time.Time `json:"timestamp"`
}
