package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"occupancy-logger/schedule"
	"occupancy-logger/store"
)

// weekdays maps config keys to time.Weekday. Keys follow the config file,
// lowercase English day names.
var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// placeholderKeys are credential values treated as "weather disabled"
// rather than misconfiguration.
var placeholderKeys = map[string]bool{
	"":             true,
	"YOUR_API_KEY": true,
	"changeme":     true,
}

type Hours struct {
	Open  string `mapstructure:"open"`
	Close string `mapstructure:"close"`
}

type Config struct {
	Facility struct {
		Name      string `mapstructure:"name"`
		URL       string `mapstructure:"url"`
		ElementID string `mapstructure:"element_id"`
	} `mapstructure:"facility"`

	Sampling struct {
		IntervalMinutes int           `mapstructure:"interval_minutes"`
		FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
		WeatherTimeout  time.Duration `mapstructure:"weather_timeout"`
		GapThreshold    time.Duration `mapstructure:"gap_threshold"`
	} `mapstructure:"sampling"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Weather struct {
		Provider  string  `mapstructure:"provider"` // "weatherapi" or "openweathermap"
		APIKey    string  `mapstructure:"api_key"`
		Latitude  float64 `mapstructure:"latitude"`
		Longitude float64 `mapstructure:"longitude"`
	} `mapstructure:"weather"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Hours map[string]Hours `mapstructure:"hours"`
}

// Load reads config.yaml from the given directory. Environment variables
// with the OCCUPANCY_ prefix override file values
// (e.g. OCCUPANCY_WEATHER_API_KEY).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("OCCUPANCY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Sampling.IntervalMinutes <= 0 || cfg.Sampling.IntervalMinutes > 60 {
		return nil, fmt.Errorf("sampling.interval_minutes must be in 1..60, got %d", cfg.Sampling.IntervalMinutes)
	}
	// Grid points are multiples of the hour, so the interval must divide it
	// evenly; 25 would fire at :25, :50, :15 with an irregular step.
	if 60%cfg.Sampling.IntervalMinutes != 0 {
		return nil, fmt.Errorf("sampling.interval_minutes must divide 60 evenly, got %d", cfg.Sampling.IntervalMinutes)
	}
	if cfg.Facility.URL == "" {
		return nil, fmt.Errorf("facility.url is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sampling.interval_minutes", 15)
	v.SetDefault("sampling.fetch_timeout", 45*time.Second)
	v.SetDefault("sampling.weather_timeout", 10*time.Second)
	v.SetDefault("sampling.gap_threshold", time.Hour)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "occupancy")
	v.SetDefault("database.name", "occupancy")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("weather.provider", "weatherapi")
	// Registered so OCCUPANCY_WEATHER_API_KEY can override via AutomaticEnv
	// even when the file omits the key.
	v.SetDefault("weather.api_key", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
}

// Calendar builds the validated operating calendar from the hours section.
// Invalid or empty hours are a startup failure.
func (c *Config) Calendar() (*schedule.Calendar, error) {
	windows := make(map[time.Weekday]schedule.Window, len(c.Hours))
	for name, hours := range c.Hours {
		day, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("hours: unknown weekday %q", name)
		}
		opens, err := schedule.ParseTimeOfDay(hours.Open)
		if err != nil {
			return nil, fmt.Errorf("hours.%s.open: %w", name, err)
		}
		closes, err := schedule.ParseTimeOfDay(hours.Close)
		if err != nil {
			return nil, fmt.Errorf("hours.%s.close: %w", name, err)
		}
		windows[day] = schedule.Window{Opens: opens, Closes: closes}
	}
	return schedule.NewCalendar(windows)
}

// StoreConfig maps the database section onto the store's settings.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.Name,
		SSLMode:  c.Database.SSLMode,
	}
}

// WeatherEnabled reports whether a usable weather credential is configured.
// A placeholder key is a recognized disabled state, not an error.
func (c *Config) WeatherEnabled() bool {
	return !placeholderKeys[c.Weather.APIKey]
}
