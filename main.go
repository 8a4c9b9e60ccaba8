package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"occupancy-logger/api"
	"occupancy-logger/collector"
	"occupancy-logger/config"
	"occupancy-logger/datasource"
	"occupancy-logger/logging"
	"occupancy-logger/metrics"
	"occupancy-logger/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	configPath := flag.String("config", ".", "Directory containing config.yaml")
	addr := flag.String("addr", "", "Status server address (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := logging.New(cfg.Log.Level)

	// An invalid operating calendar is fatal: a sampler that cannot tell
	// open from closed must not start.
	calendar, err := cfg.Calendar()
	if err != nil {
		log.Fatalf("Invalid operating calendar: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database and create the logs if missing.
	st, err := store.New(ctx, cfg.StoreConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()
	if err := st.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Occupancy source, rate limited to one page load per 30 seconds so a
	// misconfigured one-minute grid still cannot hammer the host.
	var occupancy datasource.OccupancySource = datasource.NewFacilityPage(cfg.Facility.URL, cfg.Facility.ElementID)
	occupancy = datasource.NewRateLimitedOccupancySource(occupancy, 1.0/30.0, 1)

	// Weather source, if a real credential is configured.
	var weather datasource.WeatherSource
	if cfg.WeatherEnabled() {
		switch cfg.Weather.Provider {
		case "openweathermap":
			weather = datasource.NewOpenWeatherMapSource(cfg.Weather.APIKey, cfg.Weather.Latitude, cfg.Weather.Longitude)
		case "weatherapi":
			weather = datasource.NewWeatherAPISource(cfg.Weather.APIKey, cfg.Weather.Latitude, cfg.Weather.Longitude)
		default:
			log.Fatalf("Unknown weather provider %q", cfg.Weather.Provider)
		}
		weather = datasource.NewRateLimitedWeatherSource(weather, 1.0, 1)
		logger.Info("weather source enabled", "provider", cfg.Weather.Provider)
	} else {
		logger.Info("weather source disabled: no API key configured")
	}

	m := metrics.New()

	c := collector.New(occupancy, weather, st, calendar, m, logger, collector.Options{
		Facility:       cfg.Facility.Name,
		GridMinutes:    cfg.Sampling.IntervalMinutes,
		FetchTimeout:   cfg.Sampling.FetchTimeout,
		WeatherTimeout: cfg.Sampling.WeatherTimeout,
		GapThreshold:   cfg.Sampling.GapThreshold,
	})

	logger.Info("occupancy logger starting",
		"facility", cfg.Facility.Name,
		"url", cfg.Facility.URL,
		"interval_minutes", cfg.Sampling.IntervalMinutes,
		"run_id", c.RunID())
	for day := time.Sunday; day <= time.Saturday; day++ {
		if w, ok := calendar.Window(day); ok {
			logger.Info("operating hours", "day", day.String(), "open", w.Opens.String(), "close", w.Closes.String())
		} else {
			logger.Info("operating hours", "day", day.String(), "open", "closed all day")
		}
	}

	// Status server
	server := api.NewServer(cfg.Server.Addr, func() any { return c.Status() }, st, m.Handler(), logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Info("status server stopped", "error", err)
		}
	}()

	// Sampling loop; blocks until the context is cancelled by a signal.
	c.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("status server shutdown", "error", err)
	}
	logger.Info("shutdown complete")
}
