// Package store persists occupancy samples and error records to Postgres.
// Both tables are append-only logs; nothing here updates or deletes rows.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"occupancy-logger/models"
)

// Config - connection settings for the backing database
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Store wraps a pgx connection pool for the two append-only logs.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a connection pool and verifies it with a ping.
func New(ctx context.Context, conf Config) (*Store, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		conf.Host, conf.Port, conf.User, conf.Password, conf.DBName, conf.SSLMode)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse config failed: %w", err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("pool creation error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Init creates the occupancy and error logs if they do not exist yet.
// Safe to run on every startup.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS occupancy_log (
			id BIGSERIAL PRIMARY KEY,
			recorded_at TIMESTAMPTZ NOT NULL,
			facility TEXT NOT NULL,
			occupancy INTEGER NOT NULL,
			temperature_f DOUBLE PRECISION,
			precipitation_in DOUBLE PRECISION
		)
	`)
	if err != nil {
		return fmt.Errorf("create occupancy_log: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS error_log (
			id BIGSERIAL PRIMARY KEY,
			recorded_at TIMESTAMPTZ NOT NULL,
			error_type TEXT NOT NULL,
			error_message TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create error_log: %w", err)
	}

	return nil
}

// AppendSample inserts one sample. The insert is a single statement, so the
// record is either fully present or absent.
func (s *Store) AppendSample(ctx context.Context, sample models.Sample) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO occupancy_log (recorded_at, facility, occupancy, temperature_f, precipitation_in)
		 VALUES ($1, $2, $3, $4, $5)`,
		sample.Timestamp, sample.Facility, sample.Occupancy, sample.TemperatureF, sample.PrecipitationIn)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// AppendError inserts one error record.
func (s *Store) AppendError(ctx context.Context, rec models.ErrorRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO error_log (recorded_at, error_type, error_message)
		 VALUES ($1, $2, $3)`,
		rec.Timestamp, string(rec.Kind), rec.Message)
	if err != nil {
		return fmt.Errorf("insert error record: %w", err)
	}
	return nil
}

// LatestSampleTime returns the timestamp of the most recent sample, or nil
// when the log is empty.
func (s *Store) LatestSampleTime(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT MAX(recorded_at) FROM occupancy_log`).Scan(&latest)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("query latest sample: %w", err)
	}
	return latest, nil
}

// RecentTemperatures returns the most recent non-null recorded temperatures,
// newest first, up to limit values.
func (s *Store) RecentTemperatures(ctx context.Context, limit int) ([]float64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT temperature_f FROM occupancy_log
		 WHERE temperature_f IS NOT NULL
		 ORDER BY recorded_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent temperatures: %w", err)
	}
	defer rows.Close()

	var temps []float64
	for rows.Next() {
		var t float64
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan temperature: %w", err)
		}
		temps = append(temps, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate temperatures: %w", err)
	}
	return temps, nil
}

// Ping verifies the database connection, for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
