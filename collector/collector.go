// Package collector drives the sampling loop: it wakes at grid-aligned
// instants, checks the operating calendar, collects one occupancy reading
// paired with a weather observation, and appends the result.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"occupancy-logger/datasource"
	"occupancy-logger/metrics"
	"occupancy-logger/models"
	"occupancy-logger/schedule"
	"occupancy-logger/smoothing"
)

// Store is the persistence contract the collector needs. *store.Store
// satisfies it; tests substitute fakes.
type Store interface {
	AppendSample(ctx context.Context, sample models.Sample) error
	AppendError(ctx context.Context, rec models.ErrorRecord) error
	LatestSampleTime(ctx context.Context) (*time.Time, error)
	RecentTemperatures(ctx context.Context, limit int) ([]float64, error)
}

// Outcome is the terminal state of one collection cycle.
type Outcome string

const (
	OutcomeSkipped  Outcome = "skipped"
	OutcomeRecorded Outcome = "recorded"
	OutcomeFailed   Outcome = "failed"
)

// Options configures a Collector.
type Options struct {
	Facility       string
	GridMinutes    int
	FetchTimeout   time.Duration
	WeatherTimeout time.Duration
	GapThreshold   time.Duration

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Collector owns the scheduling state: the next fire instant is always
// recomputed from the wall clock, never carried forward, so jitter in one
// cycle cannot accumulate into the next.
type Collector struct {
	occupancy datasource.OccupancySource
	weather   datasource.WeatherSource // nil when disabled
	store     Store
	calendar  *schedule.Calendar
	metrics   *metrics.Metrics
	logger    *slog.Logger

	facility       string
	gridMinutes    int
	fetchTimeout   time.Duration
	weatherTimeout time.Duration
	gapThreshold   time.Duration
	now            func() time.Time
	runID          string

	// inFlight serializes cycles: a tick arriving while a cycle is
	// still running is dropped, not queued.
	inFlight sync.Mutex

	statusMu    sync.RWMutex
	lastOutcome Outcome
	lastSample  time.Time
	nextFire    time.Time
}

// New assembles a collector. The weather source may be nil, which disables
// the weather half of each cycle without logging errors.
func New(occupancy datasource.OccupancySource, weather datasource.WeatherSource,
	st Store, cal *schedule.Calendar, m *metrics.Metrics, logger *slog.Logger, opts Options) *Collector {

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = 45 * time.Second
	}
	if opts.WeatherTimeout == 0 {
		opts.WeatherTimeout = 10 * time.Second
	}
	if opts.GapThreshold == 0 {
		opts.GapThreshold = schedule.DefaultGapThreshold
	}

	runID := uuid.NewString()
	return &Collector{
		occupancy:      occupancy,
		weather:        weather,
		store:          st,
		calendar:       cal,
		metrics:        m,
		logger:         logger.With("run_id", runID),
		facility:       opts.Facility,
		gridMinutes:    opts.GridMinutes,
		fetchTimeout:   opts.FetchTimeout,
		weatherTimeout: opts.WeatherTimeout,
		gapThreshold:   opts.GapThreshold,
		now:            opts.Now,
		runID:          runID,
	}
}

// RunID identifies this collector process in logs and the status API.
func (c *Collector) RunID() string {
	return c.runID
}

// Run executes the sampling loop until ctx is cancelled. On startup it
// reports any gap since the last recorded sample and, if the facility is
// open, collects immediately; afterwards every cycle fires on a grid point.
func (c *Collector) Run(ctx context.Context) {
	c.reportGap(ctx)

	now := c.now()
	if c.calendar.IsOpen(now) {
		c.logger.Info("facility is open, collecting immediately")
		c.cycle(ctx, now)
	} else if next, ok := c.calendar.NextOpening(now); ok {
		c.logger.Info("facility is closed", "next_opening", next.Format(time.RFC3339))
	}

	for {
		now = c.now()
		delay := schedule.UntilNextGridPoint(now, c.gridMinutes)
		c.setNextFire(now.Add(delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("collector stopping")
			return
		case fired := <-timer.C:
			c.cycle(ctx, fired)
		}
	}
}

// cycle runs one collection attempt under the in-flight guard.
func (c *Collector) cycle(ctx context.Context, now time.Time) {
	if !c.inFlight.TryLock() {
		c.logger.Warn("previous cycle still running, dropping tick")
		return
	}
	defer c.inFlight.Unlock()

	start := c.now()
	outcome := c.runCycle(ctx, now)
	c.metrics.ObserveCycle(c.now().Sub(start).Seconds())
	c.setOutcome(outcome, now)
}

// runCycle is the per-tick state machine: gate check, occupancy fetch,
// optional weather, append. Every failure terminates the cycle at the
// boundary; nothing propagates out to the loop.
func (c *Collector) runCycle(ctx context.Context, now time.Time) Outcome {
	if !c.calendar.IsOpen(now) {
		c.logger.Info("outside operating hours, skipping")
		c.metrics.CycleSkipped()
		return OutcomeSkipped
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	occupancy, err := c.occupancy.FetchOccupancy(fetchCtx)
	cancel()
	if err != nil {
		c.recordError(ctx, now, models.ErrorFetch, fmt.Sprintf("error logging occupancy: %v", err))
		return OutcomeFailed
	}

	sample := models.Sample{
		Timestamp: now.Truncate(time.Minute),
		Facility:  c.facility,
		Occupancy: occupancy,
	}

	if c.weather != nil {
		c.attachWeather(ctx, now, &sample)
	}

	if err := c.store.AppendSample(ctx, sample); err != nil {
		// Persistence trouble stays in the process log: appending an
		// ErrorRecord would hit the same backend.
		c.logger.Error("failed to append sample", "error", err)
		c.metrics.CycleFailed("persistence_error")
		return OutcomeFailed
	}

	c.metrics.SampleRecorded(float64(sample.Timestamp.Unix()))
	c.logger.Info("logged occupancy",
		"facility", c.facility,
		"occupancy", occupancy,
		"weather", sample.TemperatureF != nil)
	return OutcomeRecorded
}

// attachWeather fills the optional weather fields. A provider failure is
// logged for observability but never fails the cycle.
func (c *Collector) attachWeather(ctx context.Context, now time.Time, sample *models.Sample) {
	weatherCtx, cancel := context.WithTimeout(ctx, c.weatherTimeout)
	obs, err := c.weather.Current(weatherCtx)
	cancel()
	if err != nil {
		c.recordError(ctx, now, models.ErrorWeatherAPI, fmt.Sprintf("weather fetch failed: %v", err))
		return
	}

	temperature := obs.FeelsLikeF
	recent, err := c.store.RecentTemperatures(ctx, smoothing.HistorySize)
	if err != nil {
		// Record the raw reading rather than dropping it.
		c.recordError(ctx, now, models.ErrorWeather, fmt.Sprintf("reading temperature history: %v", err))
	} else {
		temperature = smoothing.Smooth(temperature, recent)
	}

	precipitation := obs.PrecipitationIn
	sample.TemperatureF = &temperature
	sample.PrecipitationIn = &precipitation
}

func (c *Collector) recordError(ctx context.Context, now time.Time, kind models.ErrorKind, message string) {
	c.logger.Error("cycle error", "kind", string(kind), "message", message)
	c.metrics.CycleFailed(string(kind))
	rec := models.ErrorRecord{
		Timestamp: now,
		Kind:      kind,
		Message:   message,
	}
	if err := c.store.AppendError(ctx, rec); err != nil {
		c.logger.Error("failed to append error record", "error", err)
	}
}

// reportGap warns when the last recorded sample is older than the
// threshold, usually because the host slept or the process was down.
// The warning never alters scheduling.
func (c *Collector) reportGap(ctx context.Context) {
	last, err := c.store.LatestSampleTime(ctx)
	if err != nil {
		c.logger.Warn("could not check for missed data", "error", err)
		return
	}
	if warning := schedule.CheckGap(last, c.now(), c.gapThreshold); warning != nil {
		c.logger.Warn("gap since last recorded sample",
			"hours_missed", fmt.Sprintf("%.1f", warning.HoursMissed),
			"last_seen", warning.LastSeen.Format(time.RFC3339))
	}
}

// Status is a snapshot for the status API. Timestamps are pointers so a
// collector that has not fired yet serializes without zero-value dates.
type Status struct {
	RunID       string     `json:"runId"`
	Facility    string     `json:"facility"`
	OpenNow     bool       `json:"openNow"`
	NextFire    *time.Time `json:"nextFire,omitempty"`
	NextOpening *time.Time `json:"nextOpening,omitempty"`
	LastOutcome Outcome    `json:"lastOutcome,omitempty"`
	LastSample  *time.Time `json:"lastSample,omitempty"`
}

// Status reports the collector's current scheduling state.
func (c *Collector) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()

	now := c.now()
	st := Status{
		RunID:       c.runID,
		Facility:    c.facility,
		OpenNow:     c.calendar.IsOpen(now),
		LastOutcome: c.lastOutcome,
	}
	if !c.nextFire.IsZero() {
		fire := c.nextFire
		st.NextFire = &fire
	}
	if !c.lastSample.IsZero() {
		last := c.lastSample
		st.LastSample = &last
	}
	if next, ok := c.calendar.NextOpening(now); ok {
		st.NextOpening = &next
	}
	return st
}

func (c *Collector) setNextFire(t time.Time) {
	c.statusMu.Lock()
	c.nextFire = t
	c.statusMu.Unlock()
}

func (c *Collector) setOutcome(o Outcome, at time.Time) {
	c.statusMu.Lock()
	c.lastOutcome = o
	if o == OutcomeRecorded {
		c.lastSample = at
	}
	c.statusMu.Unlock()
}
