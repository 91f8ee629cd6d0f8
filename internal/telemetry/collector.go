// Package telemetry exports flight outcomes as Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/golfsim/internal/flight"
)

const (
	OutcomeLanded    = "landed"
	OutcomeNoLanding = "did_not_land"
	OutcomeInvalid   = "invalid_state"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// Collector bundles the run metrics. It is safe for concurrent use and
// satisfies sweep.Recorder.
type Collector struct {
	gatherer prometheus.Gatherer

	Runs      *prometheus.CounterVec
	Steps     prometheus.Histogram
	Durations prometheus.Histogram
	Carry     prometheus.Gauge
	Apex      prometheus.Gauge
}

// NewCollector registers the run metrics against reg, defaulting to the
// global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "golfsim_runs_total",
		Help: "Simulated flights, labeled by outcome.",
	}, []string{"outcome"})
	steps := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "golfsim_flight_steps",
		Help:    "Integration steps per flight.",
		Buckets: []float64{2, 4, 6, 8, 10, 15, 20, 50, 100, 1000},
	})
	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "golfsim_run_duration_seconds",
		Help:    "Wall time spent simulating one flight.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})
	carry := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "golfsim_last_carry",
		Help: "Horizontal distance of the most recent landed flight.",
	})
	apex := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "golfsim_last_apex",
		Help: "Peak height of the most recent landed flight.",
	})

	for _, c := range []prometheus.Collector{runs, steps, durations, carry, apex} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register run metrics: %w", err)
		}
	}

	return &Collector{
		gatherer:  gatherer,
		Runs:      runs,
		Steps:     steps,
		Durations: durations,
		Carry:     carry,
		Apex:      apex,
	}, nil
}

// Record classifies one finished run.
func (c *Collector) Record(res *flight.Result, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Runs.WithLabelValues(Outcome(err)).Inc()
	c.Durations.Observe(elapsed.Seconds())
	if res == nil {
		return
	}
	c.Steps.Observe(float64(res.Steps()))
	if err == nil && res.Landed {
		c.Carry.Set(res.Carry())
		apex := 0.0
		for _, s := range res.Trajectory {
			apex = max(apex, s.Position.Y)
		}
		c.Apex.Set(apex)
	}
}

// Outcome maps a run error to its label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeLanded
	case errors.Is(err, flight.ErrDidNotLand):
		return OutcomeNoLanding
	case errors.Is(err, flight.ErrInvalidState):
		return OutcomeInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}

func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
