// Package experiment turns a configuration into a ready-to-run simulation.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/golfsim/internal/config"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/metrics"
	"github.com/san-kum/golfsim/internal/sweep"
)

type Experiment struct {
	cfg       *config.Config
	simulator *flight.Simulator
	recorder  sweep.Recorder
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

// WithRecorder reports every run to r.
func (e *Experiment) WithRecorder(r sweep.Recorder) *Experiment {
	e.recorder = r
	return e
}

// Setup validates the configuration, builds the aerodynamic model and
// attaches the default metrics plus any extra observers.
func (e *Experiment) Setup(observers ...flight.Observer) error {
	model, err := e.cfg.Model()
	if err != nil {
		return err
	}
	e.simulator = flight.New(model)
	for _, m := range metrics.Defaults(model) {
		e.simulator.AddMetric(m)
	}
	for _, o := range observers {
		e.simulator.AddObserver(o)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*flight.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	start := time.Now()
	res, err := e.simulator.Run(ctx, e.cfg.LaunchParams(), e.cfg.SimConfig())
	if e.recorder != nil {
		e.recorder.Record(res, err, time.Since(start))
	}
	return res, err
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
