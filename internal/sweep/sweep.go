// Package sweep flies many launches against one model in parallel.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Recorder is told about every finished run.
type Recorder interface {
	Record(res *flight.Result, err error, elapsed time.Duration)
}

type Outcome struct {
	Launch flight.Launch
	Steps  int
	Landed bool
	Carry  float64
	Apex   float64
}

type Sweep struct {
	model    *aero.Model
	cfg      flight.Config
	workers  int
	recorder Recorder
}

// New returns a sweep running at most workers flights at once; workers <= 0
// means one per CPU.
func New(model *aero.Model, cfg flight.Config, workers int) *Sweep {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Sweep{model: model, cfg: cfg, workers: workers}
}

func (s *Sweep) WithRecorder(r Recorder) *Sweep {
	s.recorder = r
	return s
}

// Run flies every launch and returns the outcomes in input order. A ball that
// never lands is reported with Landed false; any other error cancels the
// remaining flights.
func (s *Sweep) Run(ctx context.Context, launches []flight.Launch) ([]Outcome, error) {
	outcomes := make([]Outcome, len(launches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, launch := range launches {
		i, launch := i, launch
		g.Go(func() error {
			apex := metrics.NewApex()
			sim := flight.New(s.model)
			sim.AddMetric(apex)

			start := time.Now()
			res, err := sim.Run(gctx, launch, s.cfg)
			if s.recorder != nil {
				s.recorder.Record(res, err, time.Since(start))
			}
			if err != nil && !errors.Is(err, flight.ErrDidNotLand) {
				return fmt.Errorf("launch %d (%.1f°): %w", i, launch.Angle, err)
			}

			outcomes[i] = Outcome{
				Launch: launch,
				Steps:  res.Steps(),
				Landed: res.Landed,
				Carry:  res.Carry(),
				Apex:   apex.Value(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Angles varies the launch angle of base over [from, to] in step increments.
func Angles(base flight.Launch, from, to, step float64) ([]flight.Launch, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, fmt.Errorf("sweep: step must be positive, got %g", step)
	}
	if to < from {
		return nil, fmt.Errorf("sweep: empty range [%g, %g]", from, to)
	}

	n := int(math.Floor((to-from)/step+1e-9)) + 1
	launches := make([]flight.Launch, n)
	for i := range launches {
		launches[i] = base
		launches[i].Angle = from + float64(i)*step
	}
	return launches, nil
}

// Spins varies the initial spin rate of base.
func Spins(base flight.Launch, spins []float64) []flight.Launch {
	launches := make([]flight.Launch, len(spins))
	for i, spin := range spins {
		launches[i] = base
		launches[i].Spin = spin
	}
	return launches
}

// Best returns the landed outcome with the longest carry.
func Best(outcomes []Outcome) (Outcome, bool) {
	var best Outcome
	found := false
	for _, o := range outcomes {
		if !o.Landed {
			continue
		}
		if !found || o.Carry > best.Carry {
			best, found = o, true
		}
	}
	return best, found
}
