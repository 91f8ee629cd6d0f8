// Package optim searches launch parameters for the longest carry.
package optim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/sweep"
)

var ErrNoLanding = errors.New("no flight in the grid landed")

// GridSearch flies every angle × spin combination, then repeatedly re-grids
// the angle axis around the best cell with a smaller step.
type GridSearch struct {
	angleFrom, angleTo, angleStep float64
	spins                         []float64
	refinements                   int
}

// NewGridSearch searches [from, to] in step increments. An empty spins slice
// keeps the base launch spin.
func NewGridSearch(from, to, step float64, spins []float64, refinements int) *GridSearch {
	return &GridSearch{
		angleFrom:   from,
		angleTo:     to,
		angleStep:   step,
		spins:       spins,
		refinements: max(0, refinements),
	}
}

// Search returns the best landed outcome and the number of flights flown.
func (g *GridSearch) Search(ctx context.Context, sw *sweep.Sweep, base flight.Launch) (sweep.Outcome, int, error) {
	spins := g.spins
	if len(spins) == 0 {
		spins = []float64{base.Spin}
	}

	from, to, step := g.angleFrom, g.angleTo, g.angleStep
	var best sweep.Outcome
	found := false
	flown := 0

	for round := 0; round <= g.refinements; round++ {
		var launches []flight.Launch
		for _, spin := range spins {
			l := base
			l.Spin = spin
			grid, err := sweep.Angles(l, from, to, step)
			if err != nil {
				return sweep.Outcome{}, flown, fmt.Errorf("round %d: %w", round, err)
			}
			launches = append(launches, grid...)
		}

		outcomes, err := sw.Run(ctx, launches)
		if err != nil {
			return sweep.Outcome{}, flown, err
		}
		flown += len(outcomes)

		if b, ok := sweep.Best(outcomes); ok && (!found || b.Carry > best.Carry) {
			best, found = b, true
		}
		if !found {
			return sweep.Outcome{}, flown, ErrNoLanding
		}

		// Later rounds keep the winning spin and zoom in on its angle.
		spins = []float64{best.Launch.Spin}
		from = max(g.angleFrom, best.Launch.Angle-step)
		to = min(g.angleTo, best.Launch.Angle+step)
		step /= 4
	}

	return best, flown, nil
}
