package optim

import (
	"context"
	"testing"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var driver = flight.Launch{Speed: 45, Angle: 30, Spin: 418, SpinDecay: 0.04}

func newSweep(t *testing.T, cfg flight.Config) *sweep.Sweep {
	t.Helper()
	model, err := aero.New(aero.DefaultParams())
	require.NoError(t, err)
	return sweep.New(model, cfg, 4)
}

func TestGridSearchCoarse(t *testing.T) {
	best, flown, err := NewGridSearch(0, 90, 5, nil, 0).Search(context.Background(), newSweep(t, flight.DefaultConfig()), driver)
	require.NoError(t, err)
	assert.Equal(t, 19, flown)
	assert.Equal(t, 35.0, best.Launch.Angle)
	assert.InDelta(t, 156.15, best.Carry, 0.01)
}

func TestGridSearchRefinementNeverLosesCarry(t *testing.T) {
	sw := newSweep(t, flight.DefaultConfig())
	coarse, _, err := NewGridSearch(10, 60, 5, []float64{300, 418}, 0).Search(context.Background(), sw, driver)
	require.NoError(t, err)

	refined, flown, err := NewGridSearch(10, 60, 5, []float64{300, 418}, 2).Search(context.Background(), sw, driver)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, refined.Carry, coarse.Carry)
	assert.Greater(t, flown, 22)
	assert.GreaterOrEqual(t, refined.Launch.Angle, 10.0)
	assert.LessOrEqual(t, refined.Launch.Angle, 60.0)
}

func TestGridSearchNoLanding(t *testing.T) {
	_, _, err := NewGridSearch(20, 40, 10, nil, 1).Search(context.Background(), newSweep(t, flight.Config{MaxSteps: 2}), driver)
	assert.ErrorIs(t, err, ErrNoLanding)
}

func TestGridSearchBadRange(t *testing.T) {
	_, _, err := NewGridSearch(40, 20, 5, nil, 0).Search(context.Background(), newSweep(t, flight.DefaultConfig()), driver)
	assert.Error(t, err)
}
