package metrics

import (
	"math"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/flight"
)

// Energy reports the mechanical energy (kinetic plus potential above launch
// height) of the ball at the last observed step.
type Energy struct {
	name    string
	mass    float64
	gravity float64
	samples int
	current float64
}

func NewEnergy(mass, gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		mass:    mass,
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s flight.State, f aero.Forces) {
	e.current = mechanical(e.mass, e.gravity, s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.current
}

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyLoss is the fraction of the launch energy lost by the last observed
// step. The unit time step gains ½·m·g² per step on its own, so a vacuum
// flight reports a small negative loss.
type EnergyLoss struct {
	name    string
	mass    float64
	gravity float64
	initial float64
	loss    float64
	samples int
}

func NewEnergyLoss(mass, gravity float64) *EnergyLoss {
	return &EnergyLoss{
		name:    "energy_loss",
		mass:    mass,
		gravity: gravity,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(s flight.State, f aero.Forces) {
	energy := mechanical(e.mass, e.gravity, s)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		e.loss = (e.initial - energy) / math.Abs(e.initial)
	}
}

func (e *EnergyLoss) Value() float64 { return e.loss }

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.loss = 0
	e.samples = 0
}

func mechanical(mass, gravity float64, s flight.State) float64 {
	v := s.Velocity.Magnitude
	return 0.5*mass*v*v + mass*gravity*s.Position.Y
}
