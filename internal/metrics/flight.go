package metrics

import (
	"math"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/flight"
)

// Apex is the greatest height reached.
type Apex struct {
	height float64
}

func NewApex() *Apex { return &Apex{} }

func (a *Apex) Name() string { return "apex" }

func (a *Apex) Observe(s flight.State, f aero.Forces) {
	a.height = math.Max(a.height, s.Position.Y)
}

func (a *Apex) Value() float64 { return a.height }
func (a *Apex) Reset()         { a.height = 0 }

// Carry is the horizontal distance covered by the last observed step.
type Carry struct {
	x float64
}

func NewCarry() *Carry { return &Carry{} }

func (c *Carry) Name() string                          { return "carry" }
func (c *Carry) Observe(s flight.State, f aero.Forces) { c.x = s.Position.X }
func (c *Carry) Value() float64                        { return c.x }
func (c *Carry) Reset()                                { c.x = 0 }

// HangSteps counts integration steps, i.e. time units spent in the air.
type HangSteps struct {
	steps int
}

func NewHangSteps() *HangSteps { return &HangSteps{} }

func (h *HangSteps) Name() string                          { return "hang_steps" }
func (h *HangSteps) Observe(s flight.State, f aero.Forces) { h.steps = s.Step }
func (h *HangSteps) Value() float64                        { return float64(h.steps) }
func (h *HangSteps) Reset()                                { h.steps = 0 }

type MaxSpeed struct {
	speed float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(s flight.State, f aero.Forces) {
	m.speed = math.Max(m.speed, s.Velocity.Magnitude)
}

func (m *MaxSpeed) Value() float64 { return m.speed }
func (m *MaxSpeed) Reset()         { m.speed = 0 }

// MeanDrag averages the drag force magnitude over all observed steps.
type MeanDrag struct {
	sum     float64
	samples int
}

func NewMeanDrag() *MeanDrag { return &MeanDrag{} }

func (d *MeanDrag) Name() string { return "mean_drag" }

func (d *MeanDrag) Observe(s flight.State, f aero.Forces) {
	d.sum += f.Drag.Magnitude
	d.samples++
}

func (d *MeanDrag) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *MeanDrag) Reset() {
	d.sum = 0
	d.samples = 0
}

// Defaults is the metric set attached to every CLI run.
func Defaults(model *aero.Model) []flight.Metric {
	p := model.Params()
	return []flight.Metric{
		NewCarry(),
		NewApex(),
		NewHangSteps(),
		NewMaxSpeed(),
		NewMeanDrag(),
		NewEnergy(p.BallMass, p.Gravity),
		NewEnergyLoss(p.BallMass, p.Gravity),
	}
}
