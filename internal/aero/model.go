package aero

import (
	"math"
	"slices"

	"github.com/san-kum/golfsim/internal/vector"
)

const (
	// LiftAngle points Magnus lift straight up, valid for pure backspin.
	LiftAngle   = 90.0
	WeightAngle = 270.0
)

// Forces is the force sample acting on the ball at one instant.
type Forces struct {
	Drag   vector.Polar `json:"drag"`
	Lift   vector.Polar `json:"lift"`
	Weight vector.Polar `json:"weight"`
	Net    vector.Polar `json:"net"`
}

// Model evaluates drag, lift and weight for a validated set of Params.
// It is read-only after construction and safe for concurrent use.
type Model struct {
	params Params
	area   float64
	weight vector.Polar
}

func New(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.DragTable = slices.Clone(p.DragTable)
	return newModel(p), nil
}

func newModel(p Params) *Model {
	r := p.BallDiameter / 2
	return &Model{
		params: p,
		area:   math.Pi * r * r,
		weight: vector.Polar{Magnitude: p.BallMass * p.Gravity, Angle: WeightAngle},
	}
}

func (m *Model) Params() Params {
	p := m.params
	p.DragTable = slices.Clone(p.DragTable)
	return p
}

// Area is the ball's cross-sectional area.
func (m *Model) Area() float64 { return m.area }

func (m *Model) Mass() float64 { return m.params.BallMass }

// Reynolds returns the Reynolds number of the ball moving at speed.
func (m *Model) Reynolds(speed float64) float64 {
	return m.params.AirDensity * speed * m.params.BallDiameter / m.params.AirViscosity
}

func (m *Model) DragCoefficient(speed float64) float64 {
	return m.params.DragTable.Lookup(m.Reynolds(speed))
}

// DragMagnitude is ½ρv²·Cd·A.
func (m *Model) DragMagnitude(speed, cd float64) float64 {
	return m.dynamicPressure(speed) * cd * m.area
}

// DragForce opposes the direction of travel.
func (m *Model) DragForce(velocity vector.Polar) vector.Polar {
	cd := m.DragCoefficient(velocity.Magnitude)
	return vector.Polar{
		Magnitude: m.DragMagnitude(velocity.Magnitude, cd),
		Angle:     velocity.Angle + 180,
	}
}

// LiftCoefficient evaluates the fitted cubic in spin rate.
func (m *Model) LiftCoefficient(spin float64) float64 {
	c := m.params.LiftCoeffs
	return ((c[3]*spin+c[2])*spin+c[1])*spin + c[0]
}

// LiftMagnitude is ½ρv²·Cl·A.
func (m *Model) LiftMagnitude(speed, cl float64) float64 {
	return m.dynamicPressure(speed) * cl * m.area
}

// LiftForce acts along LiftAngle. Topspin gives a negative coefficient, which
// turns the force downward instead of producing a negative magnitude.
func (m *Model) LiftForce(speed, spin float64) vector.Polar {
	mag := m.LiftMagnitude(speed, m.LiftCoefficient(spin))
	if mag < 0 {
		return vector.Polar{Magnitude: -mag, Angle: LiftAngle + 180}
	}
	return vector.Polar{Magnitude: mag, Angle: LiftAngle}
}

func (m *Model) Weight() vector.Polar { return m.weight }

func Net(drag, lift, weight vector.Polar) vector.Polar {
	return vector.Sum(drag, lift, weight)
}

// Forces computes the full force sample for a ball with the given velocity
// and spin rate.
func (m *Model) Forces(velocity vector.Polar, spin float64) Forces {
	f := Forces{
		Drag:   m.DragForce(velocity),
		Lift:   m.LiftForce(velocity.Magnitude, spin),
		Weight: m.weight,
	}
	f.Net = Net(f.Drag, f.Lift, f.Weight)
	return f
}

// Acceleration converts a force into the velocity increment of one time unit.
func (m *Model) Acceleration(force vector.Polar) vector.Polar {
	return force.Scale(1 / m.params.BallMass)
}

func (m *Model) dynamicPressure(speed float64) float64 {
	return 0.5 * m.params.AirDensity * speed * speed
}
