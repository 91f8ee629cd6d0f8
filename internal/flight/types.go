package flight

import (
	"fmt"
	"math"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/vector"
)

// DefaultMaxSteps bounds a run that never comes back down.
const DefaultMaxSteps = 10000

type Phase int

const (
	Running Phase = iota
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Launch describes how the ball leaves the club.
type Launch struct {
	Speed float64
	// Angle above the horizontal, in degrees.
	Angle float64
	// Spin rate in revolutions per time unit; positive is backspin.
	Spin float64
	// SpinDecay is the fraction of spin lost every step.
	SpinDecay float64
	// InitialNet seeds the net force of the first step. When nil it is
	// computed from the launch velocity and spin.
	InitialNet *vector.Polar
}

func (l Launch) Velocity() vector.Polar {
	return vector.Polar{Magnitude: l.Speed, Angle: l.Angle}
}

func (l Launch) Validate() error {
	if !isFinite(l.Speed) || l.Speed < 0 {
		return &aero.ConfigError{Field: "initial_speed", Reason: fmt.Sprintf("must be finite and non-negative, got %g", l.Speed)}
	}
	if !isFinite(l.Angle) {
		return &aero.ConfigError{Field: "launch_angle", Reason: "must be finite"}
	}
	if !isFinite(l.Spin) {
		return &aero.ConfigError{Field: "initial_spin", Reason: "must be finite"}
	}
	if !isFinite(l.SpinDecay) || l.SpinDecay < 0 || l.SpinDecay > 1 {
		return &aero.ConfigError{Field: "spin_decay", Reason: fmt.Sprintf("must be within [0, 1], got %g", l.SpinDecay)}
	}
	if l.InitialNet != nil && (!l.InitialNet.IsValid() || l.InitialNet.Magnitude < 0) {
		return &aero.ConfigError{Field: "initial_net_force", Reason: "must be finite with a non-negative magnitude"}
	}
	return nil
}

// State is the kinematic state of the ball after Step integration steps.
type State struct {
	Position vector.Point `json:"position"`
	Velocity vector.Polar `json:"velocity"`
	Spin     float64      `json:"spin"`
	Step     int          `json:"step"`
}

func (s State) IsValid() bool {
	return s.Position.IsValid() && s.Velocity.IsValid() && isFinite(s.Spin)
}

// Sample is one entry of a trajectory.
type Sample struct {
	Step     int          `json:"step"`
	Position vector.Point `json:"position"`
	Velocity vector.Polar `json:"velocity"`
	Spin     float64      `json:"spin"`
}

func (s State) sample() Sample {
	return Sample{Step: s.Step, Position: s.Position, Velocity: s.Velocity, Spin: s.Spin}
}

// Trajectory is the ordered, append-only record of a flight.
type Trajectory []Sample

func (t Trajectory) Points() []vector.Point {
	pts := make([]vector.Point, len(t))
	for i, s := range t {
		pts[i] = s.Position
	}
	return pts
}

// Series extracts one value per sample, e.g. heights for plotting.
func (t Trajectory) Series(fn func(Sample) float64) []float64 {
	out := make([]float64, len(t))
	for i, s := range t {
		out[i] = fn(s)
	}
	return out
}

func (t Trajectory) Last() Sample {
	if len(t) == 0 {
		return Sample{}
	}
	return t[len(t)-1]
}

type Observer interface {
	OnStep(s State, f aero.Forces)
}

type Metric interface {
	Name() string
	Observe(s State, f aero.Forces)
	Value() float64
	Reset()
}

type Config struct {
	MaxSteps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:      DefaultMaxSteps,
		ValidateState: true,
	}
}

type Result struct {
	Trajectory Trajectory         `json:"trajectory"`
	Final      State              `json:"final"`
	Phase      Phase              `json:"phase"`
	Landed     bool               `json:"landed"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (r *Result) Steps() int { return r.Final.Step }

// Carry is the horizontal distance at the landing sample.
func (r *Result) Carry() float64 { return r.Final.Position.X }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
