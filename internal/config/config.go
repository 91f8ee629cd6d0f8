package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/vector"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSpeed     = 45.0
	DefaultAngle     = 30.0
	DefaultSpin      = 418.0
	DefaultSpinDecay = 0.04
)

// Config is the file form of every constant a flight depends on. It is
// built once before a run and only read afterwards.
type Config struct {
	AirDensity   float64 `yaml:"air_density"`
	AirViscosity float64 `yaml:"air_viscosity"`
	Gravity      float64 `yaml:"gravity"`
	BallDiameter float64 `yaml:"ball_diameter"`
	BallMass     float64 `yaml:"ball_mass"`
	// LiftCoeffs are c0..c3 of Cl(spin) = c3·s³ + c2·s² + c1·s + c0.
	LiftCoeffs    []float64        `yaml:"lift_coeffs,flow"`
	DragTable     []aero.DragPoint `yaml:"drag_table"`
	Launch        LaunchConfig     `yaml:"launch"`
	MaxSteps      int              `yaml:"max_steps"`
	ValidateState bool             `yaml:"validate_state"`
}

type LaunchConfig struct {
	Speed           float64       `json:"initial_speed" yaml:"initial_speed"`
	Angle           float64       `json:"launch_angle" yaml:"launch_angle"`
	Spin            float64       `json:"initial_spin_rate" yaml:"initial_spin_rate"`
	SpinDecay       float64       `json:"spin_decay_rate" yaml:"spin_decay_rate"`
	InitialNetForce *vector.Polar `json:"initial_net_force,omitempty" yaml:"initial_net_force,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		AirDensity:   aero.DefaultAirDensity,
		AirViscosity: aero.DefaultAirViscosity,
		Gravity:      aero.DefaultGravity,
		BallDiameter: aero.DefaultBallDiameter,
		BallMass:     aero.DefaultBallMass,
		LiftCoeffs:   slices.Clone(aero.DefaultLiftCoeffs[:]),
		DragTable:    aero.DefaultDragTable(),
		Launch: LaunchConfig{
			Speed:     DefaultSpeed,
			Angle:     DefaultAngle,
			Spin:      DefaultSpin,
			SpinDecay: DefaultSpinDecay,
		},
		MaxSteps:      flight.DefaultMaxSteps,
		ValidateState: true,
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.LiftCoeffs = slices.Clone(c.LiftCoeffs)
	out.DragTable = slices.Clone(c.DragTable)
	if c.Launch.InitialNetForce != nil {
		f := *c.Launch.InitialNetForce
		out.Launch.InitialNetForce = &f
	}
	return &out
}

func (c *Config) Params() aero.Params {
	p := aero.Params{
		AirDensity:   c.AirDensity,
		AirViscosity: c.AirViscosity,
		BallDiameter: c.BallDiameter,
		BallMass:     c.BallMass,
		Gravity:      c.Gravity,
		DragTable:    slices.Clone(aero.DragTable(c.DragTable)),
	}
	copy(p.LiftCoeffs[:], c.LiftCoeffs)
	return p
}

func (c *Config) LaunchParams() flight.Launch {
	l := flight.Launch{
		Speed:     c.Launch.Speed,
		Angle:     c.Launch.Angle,
		Spin:      c.Launch.Spin,
		SpinDecay: c.Launch.SpinDecay,
	}
	if c.Launch.InitialNetForce != nil {
		f := *c.Launch.InitialNetForce
		l.InitialNet = &f
	}
	return l
}

func (c *Config) SimConfig() flight.Config {
	return flight.Config{
		MaxSteps:      c.MaxSteps,
		ValidateState: c.ValidateState,
	}
}

// Validate fails fast on any physically invalid constant.
func (c *Config) Validate() error {
	if len(c.LiftCoeffs) != len(aero.DefaultLiftCoeffs) {
		return &aero.ConfigError{Field: "lift_coeffs", Reason: fmt.Sprintf("need %d coefficients, got %d", len(aero.DefaultLiftCoeffs), len(c.LiftCoeffs))}
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if err := c.LaunchParams().Validate(); err != nil {
		return err
	}
	if c.MaxSteps <= 0 {
		return &aero.ConfigError{Field: "max_steps", Reason: fmt.Sprintf("must be positive, got %d", c.MaxSteps)}
	}
	return nil
}

// Model validates the configuration and builds the aerodynamic model.
func (c *Config) Model() (*aero.Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return aero.New(c.Params())
}
