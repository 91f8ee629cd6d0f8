package aero

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every [ConfigError].
var ErrInvalidConfig = errors.New("aero: physically invalid configuration")

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Default physical constants for a regulation golf ball in sea-level air.
const (
	DefaultAirDensity   = 1.2
	DefaultAirViscosity = 18.17e-6
	DefaultBallDiameter = 0.043
	DefaultBallMass     = 0.045
	// 10 m/s² reproduces the calibrated 0.45 N ball weight.
	DefaultGravity = 10.0
)

// DefaultLiftCoeffs holds c0..c3 of the fitted lift polynomial.
var DefaultLiftCoeffs = [4]float64{0, 4e-4, -1.5e-7, 2e-11}

// Params are the immutable physical constants of one simulation.
type Params struct {
	AirDensity   float64
	AirViscosity float64
	BallDiameter float64
	BallMass     float64
	Gravity      float64
	DragTable    DragTable
	// LiftCoeffs[i] multiplies spin^i.
	LiftCoeffs [4]float64
}

func DefaultParams() Params {
	return Params{
		AirDensity:   DefaultAirDensity,
		AirViscosity: DefaultAirViscosity,
		BallDiameter: DefaultBallDiameter,
		BallMass:     DefaultBallMass,
		Gravity:      DefaultGravity,
		DragTable:    DefaultDragTable(),
		LiftCoeffs:   DefaultLiftCoeffs,
	}
}

// Validate rejects constants that cannot describe a real ball in real air.
func (p Params) Validate() error {
	positives := []struct {
		field string
		value float64
	}{
		{"air_density", p.AirDensity},
		{"air_viscosity", p.AirViscosity},
		{"ball_diameter", p.BallDiameter},
		{"ball_mass", p.BallMass},
		{"gravity", p.Gravity},
	}
	for _, f := range positives {
		if err := RequirePositive(f.field, f.value); err != nil {
			return err
		}
	}

	for i, c := range p.LiftCoeffs {
		if !isFinite(c) {
			return &ConfigError{Field: fmt.Sprintf("lift_coeffs[%d]", i), Reason: "must be finite"}
		}
	}

	return p.DragTable.Validate()
}

// RequirePositive reports a ConfigError unless value is finite and > 0.
func RequirePositive(field string, value float64) error {
	if !isFinite(value) {
		return &ConfigError{Field: field, Reason: "must be finite"}
	}
	if value <= 0 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be positive, got %g", value)}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
