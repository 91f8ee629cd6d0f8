package config

import (
	"sort"

	"github.com/san-kum/golfsim/internal/vector"
)

var Presets = map[string]LaunchConfig{
	"driver":  {Speed: 45, Angle: 30, Spin: 418, SpinDecay: 0.04},
	"low":     {Speed: 45, Angle: 12, Spin: 300, SpinDecay: 0.04},
	"wedge":   {Speed: 32, Angle: 50, Spin: 900, SpinDecay: 0.05},
	"knuckle": {Speed: 45, Angle: 25, Spin: 0, SpinDecay: 0.04},
	// Calibration shot the drag table was measured against, with its
	// precomputed launch net force.
	"calibration": {
		Speed: 45, Angle: 20, Spin: 840, SpinDecay: 0.04,
		InitialNetForce: &vector.Polar{Magnitude: 0.47779996900547594, Angle: -164.51202290763308},
	},
}

// GetPreset returns the default configuration with the named launch applied,
// or nil if there is no such preset.
func GetPreset(name string) *Config {
	l, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Launch = l
	if l.InitialNetForce != nil {
		f := *l.InitialNetForce
		cfg.Launch.InitialNetForce = &f
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
