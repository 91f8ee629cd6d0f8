package aero

import (
	"fmt"
	"math"
	"slices"
)

// DragPoint is one calibration pair of the drag table.
type DragPoint struct {
	Reynolds float64 `json:"reynolds" yaml:"reynolds"`
	Cd       float64 `json:"cd" yaml:"cd"`
}

// DragTable maps Reynolds numbers to measured drag coefficients. Entries keep
// their calibration order; lookups never interpolate.
type DragTable []DragPoint

// Lookup returns the coefficient whose Reynolds number is closest to re.
// Ties go to the earliest entry.
func (t DragTable) Lookup(re float64) float64 {
	best := 0
	bestDiff := math.Inf(1)
	for i, p := range t {
		if d := math.Abs(p.Reynolds - re); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return t[best].Cd
}

func (t DragTable) Contains(cd float64) bool {
	return slices.ContainsFunc(t, func(p DragPoint) bool { return p.Cd == cd })
}

func (t DragTable) Validate() error {
	if len(t) == 0 {
		return &ConfigError{Field: "drag_table", Reason: "must not be empty"}
	}
	for i, p := range t {
		if !isFinite(p.Reynolds) || !isFinite(p.Cd) {
			return &ConfigError{Field: fmt.Sprintf("drag_table[%d]", i), Reason: "must be finite"}
		}
		if p.Cd < 0 {
			return &ConfigError{Field: fmt.Sprintf("drag_table[%d].cd", i), Reason: fmt.Sprintf("must not be negative, got %g", p.Cd)}
		}
	}
	return nil
}

// DefaultDragTable returns a fresh copy of the wind-tunnel calibration pairs.
func DefaultDragTable() DragTable {
	return slices.Clone(calibration)
}

var calibration = DragTable{
	{93055.55555555556, 0.2580508474576271},
	{77500.0, 0.26440677966101694},
	{136111.11111111112, 0.26949152542372884},
	{89722.22222222222, 0.2656779661016949},
	{138611.1111111111, 0.27203389830508473},
	{86944.44444444444, 0.2669491525423729},
	{140833.33333333334, 0.27203389830508473},
	{83055.55555555555, 0.26822033898305087},
	{76944.44444444444, 0.27584745762711865},
	{123888.88888888888, 0.2656779661016949},
	{110277.77777777778, 0.27076271186440676},
	{92777.77777777777, 0.2796610169491525},
	{70833.33333333334, 0.26949152542372884},
	{103611.11111111112, 0.2733050847457627},
	{129722.22222222222, 0.27584745762711865},
	{96111.11111111111, 0.26949152542372884},
	{67500.0, 0.2809322033898305},
	{140833.33333333334, 0.28220338983050847},
	{138333.33333333334, 0.28220338983050847},
	{131388.8888888889, 0.2809322033898305},
	{65555.55555555556, 0.28474576271186436},
	{152777.77777777778, 0.2872881355932203},
	{150277.77777777778, 0.2872881355932203},
	{118333.33333333333, 0.2809322033898305},
	{134444.44444444444, 0.2796610169491525},
	{63055.555555555555, 0.2872881355932203},
	{143611.11111111112, 0.2898305084745763},
	{153055.55555555556, 0.2961864406779661},
	{150555.55555555556, 0.29745762711864404},
	{59444.44444444444, 0.2898305084745763},
	{53888.88888888888, 0.3},
	{146111.11111111112, 0.30635593220338986},
	{53888.88888888888, 0.33940677966101696},
	{52500.0, 0.33305084745762714},
	{49444.444444444445, 0.3889830508474576},
	{51666.666666666664, 0.3940677966101695},
	{49444.444444444445, 0.4004237288135593},
	{46666.66666666667, 0.40423728813559323},
	{49444.444444444445, 0.41186440677966096},
	{43055.555555555555, 0.4156779661016949},
}
