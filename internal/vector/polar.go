package vector

import (
	"fmt"
	"math"
)

// Point is a Cartesian position or vector component pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) IsValid() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Polar is a 2D vector with a non-negative magnitude and an angle in degrees.
type Polar struct {
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
	Angle     float64 `json:"angle" yaml:"angle"`
}

func (v Polar) String() string {
	return fmt.Sprintf("(%.6g, %.4g°)", v.Magnitude, v.Angle)
}

// Scale multiplies the magnitude, keeping the direction.
func (v Polar) Scale(factor float64) Polar {
	return Polar{Magnitude: v.Magnitude * factor, Angle: v.Angle}
}

func (v Polar) IsValid() bool {
	return isFinite(v.Magnitude) && isFinite(v.Angle)
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// ToCartesian converts a polar vector to its x and y components.
func ToCartesian(v Polar) Point {
	sin, cos := math.Sincos(Radians(v.Angle))
	return Point{X: v.Magnitude * cos, Y: v.Magnitude * sin}
}

// FromCartesian converts components back to polar form. The zero vector maps
// to angle 0.
func FromCartesian(p Point) Polar {
	if p.X == 0 && p.Y == 0 {
		return Polar{}
	}
	return Polar{
		Magnitude: math.Hypot(p.X, p.Y),
		Angle:     Degrees(math.Atan2(p.Y, p.X)),
	}
}

// Sum adds any number of polar vectors. An empty sum is the zero vector.
func Sum(vs ...Polar) Polar {
	var total Point
	for _, v := range vs {
		total = total.Add(ToCartesian(v))
	}
	return FromCartesian(total)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
