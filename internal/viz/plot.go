package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/golfsim/internal/flight"
)

// Series selects one quantity from each trajectory sample.
type Series struct {
	Name  string
	Value func(flight.Sample) float64
}

var (
	Height   = Series{"height", func(s flight.Sample) float64 { return s.Position.Y }}
	Distance = Series{"distance", func(s flight.Sample) float64 { return s.Position.X }}
	Speed    = Series{"speed", func(s flight.Sample) float64 { return s.Velocity.Magnitude }}
	Heading  = Series{"angle", func(s flight.Sample) float64 { return s.Velocity.Angle }}
	Spin     = Series{"spin", func(s flight.Sample) float64 { return s.Spin }}

	AllSeries = []Series{Height, Distance, Speed, Heading, Spin}
)

func SeriesByName(name string) (Series, error) {
	for _, s := range AllSeries {
		if s.Name == name {
			return s, nil
		}
	}
	names := make([]string, len(AllSeries))
	for i, s := range AllSeries {
		names[i] = s.Name
	}
	return Series{}, fmt.Errorf("unknown series %q (available: %s)", name, strings.Join(names, ", "))
}

// Plot draws one series against the step index.
func Plot(tr flight.Trajectory, s Series, width, height int) string {
	if len(tr) < 2 {
		return ""
	}
	return asciigraph.Plot(tr.Series(s.Value),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s per step", s.Name)),
	)
}

// PlotTrajectory draws the flight path y(x) on a braille canvas of the given
// size in cells.
func PlotTrajectory(tr flight.Trajectory, width, height int) string {
	c := NewCanvas(width, height)
	pts := tr.Points()
	if len(pts) == 0 {
		return c.String()
	}
	v := Fit(pts)
	c.Ground(v)
	c.Polyline(v, pts)
	return c.String()
}
