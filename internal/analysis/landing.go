package analysis

import "github.com/san-kum/golfsim/internal/vector"

// Landing linearly interpolates where the path between the last two points
// crosses y = 0. It reports false if the path never goes below zero.
func Landing(pts []vector.Point) (vector.Point, bool) {
	if len(pts) < 2 {
		return vector.Point{}, false
	}
	b := pts[len(pts)-1]
	a := pts[len(pts)-2]
	if b.Y >= 0 || a.Y < 0 {
		return vector.Point{}, false
	}

	f := a.Y / (a.Y - b.Y)
	return vector.Point{X: a.X + f*(b.X-a.X), Y: 0}, true
}
