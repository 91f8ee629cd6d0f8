package viz

import (
	"math"
	"strings"

	"github.com/san-kum/golfsim/internal/vector"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 dots wide
// and Height*4 dots tall, with y growing downward.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport is the world rectangle mapped onto a canvas.
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Fit returns the smallest viewport holding pts and the launch point.
func Fit(pts []vector.Point) Viewport {
	v := Viewport{}
	for _, p := range pts {
		v.MinX = math.Min(v.MinX, p.X)
		v.MaxX = math.Max(v.MaxX, p.X)
		v.MinY = math.Min(v.MinY, p.Y)
		v.MaxY = math.Max(v.MaxY, p.Y)
	}
	if v.MaxX-v.MinX == 0 {
		v.MaxX = v.MinX + 1
	}
	if v.MaxY-v.MinY == 0 {
		v.MaxY = v.MinY + 1
	}
	return v
}

// Project maps a world point to sub-pixel coordinates.
func (c *Canvas) Project(v Viewport, p vector.Point) (int, int) {
	cw, ch := c.Width*2-1, c.Height*4-1
	x := (p.X - v.MinX) / (v.MaxX - v.MinX) * float64(cw)
	y := (p.Y - v.MinY) / (v.MaxY - v.MinY) * float64(ch)
	return int(math.Round(x)), ch - int(math.Round(y))
}

// Polyline joins consecutive points with straight segments.
func (c *Canvas) Polyline(v Viewport, pts []vector.Point) {
	if len(pts) == 1 {
		c.Set(c.Project(v, pts[0]))
		return
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := c.Project(v, pts[i-1])
		x1, y1 := c.Project(v, pts[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}

// Ground draws the y = 0 line across the viewport.
func (c *Canvas) Ground(v Viewport) {
	x0, y := c.Project(v, vector.Point{X: v.MinX})
	x1, _ := c.Project(v, vector.Point{X: v.MaxX})
	c.DrawLine(x0, y, x1, y)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
