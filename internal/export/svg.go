// Package export renders flights as standalone SVG images.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/viz"
)

type SVGOptions struct {
	Width, Height int
	Stroke        string
	Background    string
	// Dots marks every sample with a small circle.
	Dots bool
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     400,
		Stroke:     "#5fd068",
		Background: "#0a0a0a",
		Dots:       true,
	}
}

// TrajectorySVG draws the flight path and the ground line.
func TrajectorySVG(w io.Writer, tr flight.Trajectory, opts SVGOptions) error {
	if len(tr) < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", len(tr))
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", opts.Width, opts.Height)
	}

	pts := tr.Points()
	v := viz.Fit(pts)

	// 5% padding on every side
	padX := (v.MaxX - v.MinX) * 0.05
	padY := (v.MaxY - v.MinY) * 0.05
	v.MinX -= padX
	v.MaxX += padX
	v.MinY -= padY
	v.MaxY += padY

	project := func(x, y float64) (float64, float64) {
		px := (x - v.MinX) / (v.MaxX - v.MinX) * float64(opts.Width)
		py := float64(opts.Height) - (y-v.MinY)/(v.MaxY-v.MinY)*float64(opts.Height)
		return px, py
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background)

	gx0, gy := project(v.MinX, 0)
	gx1, _ := project(v.MaxX, 0)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#666666" stroke-dasharray="4 4"/>
`, gx0, gy, gx1, gy)

	sb.WriteString(`<path fill="none" stroke="` + opts.Stroke + `" stroke-width="2" d="`)
	for i, p := range pts {
		x, y := project(p.X, p.Y)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	if opts.Dots {
		fmt.Fprintf(&sb, "<g fill=\"%s\">\n", opts.Stroke)
		for _, s := range tr {
			x, y := project(s.Position.X, s.Position.Y)
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\"><title>step %d</title></circle>\n", x, y, s.Step)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
