package viz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/golfsim/internal/flight"
)

// RenderSummary lays out the launch, the outcome and every collected metric.
func RenderSummary(title string, launch flight.Launch, res *flight.Result) string {
	st := currentStyles()
	row := func(label, value string) string {
		return st.Label.Render(label) + st.Value.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(st.Title.Render(strings.ToUpper(title)) + "\n\n")
	b.WriteString(row("speed", fmt.Sprintf("%.2f", launch.Speed)))
	b.WriteString(row("launch angle", fmt.Sprintf("%.2f°", launch.Angle)))
	b.WriteString(row("spin", fmt.Sprintf("%.1f", launch.Spin)))
	b.WriteString(row("spin decay", fmt.Sprintf("%.3f", launch.SpinDecay)))
	b.WriteString("\n")

	outcome := st.Landed.Render("LANDED")
	if !res.Landed {
		outcome = st.Failed.Render("NOT LANDED")
	}
	b.WriteString(st.Label.Render("outcome") + outcome + "\n")
	b.WriteString(row("steps", fmt.Sprintf("%d", res.Steps())))
	b.WriteString(row("carry", fmt.Sprintf("%.2f", res.Carry())))

	if len(res.Metrics) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(res.Metrics))
		for name := range res.Metrics {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			b.WriteString(row(name, fmt.Sprintf("%.4f", res.Metrics[name])))
		}
	}

	if len(res.Trajectory) > 1 {
		b.WriteString("\n" + st.Label.Render("speed") + Sparkline(res.Trajectory.Series(Speed.Value)))
	}

	return st.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// SideBySide joins rendered blocks horizontally.
func SideBySide(blocks ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}
