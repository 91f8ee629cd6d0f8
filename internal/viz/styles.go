package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are rebuilt from CurrentTheme on every render so theme switches
// take effect immediately.
type styles struct {
	Panel   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Hint    lipgloss.Style
	Canvas  lipgloss.Style
	Landed  lipgloss.Style
	Flying  lipgloss.Style
	Failed  lipgloss.Style
	SparkHi lipgloss.Style
	SparkLo lipgloss.Style
}

func currentStyles() styles {
	t := CurrentTheme
	return styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Canvas:  lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 2),
		Landed:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Flying:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Failed:  lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		SparkHi: lipgloss.NewStyle().Foreground(t.Success),
		SparkLo: lipgloss.NewStyle().Foreground(t.Warning),
	}
}

// ProgressBar renders a fill bar for a fraction in [0, 1].
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	st := currentStyles()
	return st.SparkHi.Render(strings.Repeat("█", filled)) + st.Hint.Render(strings.Repeat("░", width-filled))
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders one bar per value, scaled between the series extremes.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	st := currentStyles()
	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		c := string(sparkChars[int(norm*float64(len(sparkChars)-1))])
		if norm > 0.5 {
			b.WriteString(st.SparkHi.Render(c))
		} else {
			b.WriteString(st.SparkLo.Render(c))
		}
	}
	return b.String()
}
