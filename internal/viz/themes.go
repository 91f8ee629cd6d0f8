package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeFairway = Theme{
		Name:    "fairway",
		Primary: lipgloss.Color("#5fd068"),
		Accent:  lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#e8f5e9"),
		Muted:   lipgloss.Color("#5a7a5e"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeLinks = Theme{
		Name:    "links",
		Primary: lipgloss.Color("#d8b863"), // sand
		Accent:  lipgloss.Color("#4488aa"),
		Text:    lipgloss.Color("#fff5e0"),
		Muted:   lipgloss.Color("#8b7b5c"),
		Success: lipgloss.Color("#88cc66"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4757"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeFairway

	Themes = []Theme{
		ThemeFairway,
		ThemeLinks,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to fairway.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeFairway
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme returns the theme after name in Themes order.
func nextTheme(name string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
