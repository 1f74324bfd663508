package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live viewer.
type Theme struct {
	Name   string
	Canvas lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
	// Stroke and Fill are hex colors used for SVG output.
	Stroke     string
	Fill       string
	Background string
}

var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Canvas:     lipgloss.Color("#00ffff"),
		Accent:     lipgloss.Color("#ff00ff"),
		Muted:      lipgloss.Color("#666666"),
		Stroke:     "#00ffff",
		Fill:       "#ff00ff",
		Background: "#0a0a0a",
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Canvas:     lipgloss.Color("#00ff00"),
		Accent:     lipgloss.Color("#88ff88"),
		Muted:      lipgloss.Color("#005500"),
		Stroke:     "#00cc00",
		Fill:       "#88ff88",
		Background: "#001100",
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Canvas:     lipgloss.Color("#ffffff"),
		Accent:     lipgloss.Color("#0088ff"),
		Muted:      lipgloss.Color("#888888"),
		Stroke:     "#cccccc",
		Fill:       "#0088ff",
		Background: "#000000",
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns the named theme, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
