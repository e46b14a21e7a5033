package monitor

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette.
type Theme struct {
	Name      string
	Accent    lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Healthy   lipgloss.Color
	Warning   lipgloss.Color
	Critical  lipgloss.Color
	// Download and upload graphs use separate colors so the mirrored pair
	// reads as two series.
	Download lipgloss.Color
	Upload   lipgloss.Color
}

// Themes holds the built-in palettes keyed by name.
var Themes = map[string]Theme{
	"cyan": {
		Name:      "cyan",
		Accent:    lipgloss.Color("#00D7FF"),
		Border:    lipgloss.Color("#2F4F5F"),
		Text:      lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#A8C8D8"),
		Muted:     lipgloss.Color("#5F7F8F"),
		Healthy:   lipgloss.Color("#00D7AF"),
		Warning:   lipgloss.Color("#FFD700"),
		Critical:  lipgloss.Color("#FF5F5F"),
		Download:  lipgloss.Color("#00D7FF"),
		Upload:    lipgloss.Color("#AF87FF"),
	},
	"synthwave": {
		Name:      "synthwave",
		Accent:    lipgloss.Color("#FF2E97"),
		Border:    lipgloss.Color("#2A2A4A"),
		Text:      lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#B4B4D0"),
		Muted:     lipgloss.Color("#6B6B8D"),
		Healthy:   lipgloss.Color("#39FF14"),
		Warning:   lipgloss.Color("#FFAA00"),
		Critical:  lipgloss.Color("#FF0055"),
		Download:  lipgloss.Color("#00FFFF"),
		Upload:    lipgloss.Color("#BF40FF"),
	},
	"green": {
		Name:      "green",
		Accent:    lipgloss.Color("#5FFF5F"),
		Border:    lipgloss.Color("#1F5F1F"),
		Text:      lipgloss.Color("#D7FFD7"),
		Secondary: lipgloss.Color("#87D787"),
		Muted:     lipgloss.Color("#3F7F3F"),
		Healthy:   lipgloss.Color("#5FFF5F"),
		Warning:   lipgloss.Color("#D7FF5F"),
		Critical:  lipgloss.Color("#FF875F"),
		Download:  lipgloss.Color("#5FFF5F"),
		Upload:    lipgloss.Color("#AFFFAF"),
	},
	"mono": {
		Name:      "mono",
		Accent:    lipgloss.Color("#FFFFFF"),
		Border:    lipgloss.Color("#585858"),
		Text:      lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#BCBCBC"),
		Muted:     lipgloss.Color("#808080"),
		Healthy:   lipgloss.Color("#D0D0D0"),
		Warning:   lipgloss.Color("#E4E4E4"),
		Critical:  lipgloss.Color("#FFFFFF"),
		Download:  lipgloss.Color("#D0D0D0"),
		Upload:    lipgloss.Color("#A8A8A8"),
	},
}

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "cyan"

// ThemeNames returns the built-in theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Thresholds are the warning and critical levels that color a metric.
type Thresholds struct {
	CPUWarning     float64
	CPUCritical    float64
	MemoryWarning  float64
	MemoryCritical float64
	TempWarning    float64
	TempCritical   float64
	DiskWarning    float64
}

// DefaultThresholds returns the stock levels.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUWarning:     60,
		CPUCritical:    80,
		MemoryWarning:  70,
		MemoryCritical: 90,
		TempWarning:    65,
		TempCritical:   80,
		DiskWarning:    80,
	}
}

// Styles are the lipgloss styles derived from a theme. With colors disabled
// every style renders plain text.
type Styles struct {
	theme   Theme
	enabled bool

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Border  lipgloss.Style
	Tab     lipgloss.Style
	TabOn   lipgloss.Style
	Paused  lipgloss.Style
	HelpBox lipgloss.Style
	HelpKey lipgloss.Style
	Dialog  lipgloss.Style
}

// NewStyles builds styles for theme. Unknown names fall back to DefaultTheme.
func NewStyles(theme string, colors bool) Styles {
	t, ok := Themes[theme]
	if !ok {
		t = Themes[DefaultTheme]
	}
	s := Styles{theme: t, enabled: colors}

	fg := func(c lipgloss.Color) lipgloss.Style {
		if !colors {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}

	s.Header = fg(t.Text).Bold(true).Padding(0, 1)
	s.Footer = fg(t.Muted).Padding(0, 1)
	s.Title = fg(t.Accent).Bold(true)
	s.Label = fg(t.Secondary)
	s.Value = fg(t.Text)
	s.Muted = fg(t.Muted)
	s.Border = fg(t.Border)
	s.Tab = fg(t.Muted).Padding(0, 1)
	s.TabOn = fg(t.Accent).Bold(true).Underline(true).Padding(0, 1)
	s.Paused = fg(t.Warning).Bold(true)
	s.HelpBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	if colors {
		s.HelpBox = s.HelpBox.BorderForeground(t.Accent)
	}
	s.HelpKey = fg(t.Text).Bold(true).Width(14)
	s.Dialog = s.HelpBox
	return s
}

// Theme returns the palette in use.
func (s Styles) Theme() Theme { return s.theme }

// Color returns a style with foreground c, or a plain style when colors are
// disabled.
func (s Styles) Color(c lipgloss.Color) lipgloss.Style {
	if !s.enabled {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}

// MetricColor picks healthy, warning or critical for value.
func (s Styles) MetricColor(value, warning, critical float64) lipgloss.Color {
	switch {
	case value >= critical:
		return s.theme.Critical
	case value >= warning:
		return s.theme.Warning
	default:
		return s.theme.Healthy
	}
}

// Metric renders text colored by value against the thresholds.
func (s Styles) Metric(text string, value, warning, critical float64) string {
	return s.Color(s.MetricColor(value, warning, critical)).Render(text)
}

// SectionHeader renders the top border of a panel with the title on the left
// and a value on the right:
//
//	╭─ Title ──────────────────── Value ╮
func (s Styles) SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}
	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2
	fill := width - leftWidth - rightWidth
	if fill < 1 {
		fill = 1
	}
	return s.Border.Render("╭─ ") +
		s.Title.Render(title) +
		s.Border.Render(" "+strings.Repeat("─", fill)+" ") +
		s.Value.Bold(true).Render(value) +
		s.Border.Render(" ╮")
}

// SectionFooter renders the bottom border of a panel.
func (s Styles) SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return s.Border.Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionLine renders one content line between the panel borders, padded
// or truncated to width.
func (s Styles) SectionLine(content string, width int) string {
	if width < 4 {
		width = 4
	}
	inner := width - 4
	if lipgloss.Width(content) > inner {
		content = lipgloss.NewStyle().MaxWidth(inner).Render(content)
	}
	pad := inner - lipgloss.Width(content)
	if pad < 0 {
		pad = 0
	}
	return s.Border.Render("│") + " " + content + strings.Repeat(" ", pad) + " " + s.Border.Render("│")
}

// Panel frames lines in a titled box of the given outer width.
func (s Styles) Panel(title, value string, lines []string, width int) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, s.SectionHeader(title, value, width))
	for _, l := range lines {
		out = append(out, s.SectionLine(l, width))
	}
	out = append(out, s.SectionFooter(width))
	return strings.Join(out, "\n")
}
