package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// BoldGradient renders bold text whose color moves from one end of the
// gradient to the other across grapheme clusters.
func BoldGradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Bold(true).Foreground(from).Render(text)
	}

	start := toColorful(from)
	end := toColorful(to)
	last := float64(len(clusters) - 1)

	var b strings.Builder
	for i, cluster := range clusters {
		c := start.BlendHcl(end, float64(i)/last).Clamped()
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(cluster))
	}
	return b.String()
}

// toColorful parses a #rrggbb color. ANSI palette indexes fall back to gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	gray, _ := colorful.MakeColor(color.Gray{Y: 128})
	return gray
}
