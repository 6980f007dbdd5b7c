package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of lipgloss styles derived from a theme.
type Styles struct {
	Theme Theme

	// Glass panel effect with subtle border
	Panel lipgloss.Style

	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Liquid lipgloss.Style
	Vapor  lipgloss.Style
	Muted  lipgloss.Style
	Hint   lipgloss.Style
	Error  lipgloss.Style

	// Selected list entry
	Selected lipgloss.Style
	Cursor   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		Label:    lipgloss.NewStyle().Foreground(t.Muted),
		Value:    lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Liquid:   lipgloss.NewStyle().Bold(true).Foreground(t.Liquid),
		Vapor:    lipgloss.NewStyle().Bold(true).Foreground(t.Vapor),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Hint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Cursor:   lipgloss.NewStyle().Bold(true).Foreground(t.Title),
	}
}

// KeyHints renders "key action" pairs as a footer line.
func (s Styles) KeyHints(pairs ...[2]string) string {
	key := lipgloss.NewStyle().Bold(true).Foreground(s.Theme.Title)
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = key.Render(p[0]) + s.Muted.Render(" "+p[1])
	}
	return strings.Join(parts, "  ")
}

// Separator draws a decorative rule.
func (s Styles) Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.Muted.Render(left + " ◆ " + right)
}

// GradientText creates a gradient effect on text using color interpolation
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}

	return result.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	return parseHexByte(hex[1:3]), parseHexByte(hex[3:5]), parseHexByte(hex[5:7])
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
