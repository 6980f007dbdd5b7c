package viz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/eoslab/internal/eos"
)

// RenderResult draws res with the default theme.
func RenderResult(res *eos.Result) string {
	return NewStyles(DefaultTheme).Result(res)
}

// Result draws the conditions, the cubic roots and one panel per branch.
func (s Styles) Result(res *eos.Result) string {
	st := res.State
	header := s.Title.Render(res.Model.Name()) + "  " +
		s.Muted.Render(fmt.Sprintf("T = %.2f K   P = %.5g bar   %s = %.2f K   %s = %.5g bar   ω = %.3f",
			st.T, st.P/eos.Bar, LabelTc, st.Tc, LabelPc, st.Pc/eos.Bar, st.Omega))

	panels := make([]string, 0, 2)
	for _, br := range res.Branches() {
		panels = append(panels, s.Branch(br))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		s.roots(res),
		lipgloss.JoinHorizontal(lipgloss.Top, panels...),
	)
}

// roots lists every real root of the cubic; roots not assigned to a branch
// are dimmed.
func (s Styles) roots(res *eos.Result) string {
	used := func(z float64) bool {
		return (res.Liquid != nil && res.Liquid.Z == z) || (res.Vapor != nil && res.Vapor.Z == z)
	}
	parts := make([]string, len(res.Roots))
	for i, z := range res.Roots {
		txt := fmt.Sprintf("%.5f", z)
		if used(z) {
			parts[i] = s.Value.Render(txt)
		} else {
			parts[i] = s.Muted.Render(txt)
		}
	}
	return s.Label.Render("roots Z: ") + strings.Join(parts, s.Muted.Render(", ")) +
		s.Muted.Render(fmt.Sprintf("   B = %.5g", res.Coefficients.B))
}

// Branch draws one branch panel.
func (s Styles) Branch(d eos.Departure) string {
	title, border := s.Vapor, s.Theme.Vapor
	if d.Phase == eos.Liquid {
		title, border = s.Liquid, s.Theme.Liquid
	}

	rows := [][2]string{
		{"Z", fmt.Sprintf("%.5f", d.Z)},
		{"v", fmt.Sprintf("%.8f %s", d.V, UnitVolume)},
		{LabelU, fmt.Sprintf("%.2f %s", d.U, UnitEnergy)},
		{LabelH, fmt.Sprintf("%.2f %s", d.H, UnitEnergy)},
		{LabelS, fmt.Sprintf("%.2f %s", d.S, UnitEntropy)},
		{LabelG, fmt.Sprintf("%.1f %s", d.G, UnitEnergy)},
		{LabelPhi, fmt.Sprintf("%.4f", d.Phi)},
	}

	var b strings.Builder
	b.WriteString(title.Render(d.Phase.String()))
	for _, r := range rows {
		b.WriteString("\n" + s.Label.Render(fmt.Sprintf("%-6s", r[0])) + " " + s.Value.Render(r[1]))
	}
	return s.Panel.BorderForeground(border).Render(b.String())
}

// RenderError turns a solve error into a one-line message.
func (s Styles) RenderError(err error) string {
	var ie *eos.InputError
	switch {
	case errors.Is(err, eos.ErrNoPhysicalRoot):
		return s.Error.Render("no physical state at these conditions")
	case errors.As(err, &ie):
		return s.Error.Render(fmt.Sprintf("invalid input: %s must be positive", ie.Field))
	}
	return s.Error.Render(err.Error())
}
