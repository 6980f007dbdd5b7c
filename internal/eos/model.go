package eos

import (
	"fmt"
	"math"
	"strings"
)

// Model selects a cubic equation of state.
type Model int

const (
	VDW Model = iota
	RK
	SRK
	PR
)

type modelDef struct {
	short, name string
	u, w        float64
	omegaA      float64
	omegaB      float64
}

var cbrt2 = math.Cbrt(2)

// Critical-point constraints fix Ωa and Ωb exactly for each shape.
var defs = [...]modelDef{
	VDW: {short: "vdW", name: "van der Waals", u: 0, w: 0, omegaA: 27.0 / 64.0, omegaB: 1.0 / 8.0},
	RK:  {short: "RK", name: "Redlich-Kwong", u: 1, w: 0, omegaA: 1 / (9 * (cbrt2 - 1)), omegaB: (cbrt2 - 1) / 3},
	SRK: {short: "SRK", name: "Soave-Redlich-Kwong", u: 1, w: 0, omegaA: 1 / (9 * (cbrt2 - 1)), omegaB: (cbrt2 - 1) / 3},
	PR:  {short: "PR", name: "Peng-Robinson", u: 2, w: -1, omegaA: 0.45723552892138218938, omegaB: 0.077796073903888455972},
}

var modelAliases = map[string]Model{
	"vdw":                 VDW,
	"van der waals":       VDW,
	"vanderwaals":         VDW,
	"rk":                  RK,
	"redlich-kwong":       RK,
	"redlichkwong":        RK,
	"srk":                 SRK,
	"soave-redlich-kwong": SRK,
	"soave":               SRK,
	"pr":                  PR,
	"peng-robinson":       PR,
	"pengrobinson":        PR,
}

// Models lists every supported model in declaration order.
func Models() []Model {
	return []Model{VDW, RK, SRK, PR}
}

// ParseModel accepts short names (vdW, RK, SRK, PR) and full names,
// case-insensitively.
func ParseModel(s string) (Model, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if m, ok := modelAliases[key]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q (available: vdW, RK, SRK, PR)", ErrUnknownModel, s)
}

func (m Model) valid() bool {
	return m >= VDW && m <= PR
}

func (m Model) String() string {
	if !m.valid() {
		return fmt.Sprintf("Model(%d)", int(m))
	}
	return defs[m].short
}

// Name returns the full model name.
func (m Model) Name() string {
	if !m.valid() {
		return m.String()
	}
	return defs[m].name
}

// Shape returns the generic cubic shape constants (u, w) of
// P = RT/(V-b) - aα/(V² + u·b·V + w·b²).
func (m Model) Shape() (u, w float64) {
	s := defs[m]
	return s.u, s.w
}

func (m Model) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Model) UnmarshalText(text []byte) error {
	parsed, err := ParseModel(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// alpha returns α(T) and dα/dT.
func (m Model) alpha(s State) (alpha, dAlpha float64) {
	tr := s.T / s.Tc
	switch m {
	case RK:
		return 1 / math.Sqrt(tr), -0.5 / (s.Tc * tr * math.Sqrt(tr))
	case SRK, PR:
		k := m.kappa(s.Omega)
		base := 1 + k*(1-math.Sqrt(tr))
		return base * base, -k * base / math.Sqrt(s.T*s.Tc)
	default:
		return 1, 0
	}
}

// kappa is the acentric-factor slope of the Soave α function.
func (m Model) kappa(omega float64) float64 {
	switch m {
	case SRK:
		return 0.480 + 1.574*omega - 0.176*omega*omega
	case PR:
		return 0.37464 + 1.54226*omega - 0.26992*omega*omega
	default:
		return 0
	}
}

// CriticalZ returns the compressibility factor the model predicts at its own
// critical point.
func (m Model) CriticalZ() float64 {
	switch m {
	case VDW:
		return 3.0 / 8.0
	case RK, SRK:
		return 1.0 / 3.0
	default:
		return 0.30740130869870386
	}
}
