package eos

import "math"

const (
	// R is the molar gas constant in J/(mol·K).
	R = 8.314462618

	// Bar is one bar in Pa. Molecule tables and the command line use bar.
	Bar = 1e5
)

// State holds the physical inputs of one solve.
type State struct {
	Tc    float64 `json:"tc" yaml:"tc"`       // critical temperature, K
	Pc    float64 `json:"pc" yaml:"pc"`       // critical pressure, Pa
	Omega float64 `json:"omega" yaml:"omega"` // acentric factor
	T     float64 `json:"t" yaml:"t"`         // temperature, K
	P     float64 `json:"p" yaml:"p"`         // pressure, Pa
}

// Validate rejects non-positive or non-finite Tc, Pc, T and P. ω is not
// range-checked beyond being finite.
func (s State) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"Tc", s.Tc},
		{"Pc", s.Pc},
		{"T", s.T},
		{"P", s.P},
	}
	for _, f := range fields {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return &InputError{Field: f.name, Value: f.v}
		}
	}
	if math.IsNaN(s.Omega) || math.IsInf(s.Omega, 0) {
		return &InputError{Field: "omega", Value: s.Omega}
	}
	return nil
}

// Reduced returns Tr and Pr.
func (s State) Reduced() (tr, pr float64) {
	return s.T / s.Tc, s.P / s.Pc
}

// Coefficients is the cubic Z³ + C2·Z² + C1·Z + C0 = 0 together with the
// quantities the departure integrals need.
type Coefficients struct {
	Model Model `json:"model" yaml:"model"`

	C2 float64 `json:"c2" yaml:"c2"`
	C1 float64 `json:"c1" yaml:"c1"`
	C0 float64 `json:"c0" yaml:"c0"`

	A float64 `json:"A" yaml:"A"` // aαP/(RT)²
	B float64 `json:"B" yaml:"B"` // bP/(RT)
	U float64 `json:"u" yaml:"u"`
	W float64 `json:"w" yaml:"w"`

	// Attraction is a in Pa·m⁶/mol², always Ωa·R²Tc²/Pc. For RK the
	// textbook R²Tc^2.5/Pc form is recovered as a·α·√T, the √Tc being
	// folded into α = Tr^-0.5; the product aα is the same.
	Attraction float64 `json:"a" yaml:"a"`
	Covolume   float64 `json:"b" yaml:"b"`                 // b, m³/mol
	Alpha      float64 `json:"alpha" yaml:"alpha"`         // α(T)
	DAlphaDT   float64 `json:"dalpha_dt" yaml:"dalpha_dt"` // dα/dT, 1/K

	T float64 `json:"t" yaml:"t"`
	P float64 `json:"p" yaml:"p"`
}

// Derive computes the model parameters and cubic coefficients for s.
func Derive(m Model, s State) (Coefficients, error) {
	if !m.valid() {
		return Coefficients{}, ErrUnknownModel
	}
	if err := s.Validate(); err != nil {
		return Coefficients{}, err
	}

	def := defs[m]
	a := def.omegaA * R * R * s.Tc * s.Tc / s.Pc
	b := def.omegaB * R * s.Tc / s.Pc
	alpha, dAlpha := m.alpha(s)

	rt := R * s.T
	A := a * alpha * s.P / (rt * rt)
	B := b * s.P / rt
	u, w := def.u, def.w

	return Coefficients{
		Model:      m,
		C2:         -(1 + B - u*B),
		C1:         A + w*B*B - u*B - u*B*B,
		C0:         -(A*B + w*B*B + w*B*B*B),
		A:          A,
		B:          B,
		U:          u,
		W:          w,
		Attraction: a,
		Covolume:   b,
		Alpha:      alpha,
		DAlphaDT:   dAlpha,
		T:          s.T,
		P:          s.P,
	}, nil
}

// Volume converts a compressibility factor to molar volume, m³/mol.
func (c Coefficients) Volume(z float64) float64 {
	return z * R * c.T / c.P
}

// Compressibility converts a molar volume to a compressibility factor.
func (c Coefficients) Compressibility(v float64) float64 {
	return c.P * v / (R * c.T)
}

// Pressure evaluates the equation of state at molar volume v.
func (c Coefficients) Pressure(v float64) float64 {
	b := c.Covolume
	return R*c.T/(v-b) - c.Attraction*c.Alpha/(v*v+c.U*b*v+c.W*b*b)
}
