package eos

import (
	"fmt"
	"math"
)

// Departure holds the residual properties of one branch, real minus ideal
// gas at the same T and P.
type Departure struct {
	Phase Phase   `json:"phase" yaml:"phase"`
	Z     float64 `json:"z" yaml:"z"`
	V     float64 `json:"v" yaml:"v"` // m³/mol

	U   float64 `json:"du_dep" yaml:"du_dep"` // J/mol
	H   float64 `json:"dh_dep" yaml:"dh_dep"` // J/mol
	S   float64 `json:"ds_dep" yaml:"ds_dep"` // J/(mol·K)
	G   float64 `json:"dg_dep" yaml:"dg_dep"` // J/mol
	Phi float64 `json:"phi" yaml:"phi"`
}

// Departures evaluates the departure functions at compressibility factor z.
//
//	ΔU = a(α - T·dα/dT)·I(V)
//	ΔH = ΔU + RT(Z - 1)
//	ΔS = R·ln(Z - B) - a·(dα/dT)·I(V)
//	ΔG = ΔH - T·ΔS,  φ = exp(ΔG/RT)
//
// where I(V) = ∫∞..V dV'/(V'² + ubV' + wb²). For u² = 4w (van der Waals)
// I = -1/V, otherwise I = ln[(2V + b(u-d))/(2V + b(u+d))]/(bd), d = √(u²-4w).
func Departures(c Coefficients, z float64) (Departure, error) {
	v := c.Volume(z)
	zb := z - c.B
	if !(v > 0) || !(zb > 0) {
		return Departure{}, c.rootError(z, "volume at or below covolume")
	}

	integral, err := c.attractionIntegral(v)
	if err != nil {
		return Departure{}, c.rootError(z, err.Error())
	}

	a, t := c.Attraction, c.T
	rt := R * t

	du := a * (c.Alpha - t*c.DAlphaDT) * integral
	dh := du + rt*(z-1)
	ds := R*math.Log(zb) - a*c.DAlphaDT*integral
	dg := dh - t*ds

	return Departure{
		Z:   z,
		V:   v,
		U:   du,
		H:   dh,
		S:   ds,
		G:   dg,
		Phi: math.Exp(dg / rt),
	}, nil
}

func (c Coefficients) attractionIntegral(v float64) (float64, error) {
	d2 := c.U*c.U - 4*c.W
	if d2 <= 0 {
		return -1 / v, nil
	}

	b := c.Covolume
	d := math.Sqrt(d2)
	lo := 2*v + b*(c.U-d)
	hi := 2*v + b*(c.U+d)
	if !(lo > 0) || !(hi > 0) {
		return 0, fmt.Errorf("log argument not positive at V=%g", v)
	}
	return math.Log1p(-2*b*d/hi) / (b * d), nil
}

func (c Coefficients) rootError(z float64, reason string) error {
	return &RootError{
		Model:  c.Model,
		T:      c.T,
		P:      c.P,
		Roots:  []float64{z},
		B:      c.B,
		Reason: reason,
	}
}
