package eos

import "github.com/san-kum/eoslab/internal/cubic"

// RootSet is the ascending real root set of the cubic in Z together with the
// covolume bound used to judge admissibility.
type RootSet struct {
	Z cubic.Roots
	B float64
}

// Roots solves the cubic in Z described by c.
func Roots(c Coefficients) RootSet {
	return RootSet{
		Z: cubic.Solve(c.C2, c.C1, c.C0),
		B: c.B,
	}
}

// Admissible reports whether z is a physical compressibility factor:
// positive, with V = zRT/P above the covolume b (equivalently z > B).
func (r RootSet) Admissible(z float64) bool {
	return z > 0 && z > r.B
}

// Filtered returns the admissible roots, ascending.
func (r RootSet) Filtered() []float64 {
	out := make([]float64, 0, len(r.Z))
	for _, z := range r.Z {
		if r.Admissible(z) {
			out = append(out, z)
		}
	}
	return out
}
