package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/eoslab/internal/eos"
	"github.com/san-kum/eoslab/internal/log"
)

var ErrNoSaturation = errors.New("analysis: no saturation pressure")

const (
	DefaultSatTol     = 1e-10
	DefaultSatMaxIter = 500
)

type SaturationOptions struct {
	Tol     float64 // on |φL/φV - 1|
	MaxIter int
}

func (o SaturationOptions) withDefaults() SaturationOptions {
	if o.Tol <= 0 {
		o.Tol = DefaultSatTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultSatMaxIter
	}
	return o
}

// Saturation is a converged coexistence point.
type Saturation struct {
	Model      eos.Model     `json:"model"`
	T          float64       `json:"t"`
	P          float64       `json:"p"`
	Iterations int           `json:"iterations"`
	Liquid     eos.Departure `json:"liquid"`
	Vapor      eos.Departure `json:"vapor"`
}

// WilsonPressure is the Wilson correlation for the vapor pressure at st.T.
func WilsonPressure(st eos.State) float64 {
	return st.Pc * math.Exp(5.373*(1+st.Omega)*(1-st.Tc/st.T))
}

// SaturationPressure finds the pressure at st.T where the liquid and vapor
// fugacity coefficients agree, by successive substitution P ← P·φL/φV from
// the Wilson estimate. st.P is ignored. When an iterate leaves the
// three-root window the pressure is bisected back towards it.
func SaturationPressure(ctx context.Context, s *eos.Solver, m eos.Model, st eos.State, opts SaturationOptions) (*Saturation, error) {
	opts = opts.withDefaults()

	st.P = st.Pc
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if st.T >= st.Tc {
		return nil, fmt.Errorf("%w: T=%g K is not below Tc=%g K", ErrNoSaturation, st.T, st.Tc)
	}

	p := WilsonPressure(st)
	var lo, hi float64 // pressures known to lie below and above the window

	for iter := 1; iter <= opts.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st.P = p
		res, err := s.Solve(m, st)
		if err != nil {
			return nil, fmt.Errorf("analysis: saturation at P=%g Pa: %w", p, err)
		}

		switch {
		case res.Liquid == nil:
			lo = p
			p = towards(p, hi, 2)
			continue
		case res.Vapor == nil:
			hi = p
			p = towards(p, lo, 0.5)
			continue
		}

		liq, vap := *res.Liquid, *res.Vapor
		if math.Abs(liq.Z-vap.Z) <= 1e-6*vap.Z {
			return nil, fmt.Errorf("%w: branches merged at P=%g Pa", ErrNoSaturation, p)
		}

		ratio := liq.Phi / vap.Phi
		log.Debugw("saturation step", "model", m, "iter", iter, "p", p, "ratio", ratio)
		if math.Abs(ratio-1) < opts.Tol {
			return &Saturation{
				Model:      m,
				T:          st.T,
				P:          p,
				Iterations: iter,
				Liquid:     liq,
				Vapor:      vap,
			}, nil
		}
		p *= ratio
	}

	return nil, fmt.Errorf("%w: %s at T=%g K did not converge in %d iterations", ErrNoSaturation, m, st.T, opts.MaxIter)
}

// towards moves p halfway to bound when bound is known, else scales it.
func towards(p, bound, scale float64) float64 {
	if bound > 0 {
		return (p + bound) / 2
	}
	return p * scale
}
