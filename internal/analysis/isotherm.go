package analysis

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eoslab/internal/eos"
	"github.com/san-kum/eoslab/internal/log"
)

// IsothermPoint is one pressure of a sweep. Err is set when the solve
// failed at that pressure; the branches are nil then.
type IsothermPoint struct {
	P      float64        `json:"p"`
	Liquid *eos.Departure `json:"liquid,omitempty"`
	Vapor  *eos.Departure `json:"vapor,omitempty"`
	Err    error          `json:"-"`
}

// PressureGrid returns n pressures from pmin to pmax inclusive, evenly spaced
// in P or in log P.
func PressureGrid(pmin, pmax float64, n int, logScale bool) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("analysis: pressure grid needs at least 2 points, got %d", n)
	}
	if !(pmin > 0) || !(pmax > pmin) {
		return nil, fmt.Errorf("analysis: pressure grid needs 0 < pmin < pmax, got [%g, %g]", pmin, pmax)
	}
	grid := make([]float64, n)
	if logScale {
		return floats.LogSpan(grid, pmin, pmax), nil
	}
	return floats.Span(grid, pmin, pmax), nil
}

// Isotherm solves st at each pressure, in parallel. Points keep the order of
// pressures. Per-point solve failures are recorded, not returned; only
// context cancellation aborts the sweep.
func Isotherm(ctx context.Context, s *eos.Solver, m eos.Model, st eos.State, pressures []float64) ([]IsothermPoint, error) {
	points := make([]IsothermPoint, len(pressures))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range pressures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			at := st
			at.P = p
			points[i].P = p

			res, err := s.Solve(m, at)
			if err != nil {
				points[i].Err = err
				return nil
			}
			points[i].Liquid, points[i].Vapor = res.Liquid, res.Vapor
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, pt := range points {
		if pt.Err != nil {
			failed++
		}
	}
	log.Debugw("isotherm", "model", m, "t", st.T, "points", len(points), "failed", failed)
	return points, nil
}

// Z returns the vapor compressibility factor where present, else the liquid
// one. ok is false when the point has no branch.
func (p IsothermPoint) Z() (z float64, ok bool) {
	switch {
	case p.Vapor != nil:
		return p.Vapor.Z, true
	case p.Liquid != nil:
		return p.Liquid.Z, true
	}
	return 0, false
}
