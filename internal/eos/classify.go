package eos

import (
	"fmt"
	"math"
)

// Phase labels a classified branch.
type Phase int

const (
	Liquid Phase = iota
	Vapor
)

func (p Phase) String() string {
	if p == Liquid {
		return "liquid"
	}
	return "vapor"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "liquid":
		*p = Liquid
	case "vapor":
		*p = Vapor
	default:
		return fmt.Errorf("eos: unknown phase %q", text)
	}
	return nil
}

// Classified holds the compressibility factor of each populated branch.
// A nil pointer means the branch does not exist at these conditions.
type Classified struct {
	Liquid *float64
	Vapor  *float64
}

// Classify assigns roots to the liquid and vapor branches.
//
// Coincident roots are merged first. Three distinct admissible roots form a
// van der Waals loop: the smallest is liquid, the largest vapor, and the
// middle one is always dropped. A lone admissible root goes to vapor when
// Z ≥ opts.ZSplit and to liquid otherwise. Roots failing
// RootSet.Admissible are never assigned.
func Classify(set RootSet, opts Options) (Classified, error) {
	opts = opts.withDefaults()
	d := mergeRoots(set.Z, opts.MergeTol)
	if len(d) == 0 {
		return Classified{}, &RootError{Roots: set.Z, B: set.B, Reason: "no real roots"}
	}

	var c Classified
	single := func(z float64) {
		if z >= opts.ZSplit {
			c.Vapor = &z
		} else {
			c.Liquid = &z
		}
	}
	pair := func(liq, vap float64) {
		c.Liquid, c.Vapor = &liq, &vap
	}

	top := d[len(d)-1]
	switch {
	case !set.Admissible(top):
		// every root sits at or below the covolume
	case len(d) == 1:
		single(top)
	case set.Admissible(d[0]):
		pair(d[0], top)
	case len(d) == 3 && set.Admissible(d[1]):
		// liquid root lost at the covolume bound; d[1] is still the
		// unstable middle root
		c.Vapor = &top
	default:
		single(top)
	}

	if c.Liquid == nil && c.Vapor == nil {
		return c, &RootError{Roots: set.Z, B: set.B}
	}
	return c, nil
}

// mergeRoots collapses ascending roots closer than tol relative to their
// magnitude (absolute below 1).
func mergeRoots(roots []float64, tol float64) []float64 {
	out := make([]float64, 0, len(roots))
	for _, z := range roots {
		if n := len(out); n > 0 {
			last := out[n-1]
			if math.Abs(z-last) <= tol*math.Max(1, math.Abs(z)) {
				continue
			}
		}
		out = append(out, z)
	}
	return out
}
