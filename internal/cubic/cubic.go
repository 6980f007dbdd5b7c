// Package cubic solves monic real cubics x³ + c2·x² + c1·x + c0 = 0 for their
// real roots.
//
// The solver depresses the cubic and compares the discriminant with a bound
// on its own rounding error. Inside that band it tries the repeated-root
// closed form, keeping it only when the polished roots leave a residual at
// rounding level; otherwise it uses Cardano's formula or the trigonometric
// form. Repeated roots are always reported with multiplicity, so a result
// holds either one or three values.
package cubic

import (
	"math"
	"sort"
)

const (
	eps = 0x1p-52

	// deltaUlps widens the first-order rounding bound on the discriminant.
	deltaUlps = 8

	// residualUlps bounds |f(x)| relative to the magnitude of its terms for
	// a repeated root to be accepted.
	residualUlps = 64

	// tripleTol decides when p is negligible next to its own terms.
	tripleTol = 1e-10

	maxPolish = 3
)

// Roots holds the real roots of a cubic in ascending order, counting
// multiplicity. It always has length 1 or 3.
type Roots []float64

// Depressed holds the depressed form t³ + p·t + q = 0 with x = t + Shift and
// the discriminant Delta = (q/2)² + (p/3)³.
type Depressed struct {
	P, Q, Delta float64
	Shift       float64

	// Tol is the degenerate band |Delta| ≤ Tol, the rounding error of
	// Delta propagated from P and Q.
	Tol float64

	pScale float64
}

// Depress computes the depressed form of x³ + c2·x² + c1·x + c0.
func Depress(c2, c1, c0 float64) Depressed {
	c2sq := c2 * c2
	p := c1 - c2sq/3
	q := 2*c2sq*c2/27 - c2*c1/3 + c0

	pScale := c2sq/3 + math.Abs(c1)
	qScale := math.Abs(2*c2sq*c2/27) + math.Abs(c2*c1/3) + math.Abs(c0)

	half := q / 2
	third := p / 3
	delta := half*half + third*third*third

	// first-order error of Delta from δP ≈ eps·pScale and δQ ≈ eps·qScale
	bound := math.Abs(half)*qScale + third*third*pScale +
		half*half + math.Abs(third*third*third)
	return Depressed{
		P:      p,
		Q:      q,
		Delta:  delta,
		Shift:  -c2 / 3,
		Tol:    deltaUlps * eps * bound,
		pScale: pScale,
	}
}

// Degenerate reports whether the cubic sits on the repeated-root boundary.
func (d Depressed) Degenerate() bool {
	return math.Abs(d.Delta) <= d.Tol
}

// Solve returns the real roots of x³ + c2·x² + c1·x + c0 = 0.
func Solve(c2, c1, c0 float64) Roots {
	d := Depress(c2, c1, c0)

	if d.Degenerate() {
		roots := d.repeated()
		ok := true
		for i := range roots {
			roots[i] = polish(c2, c1, c0, roots[i]+d.Shift)
			ok = ok && atRoundingLevel(c2, c1, c0, roots[i])
		}
		if ok {
			sort.Float64s(roots)
			return roots
		}
	}

	var roots Roots
	switch {
	case d.Delta > 0 || d.P == 0:
		roots = Roots{polish(c2, c1, c0, d.cardano()+d.Shift)}
	default:
		roots = d.trigonometric()
		for i := range roots {
			roots[i] += d.Shift
		}
		roots = deflate(c2, c1, c0, roots)
	}

	sort.Float64s(roots)
	return roots
}

// deflate keeps the dominant root of a three-root set, divides it out and
// re-solves the remaining quadratic in stable form so that small roots keep
// their relative accuracy.
func deflate(c2, c1, c0 float64, roots Roots) Roots {
	dom := 0
	for i := range roots {
		if math.Abs(roots[i]) > math.Abs(roots[dom]) {
			dom = i
		}
	}
	r := polish(c2, c1, c0, roots[dom])
	if r == 0 {
		return roots
	}

	e1 := c2 + r
	e0 := -c0 / r
	disc := e1*e1 - 4*e0
	if disc < 0 {
		disc = 0
	}
	s := -(e1 + math.Copysign(math.Sqrt(disc), e1)) / 2
	if s == 0 {
		return Roots{r, 0, 0}
	}
	return Roots{
		r,
		polish(c2, c1, c0, s),
		polish(c2, c1, c0, e0/s),
	}
}

// cardano uses the cancellation-free form: pick the cube root that adds
// magnitudes, recover the other from their product -p/3.
func (d Depressed) cardano() float64 {
	s := math.Sqrt(d.Delta)
	u := -math.Copysign(math.Cbrt(math.Abs(d.Q)/2+s), d.Q)
	if u == 0 {
		return 0
	}
	return u - d.P/(3*u)
}

func (d Depressed) repeated() Roots {
	if math.Abs(d.P) <= tripleTol*math.Max(d.pScale, 1e-300) {
		t := math.Cbrt(-d.Q)
		return Roots{t, t, t}
	}
	u := math.Cbrt(-d.Q / 2)
	return Roots{2 * u, -u, -u}
}

func (d Depressed) trigonometric() Roots {
	m := math.Sqrt(-d.P / 3)
	arg := (3 * d.Q / (2 * d.P)) * math.Sqrt(-3/d.P)
	arg = math.Max(-1, math.Min(1, arg))
	phi := math.Acos(arg) / 3

	roots := make(Roots, 3)
	for k := 0; k < 3; k++ {
		roots[k] = 2 * m * math.Cos(phi-2*math.Pi*float64(k)/3)
	}
	return roots
}

// Eval evaluates x³ + c2·x² + c1·x + c0 by Horner's rule.
func Eval(c2, c1, c0, x float64) float64 {
	return ((x+c2)*x+c1)*x + c0
}

// atRoundingLevel reports whether the residual at x is within rounding of
// the terms that produce it.
func atRoundingLevel(c2, c1, c0, x float64) bool {
	ax := math.Abs(x)
	mag := ((ax+math.Abs(c2))*ax+math.Abs(c1))*ax + math.Abs(c0)
	return math.Abs(Eval(c2, c1, c0, x)) <= residualUlps*eps*mag
}

func derivative(c2, c1, x float64) float64 {
	return (3*x+2*c2)*x + c1
}

// polish takes Newton steps while they reduce the residual.
func polish(c2, c1, c0, x float64) float64 {
	fx := Eval(c2, c1, c0, x)
	for i := 0; i < maxPolish && fx != 0; i++ {
		df := derivative(c2, c1, x)
		if df == 0 {
			break
		}
		next := x - fx/df
		fn := Eval(c2, c1, c0, next)
		if math.Abs(fn) >= math.Abs(fx) {
			break
		}
		x, fx = next, fn
	}
	return x
}
