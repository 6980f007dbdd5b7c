package cubic

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrEigen is returned when the companion matrix fails to factorize.
var ErrEigen = errors.New("cubic: companion eigendecomposition failed")

// Companion returns the companion matrix of x³ + c2·x² + c1·x + c0, whose
// eigenvalues are the roots of the cubic.
func Companion(c2, c1, c0 float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, 0, -c0,
		1, 0, -c1,
		0, 1, -c2,
	})
}

// EigenRoots returns the real roots found as eigenvalues of the companion
// matrix, ascending. Eigenvalues whose imaginary part is below imagTol
// relative to their modulus count as real.
func EigenRoots(c2, c1, c0, imagTol float64) (Roots, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(Companion(c2, c1, c0), mat.EigenNone); !ok {
		return nil, ErrEigen
	}

	values := eig.Values(nil)
	roots := make(Roots, 0, len(values))
	for _, v := range values {
		if math.Abs(imag(v)) <= imagTol*math.Max(1, cmplxAbs(v)) {
			roots = append(roots, real(v))
		}
	}
	sort.Float64s(roots)
	return roots, nil
}

func cmplxAbs(v complex128) float64 {
	return math.Hypot(real(v), imag(v))
}
