package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/golfsim/internal/vector"
	"gonum.org/v1/gonum/mat"
)

const rankTolerance = 1e-10

var (
	ErrTooFewPoints = errors.New("analysis: not enough points for the requested degree")
	ErrSingular     = errors.New("analysis: points do not determine a unique polynomial")
)

// Polynomial is y = Σ Coeffs[i]·(x/Scale)^i. Fitting in the scaled variable
// keeps high degrees well conditioned.
type Polynomial struct {
	Coeffs []float64
	Scale  float64
}

func (p Polynomial) Degree() int { return len(p.Coeffs) - 1 }

func (p Polynomial) Eval(x float64) float64 {
	t := x
	if p.Scale != 0 {
		t = x / p.Scale
	}
	y := 0.0
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		y = y*t + p.Coeffs[i]
	}
	return y
}

// RMS is the root-mean-square residual of the polynomial over pts.
func (p Polynomial) RMS(pts []vector.Point) float64 {
	if len(pts) == 0 {
		return 0
	}
	sum := 0.0
	for _, pt := range pts {
		r := pt.Y - p.Eval(pt.X)
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(pts)))
}

// Fit finds the least-squares polynomial of the given degree through pts by
// QR factorisation of the Vandermonde matrix.
func Fit(pts []vector.Point, degree int) (Polynomial, error) {
	if degree < 0 {
		return Polynomial{}, fmt.Errorf("analysis: negative degree %d", degree)
	}
	n := degree + 1
	if len(pts) < n {
		return Polynomial{}, fmt.Errorf("%w: %d points, degree %d", ErrTooFewPoints, len(pts), degree)
	}

	scale := 0.0
	for _, pt := range pts {
		scale = math.Max(scale, math.Abs(pt.X))
	}
	if scale == 0 {
		scale = 1
	}

	a := mat.NewDense(len(pts), n, nil)
	y := mat.NewVecDense(len(pts), nil)
	for i, pt := range pts {
		t := pt.X / scale
		pow := 1.0
		for j := 0; j < n; j++ {
			a.Set(i, j, pow)
			pow *= t
		}
		y.SetVec(i, pt.Y)
	}

	var qr mat.QR
	qr.Factorize(a)
	if rankDeficient(&qr, n) {
		return Polynomial{}, ErrSingular
	}

	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, y); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return Polynomial{}, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		return Polynomial{}, err
	}

	coeffs := make([]float64, n)
	for i := range coeffs {
		coeffs[i] = c.AtVec(i)
	}
	return Polynomial{Coeffs: coeffs, Scale: scale}, nil
}

// rankDeficient reports whether a diagonal entry of R is negligible next to
// the largest one.
func rankDeficient(qr *mat.QR, n int) bool {
	var r mat.Dense
	qr.RTo(&r)
	largest := 0.0
	for i := 0; i < n; i++ {
		largest = math.Max(largest, math.Abs(r.At(i, i)))
	}
	if largest == 0 {
		return true
	}
	for i := 0; i < n; i++ {
		if math.Abs(r.At(i, i)) <= rankTolerance*largest {
			return true
		}
	}
	return false
}
