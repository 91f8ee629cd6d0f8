package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/vector"
)

func TestFitExactPolynomial(t *testing.T) {
	// y = 2 + 0.5x - 0.01x²
	pts := make([]vector.Point, 0, 10)
	for x := 0.0; x < 100; x += 10 {
		pts = append(pts, vector.Point{X: x, Y: 2 + 0.5*x - 0.01*x*x})
	}

	p, err := Fit(pts, 2)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if p.Degree() != 2 {
		t.Errorf("expected degree 2, got %d", p.Degree())
	}
	for _, x := range []float64{0, 15, 42, 90} {
		want := 2 + 0.5*x - 0.01*x*x
		if got := p.Eval(x); math.Abs(got-want) > 1e-8 {
			t.Errorf("Eval(%v) = %v, want %v", x, got, want)
		}
	}
	if rms := p.RMS(pts); rms > 1e-8 {
		t.Errorf("expected near-zero residual, got %v", rms)
	}
}

func TestFitLine(t *testing.T) {
	pts := []vector.Point{{X: 0, Y: 1}, {X: 1, Y: 3}, {X: 2, Y: 5}, {X: 3, Y: 7}}
	p, err := Fit(pts, 1)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if got := p.Eval(10); math.Abs(got-21) > 1e-9 {
		t.Errorf("Eval(10) = %v, want 21", got)
	}
}

func TestFitErrors(t *testing.T) {
	pts := []vector.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}

	if _, err := Fit(pts, 2); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("expected ErrTooFewPoints, got %v", err)
	}
	if _, err := Fit(pts, -1); err == nil {
		t.Error("expected error for negative degree")
	}

	same := []vector.Point{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}}
	if _, err := Fit(same, 2); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}

func TestFitRankDeficient(t *testing.T) {
	// Three points but only two distinct abscissae.
	pts := []vector.Point{{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 5, Y: 3}}
	if _, err := Fit(pts, 2); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
	if _, err := Fit(pts, 1); err != nil {
		t.Errorf("degree 1 should be determined: %v", err)
	}
}

func TestFitHighDegree(t *testing.T) {
	coeffs := []float64{0.5, -3, 12, -40, 75, -80, 46, -12, 1.5}
	poly := Polynomial{Coeffs: coeffs, Scale: 150}

	pts := make([]vector.Point, 40)
	for i := range pts {
		x := 150 * float64(i) / float64(len(pts)-1)
		pts[i] = vector.Point{X: x, Y: poly.Eval(x)}
	}

	p, err := Fit(pts, len(coeffs)-1)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if p.Scale != 150 {
		t.Errorf("scale = %v, want 150", p.Scale)
	}
	for _, pt := range pts {
		if got := p.Eval(pt.X); math.Abs(got-pt.Y) > 1e-6 {
			t.Errorf("Eval(%v) = %v, want %v", pt.X, got, pt.Y)
		}
	}
	if rms := p.RMS(pts); rms > 1e-7 {
		t.Errorf("expected near-zero residual, got %v", rms)
	}
}

func TestFitFlight(t *testing.T) {
	model, err := aero.New(aero.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	res, err := flight.New(model).Run(context.Background(),
		flight.Launch{Speed: 45, Angle: 30, Spin: 418, SpinDecay: 0.04}, flight.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	pts := res.Trajectory.Points()
	p, err := Fit(pts, len(pts)-1)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	// An interpolating polynomial passes through every sample.
	for _, pt := range pts {
		if got := p.Eval(pt.X); math.Abs(got-pt.Y) > 1e-6 {
			t.Errorf("Eval(%v) = %v, want %v", pt.X, got, pt.Y)
		}
	}

	prev := math.Inf(1)
	for degree := 1; degree < len(pts); degree++ {
		q, err := Fit(pts, degree)
		if err != nil {
			t.Fatalf("degree %d: %v", degree, err)
		}
		rms := q.RMS(pts)
		if rms > prev+1e-9 {
			t.Errorf("degree %d residual %v grew from %v", degree, rms, prev)
		}
		prev = rms
	}
	if prev > 1e-6 {
		t.Errorf("expected interpolating residual near zero, got %v", prev)
	}
}

func TestLanding(t *testing.T) {
	pts := []vector.Point{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: -5}}
	got, ok := Landing(pts)
	if !ok {
		t.Fatal("expected landing")
	}
	if math.Abs(got.X-15) > 1e-12 || got.Y != 0 {
		t.Errorf("expected (15, 0), got %+v", got)
	}

	if _, ok := Landing(pts[:2]); ok {
		t.Error("path above ground should not land")
	}
	if _, ok := Landing(pts[:1]); ok {
		t.Error("single point should not land")
	}
}
