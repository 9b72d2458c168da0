package skedastic

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// TestFitBoxCox_Cars verifies the estimated λ for the stopping distances
// lands in the square-root neighborhood and beats the untransformed and
// log alternatives on the profile likelihood.
func TestFitBoxCox_Cars(t *testing.T) {
	y := Cars().Response

	bc, err := FitBoxCox(y)
	if err != nil {
		t.Fatalf("FitBoxCox failed: %v", err)
	}

	t.Logf("λ = %.4f, profile log-likelihood = %.4f", bc.Lambda, bc.LogLikelihood)

	if bc.Lambda < 0.2 || bc.Lambda > 0.8 {
		t.Errorf("λ: expected square-root neighborhood [0.2, 0.8], got %.4f", bc.Lambda)
	}

	logSum := 0.0
	for _, v := range y {
		logSum += math.Log(v)
	}
	for _, lambda := range []float64{0, 1} {
		if ll := boxCoxLogLikelihood(y, lambda, logSum); ll > bc.LogLikelihood+1e-9 {
			t.Errorf("λ=%.1f has higher likelihood (%.4f) than the estimate (%.4f)",
				lambda, ll, bc.LogLikelihood)
		}
	}
}

// TestFitBoxCox_LogNormal verifies λ is estimated near zero when the data
// are exactly log-normal.
func TestFitBoxCox_LogNormal(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11))
	y := make([]float64, 500)
	for i := range y {
		y[i] = math.Exp(rng.NormFloat64())
	}

	bc, err := FitBoxCox(y)
	if err != nil {
		t.Fatalf("FitBoxCox failed: %v", err)
	}

	t.Logf("λ = %.4f (log-normal data, expect ≈ 0)", bc.Lambda)
	if math.Abs(bc.Lambda) > 0.3 {
		t.Errorf("λ: expected ≈0 for log-normal data, got %.4f", bc.Lambda)
	}
}

// TestBoxCox_LambdaOneIsAffineShift verifies the λ=1 identity: the
// transform reduces to y−1.
func TestBoxCox_LambdaOneIsAffineShift(t *testing.T) {
	y := []float64{1, 2.5, 10, 42}

	out, err := BoxCox{Lambda: 1}.Transform(y)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	for i, v := range out {
		if math.Abs(v-(y[i]-1)) > 1e-12 {
			t.Errorf("λ=1: expected %g−1, got %g", y[i], v)
		}
	}
}

// TestBoxCox_LambdaZeroIsLog verifies the λ=0 branch.
func TestBoxCox_LambdaZeroIsLog(t *testing.T) {
	y := []float64{0.5, 1, math.E, 100}

	out, err := BoxCox{Lambda: 0}.Transform(y)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	for i, v := range out {
		if math.Abs(v-math.Log(y[i])) > 1e-12 {
			t.Errorf("λ=0: expected log(%g)=%g, got %g", y[i], math.Log(y[i]), v)
		}
	}
}

// TestBoxCox_ContinuityAtZero verifies the λ→0 limit matches the log
// branch: no jump at the branch switch.
func TestBoxCox_ContinuityAtZero(t *testing.T) {
	for _, y := range []float64{0.5, 2, 50} {
		near := boxCoxApply(y, 1e-7)
		at := boxCoxApply(y, 0)
		if math.Abs(near-at) > 1e-5 {
			t.Errorf("Discontinuity at λ=0 for y=%g: %g vs %g", y, near, at)
		}
	}
}

// TestBoxCox_NonPositiveResponse verifies the strict-positivity
// precondition in both the estimator and the transform.
func TestBoxCox_NonPositiveResponse(t *testing.T) {
	y := []float64{3, 1, 0, 7}

	if _, err := FitBoxCox(y); !errors.Is(err, ErrNonPositiveResponse) {
		t.Errorf("FitBoxCox: expected ErrNonPositiveResponse, got %v", err)
	}
	if _, err := (BoxCox{Lambda: 0.5}).Transform(y); !errors.Is(err, ErrNonPositiveResponse) {
		t.Errorf("Transform: expected ErrNonPositiveResponse, got %v", err)
	}
	if _, err := FitBoxCox([]float64{1, -2}); !errors.Is(err, ErrNonPositiveResponse) {
		t.Errorf("FitBoxCox negative: expected ErrNonPositiveResponse, got %v", err)
	}
}

// TestFitBoxCox_TooFewValues verifies the estimator needs at least two
// values.
func TestFitBoxCox_TooFewValues(t *testing.T) {
	if _, err := FitBoxCox([]float64{5}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

// TestGoldenSectionMax checks the search against a function with a known
// maximum.
func TestGoldenSectionMax(t *testing.T) {
	// f(x) = −(x−0.7)², maximum at 0.7
	f := func(x float64) float64 { return -(x - 0.7) * (x - 0.7) }

	x := goldenSectionMax(f, -2, 2, 1e-8)
	if math.Abs(x-0.7) > 1e-6 {
		t.Errorf("Expected maximum at 0.7, got %g", x)
	}
}
