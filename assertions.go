package skedastic

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// PropertyConfig contains tolerances for the statistical properties the
// assertion helpers verify.
type PropertyConfig struct {
	// Relative tolerance for the residual-sum and hat-trace identities.
	ResidualTolerance float64

	// Significance threshold for the heteroskedasticity verdicts.
	Alpha float64

	// Smallest (scaled) eigenvalue a covariance matrix may have and
	// still count as positive semi-definite.
	PSDTolerance float64
}

// DefaultPropertyConfig returns conservative tolerances.
func DefaultPropertyConfig() PropertyConfig {
	return PropertyConfig{
		ResidualTolerance: 1e-9,
		Alpha:             DefaultAlpha,
		PSDTolerance:      1e-9,
	}
}

// AssertResidualsCentered verifies the residuals of an intercept model sum
// to approximately zero.
//
// Mathematical property:
//
//	Σûᵢ = 0 exactly in arithmetic; |Σûᵢ| ≤ tol·Σ|yᵢ| in floating point
func AssertResidualsCentered(t *testing.T, m *FittedModel, cfg PropertyConfig) {
	t.Helper()

	var sum, scale float64
	for i, u := range m.Residuals {
		sum += u
		scale += math.Abs(m.Fitted[i] + u) // |yᵢ|
	}
	if scale == 0 {
		scale = 1
	}

	if math.Abs(sum)/scale > cfg.ResidualTolerance {
		t.Errorf("Residuals not centered: Σû = %g (relative %g, tolerance %g)\n"+
			"With an intercept the residuals must be orthogonal to the constant column.",
			sum, math.Abs(sum)/scale, cfg.ResidualTolerance)
		return
	}

	t.Logf("✓ Residuals centered: Σû = %.3g (relative tolerance %g)", sum, cfg.ResidualTolerance)
}

// AssertLeverageBounds verifies every hat-diagonal entry lies in [0,1] and
// that the diagonal sums to the coefficient count.
//
// Mathematical property:
//
//	0 ≤ hᵢ ≤ 1 and Σhᵢ = trace(H) = k
func AssertLeverageBounds(t *testing.T, m *FittedModel, cfg PropertyConfig) {
	t.Helper()

	var sum float64
	for i, h := range m.HatDiagonal {
		if h < -cfg.ResidualTolerance || h > 1+cfg.ResidualTolerance {
			t.Errorf("Leverage out of bounds: h[%d] = %g (must lie in [0,1])", i, h)
		}
		sum += h
	}

	if math.Abs(sum-float64(m.K)) > cfg.ResidualTolerance*float64(m.N) {
		t.Errorf("Hat trace mismatch: Σh = %g, want %d (coefficient count)", sum, m.K)
		return
	}

	t.Logf("✓ Leverage bounds hold: Σh = %.6f = k = %d", sum, m.K)
}

// AssertHeteroskedastic verifies a diagnostic rejected constant variance.
func AssertHeteroskedastic(t *testing.T, r TestResult, alpha float64) {
	t.Helper()

	if !r.Significant(alpha) {
		t.Errorf("Expected heteroskedasticity: %s does not reject at α = %.2f", r, alpha)
		return
	}

	t.Logf("✓ Heteroskedastic: %s (α = %.2f)", r, alpha)
}

// AssertHomoskedastic verifies a diagnostic found no evidence against
// constant variance.
func AssertHomoskedastic(t *testing.T, r TestResult, alpha float64) {
	t.Helper()

	if r.Significant(alpha) {
		t.Errorf("Expected homoskedasticity: %s rejects at α = %.2f", r, alpha)
		return
	}

	t.Logf("✓ Homoskedastic: %s (α = %.2f)", r, alpha)
}

// AssertSymmetricPSD verifies a covariance matrix is symmetric positive
// semi-definite within tolerance.
//
// Mathematical property:
//
//	λ_min(cov) ≥ −tol·max|covᵢᵢ| for every eigenvalue
func AssertSymmetricPSD(t *testing.T, cov *mat.SymDense, cfg PropertyConfig) {
	t.Helper()

	var eig mat.EigenSym
	if !eig.Factorize(cov, false) {
		t.Fatalf("Eigendecomposition failed: covariance matrix is malformed")
	}

	values := eig.Values(nil)
	min := math.Inf(1)
	for _, v := range values {
		min = math.Min(min, v)
	}

	// Tolerance scales with the matrix magnitude.
	scale := 0.0
	n := cov.SymmetricDim()
	for i := 0; i < n; i++ {
		scale = math.Max(scale, math.Abs(cov.At(i, i)))
	}
	if scale == 0 {
		scale = 1
	}

	if min < -cfg.PSDTolerance*scale {
		t.Errorf("Covariance not PSD: λ_min = %g (tolerance %g)", min, cfg.PSDTolerance*scale)
		return
	}

	t.Logf("✓ Symmetric PSD: λ_min = %.3g", min)
}
