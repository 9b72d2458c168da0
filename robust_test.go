package skedastic

import (
	"math"
	"testing"
)

// TestRobustCovariance_ConstMatchesClassical verifies the const variant
// collapses to σ̂²(XᵀX)⁻¹, i.e. the classical standard errors.
func TestRobustCovariance_ConstMatchesClassical(t *testing.T) {
	m, err := Fit(Cars())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	classical := m.Tests()
	robust, err := RobustTests(m, HCConst)
	if err != nil {
		t.Fatalf("RobustTests failed: %v", err)
	}

	for j := range classical {
		rel := math.Abs(robust[j].StdError-classical[j].StdError) / classical[j].StdError
		if rel > 1e-10 {
			t.Errorf("%s: const SE %.6g differs from classical %.6g",
				classical[j].Term, robust[j].StdError, classical[j].StdError)
		}
	}
}

// TestRobustCovariance_SymmetricPSD verifies every variant yields a
// symmetric positive semi-definite matrix on a non-degenerate design.
func TestRobustCovariance_SymmetricPSD(t *testing.T) {
	cfg := DefaultPropertyConfig()

	for _, d := range []*Dataset{Cars(), SyntheticFanOut(300, 3)} {
		m, err := Fit(d)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}

		for _, v := range []HCVariant{HCConst, HC0, HC1, HC2, HC3, HC4} {
			t.Run(v.String(), func(t *testing.T) {
				cov, err := RobustCovariance(m, v)
				if err != nil {
					t.Fatalf("RobustCovariance(%s) failed: %v", v, err)
				}
				AssertSymmetricPSD(t, cov, cfg)
			})
		}
	}
}

// TestRobustCovariance_VariantOrdering verifies the leverage adjustments
// order the variance estimates the way the weights imply: with every
// hᵢ ∈ (0,1), HC1 scales HC0 by exactly n/(n−k) and HC3 dominates HC2
// dominates HC0 on the diagonal.
func TestRobustCovariance_VariantOrdering(t *testing.T) {
	m, err := Fit(Cars())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	cov := map[HCVariant][]float64{}
	for _, v := range []HCVariant{HC0, HC1, HC2, HC3} {
		c, err := RobustCovariance(m, v)
		if err != nil {
			t.Fatalf("RobustCovariance(%s) failed: %v", v, err)
		}
		diag := make([]float64, m.K)
		for j := 0; j < m.K; j++ {
			diag[j] = c.At(j, j)
		}
		cov[v] = diag
	}

	scale := float64(m.N) / float64(m.N-m.K)
	for j := 0; j < m.K; j++ {
		if math.Abs(cov[HC1][j]-scale*cov[HC0][j]) > 1e-9*cov[HC0][j] {
			t.Errorf("HC1 diag %d: expected n/(n−k)·HC0 = %g, got %g",
				j, scale*cov[HC0][j], cov[HC1][j])
		}
		if cov[HC2][j] < cov[HC0][j] {
			t.Errorf("HC2 diag %d (%g) must dominate HC0 (%g)", j, cov[HC2][j], cov[HC0][j])
		}
		if cov[HC3][j] < cov[HC2][j] {
			t.Errorf("HC3 diag %d (%g) must dominate HC2 (%g)", j, cov[HC3][j], cov[HC2][j])
		}
	}

	t.Logf("✓ Diagonals ordered: HC0 ≤ HC2 ≤ HC3, HC1 = HC0·n/(n−k)")
}

// TestRobustTests_Cars sanity-checks the robust table for the cars fit:
// robust SEs differ from the classical ones but the speed effect stays
// decisively non-zero.
func TestRobustTests_Cars(t *testing.T) {
	m, err := Fit(Cars())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	robust, err := RobustTests(m, HC3)
	if err != nil {
		t.Fatalf("RobustTests failed: %v", err)
	}
	if len(robust) != m.K {
		t.Fatalf("Expected %d rows, got %d", m.K, len(robust))
	}

	speed := robust[1]
	t.Logf("HC3 speed: estimate=%.4f se=%.4f t=%.3f p=%.3g",
		speed.Estimate, speed.StdError, speed.TStat, speed.PValue)

	if speed.StdError <= 0 {
		t.Fatalf("Robust SE must be positive, got %g", speed.StdError)
	}
	if got := speed.Estimate / speed.StdError; math.Abs(got-speed.TStat) > 1e-9 {
		t.Errorf("t inconsistent with estimate/SE: %g vs %g", speed.TStat, got)
	}
	if speed.PValue > 1e-6 {
		t.Errorf("Speed effect must stay significant under HC3, p = %g", speed.PValue)
	}
}

// TestHCVariant_String covers the estimator names.
func TestHCVariant_String(t *testing.T) {
	want := map[HCVariant]string{
		HCConst: "const", HC0: "HC0", HC1: "HC1", HC2: "HC2", HC3: "HC3", HC4: "HC4",
	}
	for v, s := range want {
		if v.String() != s {
			t.Errorf("%d: expected %q, got %q", int(v), s, v.String())
		}
	}
	if got := HCVariant(99).String(); got != "HCVariant(99)" {
		t.Errorf("Unknown variant: got %q", got)
	}
}

// TestRobustCovariance_UnknownVariant verifies out-of-range variants are
// rejected.
func TestRobustCovariance_UnknownVariant(t *testing.T) {
	m, err := Fit(Cars())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, err := RobustCovariance(m, HCVariant(99)); err == nil {
		t.Fatal("Expected error for unknown variant")
	}
}
