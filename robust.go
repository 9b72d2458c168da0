package skedastic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// HCVariant selects how the per-observation residual weights ωᵢ of the
// sandwich covariance estimator are computed.
//
// The variants trade small-sample bias against simplicity. HC0 is White's
// original estimator; HC1 applies the n/(n−k) degrees-of-freedom
// correction; HC2–HC4 deflate each residual by its leverage so that
// high-leverage observations do not understate their own variance.
type HCVariant int

const (
	// HCConst assumes homoskedasticity: ωᵢ = σ̂². The sandwich then
	// collapses to the classical covariance σ̂²(XᵀX)⁻¹.
	HCConst HCVariant = iota

	// HC0: ωᵢ = ûᵢ²
	HC0

	// HC1: ωᵢ = n/(n−k)·ûᵢ²
	HC1

	// HC2: ωᵢ = ûᵢ²/(1−hᵢ)
	HC2

	// HC3: ωᵢ = ûᵢ²/(1−hᵢ)²
	HC3

	// HC4: ωᵢ = ûᵢ²/(1−hᵢ)^δᵢ with δᵢ = min(4, hᵢ/h̄)
	HC4
)

// String returns the conventional estimator name.
func (v HCVariant) String() string {
	switch v {
	case HCConst:
		return "const"
	case HC0:
		return "HC0"
	case HC1:
		return "HC1"
	case HC2:
		return "HC2"
	case HC3:
		return "HC3"
	case HC4:
		return "HC4"
	default:
		return fmt.Sprintf("HCVariant(%d)", int(v))
	}
}

// weights computes ωᵢ for every observation of the model.
func (v HCVariant) weights(m *FittedModel) ([]float64, error) {
	n := m.N
	omega := make([]float64, n)

	// h̄ = k/n since the hat diagonal sums to the coefficient count.
	hBar := float64(m.K) / float64(n)

	for i := 0; i < n; i++ {
		u2 := m.Residuals[i] * m.Residuals[i]
		h := m.HatDiagonal[i]

		switch v {
		case HCConst:
			omega[i] = m.Sigma2
		case HC0:
			omega[i] = u2
		case HC1:
			omega[i] = u2 * float64(n) / float64(n-m.K)
		case HC2, HC3, HC4:
			leverageGap := 1 - h
			if leverageGap <= 0 {
				return nil, fmt.Errorf("%s weights: observation %d has leverage %g, model is saturated there",
					v, i, h)
			}
			switch v {
			case HC2:
				omega[i] = u2 / leverageGap
			case HC3:
				omega[i] = u2 / (leverageGap * leverageGap)
			case HC4:
				delta := math.Min(4, h/hBar)
				omega[i] = u2 / math.Pow(leverageGap, delta)
			}
		default:
			return nil, fmt.Errorf("unknown covariance variant %d", int(v))
		}
	}

	return omega, nil
}

// RobustCovariance computes the heteroskedasticity-consistent covariance
// matrix of the coefficient estimates:
//
//	cov = (XᵀX)⁻¹ · Xᵀdiag(ω)X · (XᵀX)⁻¹
//
// with ω per the selected variant. The result is symmetric positive
// semi-definite for any non-degenerate design; the model itself is not
// altered.
func RobustCovariance(m *FittedModel, v HCVariant) (*mat.SymDense, error) {
	omega, err := v.weights(m)
	if err != nil {
		return nil, err
	}

	n, k := m.N, m.K

	// meat = Xᵀ·diag(ω)·X, assembled as Xᵀ·(scaled rows of X).
	wx := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			wx.Set(i, j, omega[i]*m.design.At(i, j))
		}
	}

	var meat mat.Dense
	meat.Mul(m.design.T(), wx)

	var bread mat.Dense
	bread.Mul(m.xtxInv, &meat)

	var cov mat.Dense
	cov.Mul(&bread, m.xtxInv)

	// Symmetrize away the floating-point asymmetry of the triple product.
	sym := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			sym.SetSym(i, j, (cov.At(i, j)+cov.At(j, i))/2)
		}
	}

	return sym, nil
}

// RobustTests returns the coefficient table with standard errors drawn
// from the robust covariance diagonal: tⱼ = β̂ⱼ/√covⱼⱼ, two-sided p-values
// against Student-t(n−k). The robust analogue of Tests.
func RobustTests(m *FittedModel, v HCVariant) ([]CoefficientTest, error) {
	cov, err := RobustCovariance(m, v)
	if err != nil {
		return nil, err
	}

	out := make([]CoefficientTest, m.K)
	for j := 0; j < m.K; j++ {
		out[j] = coefficientTest(m, j, math.Sqrt(cov.At(j, j)))
	}
	return out, nil
}
