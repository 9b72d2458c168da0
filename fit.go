package skedastic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// FittedModel is an ordinary-least-squares fit of response on predictors,
// with an intercept always included.
//
// Immutable once computed. A transform of the response produces a new
// Dataset and a new FittedModel; nothing is updated in place.
type FittedModel struct {
	// Coefficients in design order: intercept first, then one per predictor.
	Coefficients []float64

	// Fitted values and residuals, one per observation.
	Fitted    []float64
	Residuals []float64

	// HatDiagonal holds the leverage hᵢ of each observation: the diagonal
	// of X(XᵀX)⁻¹Xᵀ. Each hᵢ lies in [0,1] and Σhᵢ = k (the coefficient
	// count).
	HatDiagonal []float64

	// Sigma2 is the unbiased residual variance estimate RSS/(n−k).
	Sigma2 float64

	// RSquared and AdjRSquared measure fit quality.
	RSquared    float64
	AdjRSquared float64

	// N is the observation count, K the coefficient count (intercept
	// included).
	N, K int

	// Terms labels the coefficients for output tables.
	Terms []string

	design *mat.Dense // n×k design matrix, intercept column first
	xtxInv *mat.Dense // (XᵀX)⁻¹, reused by the robust covariance estimator
}

// olsCore is the raw least-squares solution for an arbitrary design matrix.
// Fit wraps it for datasets; the diagnostics reuse it for their auxiliary
// regressions.
type olsCore struct {
	beta     []float64
	fitted   []float64
	resid    []float64
	hat      []float64
	xtxInv   *mat.Dense
	rss      float64
	tss      float64 // total sum of squares about the mean
	rsquared float64
}

// fitDesign solves y = Xβ + u by the normal equations β = (XᵀX)⁻¹Xᵀy.
//
// Returns ErrInsufficientData when n < k and ErrSingularDesign when XᵀX
// cannot be inverted (collinear columns).
func fitDesign(x *mat.Dense, y []float64) (*olsCore, error) {
	n, k := x.Dims()
	if n < k {
		return nil, fmt.Errorf("%w: %d observations for %d coefficients", ErrInsufficientData, n, k)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: XᵀX not invertible: %v", ErrSingularDesign, err)
	}

	yVec := mat.NewVecDense(n, y)

	var xty mat.VecDense
	xty.MulVec(x.T(), yVec)

	var betaVec mat.VecDense
	betaVec.MulVec(&xtxInv, &xty)

	var fittedVec mat.VecDense
	fittedVec.MulVec(x, &betaVec)

	core := &olsCore{
		beta:   make([]float64, k),
		fitted: make([]float64, n),
		resid:  make([]float64, n),
		hat:    make([]float64, n),
		xtxInv: &xtxInv,
	}
	for j := 0; j < k; j++ {
		core.beta[j] = betaVec.AtVec(j)
	}

	var mean float64
	for i := 0; i < n; i++ {
		mean += y[i]
	}
	mean /= float64(n)

	var tmp mat.VecDense
	for i := 0; i < n; i++ {
		core.fitted[i] = fittedVec.AtVec(i)
		core.resid[i] = y[i] - core.fitted[i]
		core.rss += core.resid[i] * core.resid[i]
		core.tss += (y[i] - mean) * (y[i] - mean)

		// hᵢ = xᵢᵀ (XᵀX)⁻¹ xᵢ
		xi := x.RowView(i)
		tmp.MulVec(&xtxInv, xi)
		core.hat[i] = mat.Dot(xi, &tmp)
	}

	if core.tss > 0 {
		core.rsquared = 1 - core.rss/core.tss
	}

	return core, nil
}

// designMatrix builds the n×(p+1) design matrix with a leading intercept
// column of ones.
func designMatrix(d *Dataset) *mat.Dense {
	n := d.NumObservations()
	p := d.NumPredictors()

	x := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			x.Set(i, j+1, d.Predictors[i][j])
		}
	}
	return x
}

// Fit estimates response = β₀ + β₁·x₁ + ... + u by ordinary least squares.
//
// Guarantees on success (see the testable properties): residuals sum to
// approximately zero, and the hat diagonal lies in [0,1] and sums to the
// coefficient count.
func Fit(d *Dataset) (*FittedModel, error) {
	x := designMatrix(d)
	n, k := x.Dims()
	if n <= k {
		// n == k fits exactly but leaves no residual degrees of freedom
		// for σ̂², so every diagnostic downstream would divide by zero.
		return nil, fmt.Errorf("%w: need more than %d observations for %d coefficients",
			ErrInsufficientData, k, k)
	}

	core, err := fitDesign(x, d.Response)
	if err != nil {
		return nil, err
	}

	terms := make([]string, k)
	terms[0] = "(intercept)"
	for j := 1; j < k; j++ {
		if len(d.PredictorNames) == k-1 && d.PredictorNames[j-1] != "" {
			terms[j] = d.PredictorNames[j-1]
		} else {
			terms[j] = fmt.Sprintf("x%d", j)
		}
	}

	adj := 1.0
	if core.tss > 0 {
		adj = 1 - (core.rss/float64(n-k))/(core.tss/float64(n-1))
	}

	return &FittedModel{
		Coefficients: core.beta,
		Fitted:       core.fitted,
		Residuals:    core.resid,
		HatDiagonal:  core.hat,
		Sigma2:       core.rss / float64(n-k),
		RSquared:     core.rsquared,
		AdjRSquared:  adj,
		N:            n,
		K:            k,
		Terms:        terms,
		design:       x,
		xtxInv:       core.xtxInv,
	}, nil
}

// ResidualSumOfSquares returns Σuᵢ².
func (m *FittedModel) ResidualSumOfSquares() float64 {
	return m.Sigma2 * float64(m.N-m.K)
}

// CoefficientTest reports one row of a coefficient table: estimate,
// standard error, t statistic and its two-sided p-value against
// Student-t(n−k).
type CoefficientTest struct {
	Term     string
	Estimate float64
	StdError float64
	TStat    float64
	PValue   float64
}

// Tests returns the classical coefficient table assuming homoskedastic
// errors: se(β̂ⱼ) = √(σ̂²·[(XᵀX)⁻¹]ⱼⱼ). For heteroskedasticity-consistent
// standard errors use RobustTests.
func (m *FittedModel) Tests() []CoefficientTest {
	out := make([]CoefficientTest, m.K)
	for j := 0; j < m.K; j++ {
		out[j] = coefficientTest(m, j, math.Sqrt(m.Sigma2*m.xtxInv.At(j, j)))
	}
	return out
}

// coefficientTest assembles one table row given a standard error.
func coefficientTest(m *FittedModel, j int, se float64) CoefficientTest {
	ct := CoefficientTest{
		Term:     m.Terms[j],
		Estimate: m.Coefficients[j],
		StdError: se,
	}
	if se > 0 {
		ct.TStat = ct.Estimate / se
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.N - m.K)}
		ct.PValue = clampProbability(2 * dist.Survival(math.Abs(ct.TStat)))
	}
	return ct
}

// clampProbability keeps floating-point tail probabilities inside [0,1].
func clampProbability(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
