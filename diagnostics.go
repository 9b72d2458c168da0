package skedastic

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha is the conventional significance threshold for the
// heteroskedasticity tests. It is a pedagogical convention, not a hard
// rule; every decision point in this package takes the threshold as a
// parameter.
const DefaultAlpha = 0.05

// TestResult is the outcome of a single diagnostic test: the test
// statistic, its degrees of freedom, and the p-value in [0,1].
//
// Purely derived from a FittedModel; it has no lifecycle of its own.
type TestResult struct {
	Name      string
	Statistic float64
	DF        int
	PValue    float64
}

// Significant reports whether the test rejects homoskedasticity at the
// given threshold.
func (r TestResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// String formats the result the way the tests and examples log it.
func (r TestResult) String() string {
	return fmt.Sprintf("%s: statistic=%.4f df=%d p=%.4f", r.Name, r.Statistic, r.DF, r.PValue)
}

// BreuschPagan tests the residuals of m for heteroskedasticity.
//
// Mechanics: regress the squared residuals ûᵢ² on the model's own
// predictors, then
//
//	LM = n·R²(auxiliary)  ~  χ²(number of auxiliary predictors)
//
// under the null of constant variance. Large LM means the squared
// residuals track the predictors, i.e. the error variance is not constant.
func BreuschPagan(m *FittedModel) (TestResult, error) {
	sq := make([]float64, m.N)
	for i, u := range m.Residuals {
		sq[i] = u * u
	}

	// The auxiliary design is the model's own design matrix, so a singular
	// fit here is impossible for a model that fit in the first place.
	aux, err := fitDesign(m.design, sq)
	if err != nil {
		return TestResult{}, fmt.Errorf("breusch-pagan auxiliary regression: %w", err)
	}

	df := m.K - 1
	lm := float64(m.N) * aux.rsquared
	if lm < 0 {
		lm = 0
	}

	chi := distuv.ChiSquared{K: float64(df)}
	return TestResult{
		Name:      "Breusch-Pagan",
		Statistic: lm,
		DF:        df,
		PValue:    clampProbability(chi.Survival(lm)),
	}, nil
}

// ScoreTest is the non-constant-variance score test (Cook–Weisberg).
//
// It tests whether the squared standardized residuals ûᵢ²/σ̃² (with the
// maximum-likelihood variance σ̃² = RSS/n) trend with the fitted values:
//
//	S = ESS(auxiliary)/2  ~  χ²(1)
//
// where ESS is the explained sum of squares of the regression of
// ûᵢ²/σ̃² on the fitted values. One degree of freedom in this simple
// formulation.
func ScoreTest(m *FittedModel) (TestResult, error) {
	sigma2ML := m.ResidualSumOfSquares() / float64(m.N)
	if sigma2ML <= 0 {
		return TestResult{}, fmt.Errorf("score test: residual variance is zero, perfect fit leaves nothing to test")
	}

	scaled := make([]float64, m.N)
	for i, u := range m.Residuals {
		scaled[i] = u * u / sigma2ML
	}

	aux := mat.NewDense(m.N, 2, nil)
	for i := 0; i < m.N; i++ {
		aux.Set(i, 0, 1)
		aux.Set(i, 1, m.Fitted[i])
	}

	core, err := fitDesign(aux, scaled)
	if err != nil {
		return TestResult{}, fmt.Errorf("score test auxiliary regression: %w", err)
	}

	ess := core.tss - core.rss
	if ess < 0 {
		ess = 0
	}
	stat := ess / 2

	chi := distuv.ChiSquared{K: 1}
	return TestResult{
		Name:      "score",
		Statistic: stat,
		DF:        1,
		PValue:    clampProbability(chi.Survival(stat)),
	}, nil
}

// PlotPoint is one point of the residual-vs-fitted diagnostic plot.
type PlotPoint struct {
	Fitted   float64
	Residual float64
}

// ResidualsVsFitted returns the paired (fitted, residual) sequence for
// external rendering. No transformation is applied; a funnel shape in the
// rendered plot is the visual signature of heteroskedasticity.
func ResidualsVsFitted(m *FittedModel) []PlotPoint {
	out := make([]PlotPoint, m.N)
	for i := range out {
		out[i] = PlotPoint{Fitted: m.Fitted[i], Residual: m.Residuals[i]}
	}
	return out
}
