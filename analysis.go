package skedastic

import (
	"fmt"
	"strings"
)

// Config controls the analysis pipeline.
type Config struct {
	// Alpha is the significance threshold below which a diagnostic
	// p-value is read as evidence of heteroskedasticity.
	Alpha float64

	// Variant selects the robust covariance estimator for the final
	// coefficient table.
	Variant HCVariant
}

// DefaultConfig returns the conventional defaults: α = 0.05 and HC3,
// the small-sample variant usually recommended for n below a few hundred.
func DefaultConfig() Config {
	return Config{
		Alpha:   DefaultAlpha,
		Variant: HC3,
	}
}

// Analysis is the outcome of the full detect-and-correct pipeline.
//
// Model, BreuschPagan and Score always refer to the fit on the original
// response. The Transformed* fields are populated only when the
// diagnostics flagged heteroskedasticity and the response admitted a
// Box-Cox transform; they describe the re-fit on the transformed
// response. RobustTests always refers to the final model (transformed if
// a transform was applied, original otherwise).
type Analysis struct {
	Model        *FittedModel
	BreuschPagan TestResult
	Score        TestResult

	// Heteroskedastic is true when either test rejected at Alpha.
	Heteroskedastic bool

	BoxCox                  *BoxCox
	Transformed             *FittedModel
	TransformedBreuschPagan *TestResult
	TransformedScore        *TestResult

	RobustTests []CoefficientTest
	Variant     HCVariant
	Alpha       float64
}

// FinalModel returns the transformed-response fit when a transform was
// applied, the original fit otherwise.
func (a *Analysis) FinalModel() *FittedModel {
	if a.Transformed != nil {
		return a.Transformed
	}
	return a.Model
}

// Analyze runs the whole pipeline on a dataset:
//
//  1. fit response ~ predictors by OLS
//  2. run the Breusch-Pagan and score diagnostics
//  3. if either rejects at cfg.Alpha and the response is strictly
//     positive, estimate a Box-Cox λ, transform the response, re-fit and
//     re-diagnose
//  4. compute the robust coefficient table for the final model
//
// Pure function of its inputs: identical data and config produce an
// identical Analysis, and nothing is shared between invocations.
func Analyze(d *Dataset, cfg Config) (*Analysis, error) {
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return nil, fmt.Errorf("significance threshold must lie in (0,1), got %g", cfg.Alpha)
	}

	model, err := Fit(d)
	if err != nil {
		return nil, err
	}

	bp, err := BreuschPagan(model)
	if err != nil {
		return nil, err
	}
	score, err := ScoreTest(model)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Model:           model,
		BreuschPagan:    bp,
		Score:           score,
		Heteroskedastic: bp.Significant(cfg.Alpha) || score.Significant(cfg.Alpha),
		Variant:         cfg.Variant,
		Alpha:           cfg.Alpha,
	}

	if a.Heteroskedastic && allPositive(d.Response) {
		bc, err := FitBoxCox(d.Response)
		if err != nil {
			return nil, err
		}

		transformed, err := bc.Transform(d.Response)
		if err != nil {
			return nil, err
		}

		name := d.ResponseName
		if name == "" {
			name = "y"
		}
		td, err := d.WithResponse(transformed, fmt.Sprintf("boxcox(%s)", name))
		if err != nil {
			return nil, err
		}

		tm, err := Fit(td)
		if err != nil {
			return nil, err
		}
		tbp, err := BreuschPagan(tm)
		if err != nil {
			return nil, err
		}
		tscore, err := ScoreTest(tm)
		if err != nil {
			return nil, err
		}

		a.BoxCox = &bc
		a.Transformed = tm
		a.TransformedBreuschPagan = &tbp
		a.TransformedScore = &tscore
	}

	robust, err := RobustTests(a.FinalModel(), cfg.Variant)
	if err != nil {
		return nil, err
	}
	a.RobustTests = robust

	return a, nil
}

// allPositive reports whether the Box-Cox precondition holds.
func allPositive(y []float64) bool {
	for _, v := range y {
		if v <= 0 {
			return false
		}
	}
	return true
}

// FormatCoefficientTable renders a coefficient table as fixed-width text.
func FormatCoefficientTable(tests []CoefficientTest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %-14s %12s %12s %9s %9s\n", "term", "estimate", "std.error", "t", "p")
	for _, ct := range tests {
		fmt.Fprintf(&b, "  %-14s %12.4f %12.4f %9.3f %9.4f\n",
			ct.Term, ct.Estimate, ct.StdError, ct.TStat, ct.PValue)
	}

	return b.String()
}

// Summary renders the full analysis as text: diagnostics before and (when
// a transform was applied) after, plus the robust coefficient table of the
// final model.
func (a *Analysis) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Heteroskedasticity Analysis (α = %.2f) ===\n", a.Alpha)
	fmt.Fprintf(&b, "Original fit: R² = %.4f, σ̂² = %.4f, n = %d\n",
		a.Model.RSquared, a.Model.Sigma2, a.Model.N)
	fmt.Fprintf(&b, "  %s\n", a.BreuschPagan)
	fmt.Fprintf(&b, "  %s\n", a.Score)

	if !a.Heteroskedastic {
		b.WriteString("Verdict: no evidence of heteroskedasticity\n")
	} else {
		b.WriteString("Verdict: heteroskedasticity present\n")
	}

	if a.BoxCox != nil {
		fmt.Fprintf(&b, "Box-Cox: λ = %.4f (profile log-likelihood %.2f)\n",
			a.BoxCox.Lambda, a.BoxCox.LogLikelihood)
		fmt.Fprintf(&b, "Transformed fit: R² = %.4f\n", a.Transformed.RSquared)
		fmt.Fprintf(&b, "  %s\n", *a.TransformedBreuschPagan)
		fmt.Fprintf(&b, "  %s\n", *a.TransformedScore)
	}

	fmt.Fprintf(&b, "Robust coefficient table (%s):\n", a.Variant)
	b.WriteString(FormatCoefficientTable(a.RobustTests))

	return b.String()
}
