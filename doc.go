// Package skedastic detects and corrects heteroskedasticity in linear
// regression.
//
// # Overview
//
// Ordinary least squares assumes the error variance is constant across the
// range of fitted values. When it is not (heteroskedasticity), the
// coefficient estimates stay unbiased but their classical standard errors
// (and every t-test built on them) become unreliable. skedastic walks
// the standard detect-and-correct sequence as a single-pass batch
// computation over an in-memory dataset:
//
//  1. Fit: ordinary least squares of response on predictors (fit.go)
//  2. Diagnose: Breusch-Pagan and score (non-constant-variance) tests,
//     residual-vs-fitted plot data (diagnostics.go)
//  3. Correct the data: Box-Cox variance-stabilizing transform of the
//     response, then re-fit and re-diagnose (boxcox.go)
//  4. Correct the inference: heteroskedasticity-consistent (HC0–HC4)
//     covariance and robust t-tests, applicable to any fitted model
//     without altering it (robust.go)
//
// # Quick Start
//
// Run the whole pipeline on the built-in cars dataset:
//
//	analysis, err := skedastic.Analyze(skedastic.Cars(), skedastic.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(analysis.Summary())
//
// Or drive the stages directly:
//
//	model, err := skedastic.Fit(dataset)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bp, _ := skedastic.BreuschPagan(model)
//	if bp.Significant(0.05) {
//	    bc, _ := skedastic.FitBoxCox(dataset.Response)
//	    stabilized, _ := bc.Transform(dataset.Response)
//	    // re-fit on the stabilized response ...
//	}
//
//	tests, _ := skedastic.RobustTests(model, skedastic.HC3)
//
// # Decision Threshold
//
// p < 0.05 is the conventional reading of the diagnostics, but it is a
// convention, not a law: Config.Alpha makes it explicit and every verdict
// in the package takes the threshold as a parameter.
//
// # Errors
//
// The linear-algebra preconditions surface as sentinel errors
// (ErrSingularDesign, ErrInsufficientData, ErrNonPositiveResponse) matched
// with errors.Is. None are recoverable internally: the computation simply
// cannot proceed without a well-posed input.
//
// # Testing Support
//
// assertions.go exports test helpers for the statistical invariants
// (residuals centered, leverage bounds, homoskedasticity verdicts,
// symmetric PSD covariance) so downstream code can verify its own models
// the way this package verifies itself.
package skedastic
