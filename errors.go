package skedastic

import "errors"

// Error kinds reported by the fitting and transform stages.
//
// All of them are terminal: the computation cannot proceed without a
// well-posed linear-algebra input, so no retry or partial result is
// attempted. Callers match with errors.Is.
var (
	// ErrSingularDesign indicates a rank-deficient design matrix
	// (collinear or underdetermined predictors). XᵀX is not invertible.
	ErrSingularDesign = errors.New("singular design matrix")

	// ErrInsufficientData indicates fewer observations than coefficients.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNonPositiveResponse indicates a response value ≤ 0 where the
	// Box-Cox family requires strict positivity. No shift parameter is
	// applied.
	ErrNonPositiveResponse = errors.New("non-positive response")
)
