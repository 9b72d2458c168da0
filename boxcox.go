package skedastic

import (
	"fmt"
	"math"
)

// BoxCox is an estimated variance-stabilizing power transform
//
//	y(λ) = (y^λ − 1)/λ   for λ ≠ 0
//	y(0) = log(y)
//
// with λ chosen to maximize the profile log-likelihood over the response
// values. λ = 1 is an affine shift of the original data (no real
// transformation); λ = 0.5 behaves like a square root; λ = 0 like a log.
type BoxCox struct {
	// Lambda is the estimated transform parameter.
	Lambda float64

	// LogLikelihood is the profile log-likelihood at Lambda.
	LogLikelihood float64
}

// Search window for λ. The family is rarely useful outside it, and the
// profile likelihood is smooth and unimodal on data this transform applies
// to.
const (
	boxCoxLambdaMin = -2.0
	boxCoxLambdaMax = 2.0
)

// lambdaLogTolerance is the |λ| below which the transform switches to the
// log branch, avoiding catastrophic cancellation in (y^λ−1)/λ.
const lambdaLogTolerance = 1e-8

// FitBoxCox estimates λ from the response values by maximizing the profile
// log-likelihood
//
//	ℓ(λ) = −n/2·log(σ̂²(λ)) + (λ−1)·Σ log yᵢ
//
// where σ̂²(λ) is the maximum-likelihood variance of the transformed
// values. A coarse grid over [−2,2] brackets the maximum, then a
// golden-section search refines it.
//
// Returns ErrNonPositiveResponse if any value is ≤ 0: the power family is
// undefined there and this package applies no shift parameter.
func FitBoxCox(y []float64) (BoxCox, error) {
	if len(y) < 2 {
		return BoxCox{}, fmt.Errorf("%w: need at least 2 values to estimate λ, got %d",
			ErrInsufficientData, len(y))
	}
	if err := requirePositive(y); err != nil {
		return BoxCox{}, err
	}

	logSum := 0.0
	for _, v := range y {
		logSum += math.Log(v)
	}

	objective := func(lambda float64) float64 {
		return boxCoxLogLikelihood(y, lambda, logSum)
	}

	// Coarse bracket: step 0.05 across the window.
	const step = 0.05
	bestLambda := boxCoxLambdaMin
	bestLL := math.Inf(-1)
	for lambda := boxCoxLambdaMin; lambda <= boxCoxLambdaMax+step/2; lambda += step {
		if ll := objective(lambda); ll > bestLL {
			bestLL = ll
			bestLambda = lambda
		}
	}

	lo := math.Max(boxCoxLambdaMin, bestLambda-step)
	hi := math.Min(boxCoxLambdaMax, bestLambda+step)
	lambda := goldenSectionMax(objective, lo, hi, 1e-7)

	return BoxCox{Lambda: lambda, LogLikelihood: objective(lambda)}, nil
}

// Transform applies the estimated transform to a sequence of strictly
// positive values, returning the new sequence. The input is not modified.
func (b BoxCox) Transform(y []float64) ([]float64, error) {
	if err := requirePositive(y); err != nil {
		return nil, err
	}

	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = boxCoxApply(v, b.Lambda)
	}
	return out, nil
}

// boxCoxApply evaluates the transform for a single positive value.
func boxCoxApply(y, lambda float64) float64 {
	if math.Abs(lambda) < lambdaLogTolerance {
		return math.Log(y)
	}
	return (math.Pow(y, lambda) - 1) / lambda
}

// boxCoxLogLikelihood is the profile log-likelihood of λ given the data
// and the precomputed Σ log yᵢ.
func boxCoxLogLikelihood(y []float64, lambda, logSum float64) float64 {
	n := float64(len(y))

	mean := 0.0
	transformed := make([]float64, len(y))
	for i, v := range y {
		transformed[i] = boxCoxApply(v, lambda)
		mean += transformed[i]
	}
	mean /= n

	variance := 0.0
	for _, z := range transformed {
		variance += (z - mean) * (z - mean)
	}
	variance /= n

	if variance <= 0 {
		// Constant transformed values: infinitely peaked likelihood.
		return math.Inf(1)
	}

	return -n/2*math.Log(variance) + (lambda-1)*logSum
}

// goldenSectionMax maximizes a unimodal scalar function on [lo, hi].
func goldenSectionMax(f func(float64) float64, lo, hi, tol float64) float64 {
	const invPhi = 0.6180339887498949 // (√5−1)/2

	a, b := lo, hi
	x1 := b - invPhi*(b-a)
	x2 := a + invPhi*(b-a)
	f1, f2 := f(x1), f(x2)

	for b-a > tol {
		if f1 < f2 {
			a = x1
			x1, f1 = x2, f2
			x2 = a + invPhi*(b-a)
			f2 = f(x2)
		} else {
			b = x2
			x2, f2 = x1, f1
			x1 = b - invPhi*(b-a)
			f1 = f(x1)
		}
	}

	return (a + b) / 2
}

// requirePositive rejects sequences the Box-Cox family is undefined on.
func requirePositive(y []float64) error {
	for i, v := range y {
		if v <= 0 {
			return fmt.Errorf("%w: value %g at index %d (Box-Cox requires y > 0)",
				ErrNonPositiveResponse, v, i)
		}
	}
	return nil
}
