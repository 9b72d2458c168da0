package skedastic

import (
	"fmt"
	"math/rand/v2"
)

// Dataset is an in-memory table of observations: one or more numeric
// predictor columns and a numeric response column.
//
// Invariants enforced at construction:
//   - every predictor row has the same width (≥ 1)
//   - predictor and response lengths match
//   - no missing values (the representation has no notion of one)
type Dataset struct {
	// Predictors holds one row per observation, one column per predictor.
	Predictors [][]float64

	// Response holds one value per observation.
	Response []float64

	// PredictorNames and ResponseName label output tables.
	// Optional; Fit falls back to x1, x2, ... and y.
	PredictorNames []string
	ResponseName   string
}

// NewDataset validates the table shape and returns a Dataset.
func NewDataset(predictors [][]float64, response []float64) (*Dataset, error) {
	if len(predictors) == 0 {
		return nil, fmt.Errorf("dataset has no observations")
	}
	if len(predictors) != len(response) {
		return nil, fmt.Errorf("predictor rows (%d) and response values (%d) must match",
			len(predictors), len(response))
	}

	width := len(predictors[0])
	if width == 0 {
		return nil, fmt.Errorf("dataset has no predictor columns")
	}
	for i, row := range predictors {
		if len(row) != width {
			return nil, fmt.Errorf("ragged predictor row %d: got %d values, want %d",
				i, len(row), width)
		}
	}

	return &Dataset{Predictors: predictors, Response: response}, nil
}

// NumObservations returns the number of records.
func (d *Dataset) NumObservations() int { return len(d.Response) }

// NumPredictors returns the number of predictor columns.
func (d *Dataset) NumPredictors() int {
	if len(d.Predictors) == 0 {
		return 0
	}
	return len(d.Predictors[0])
}

// WithResponse returns a copy of the dataset with the response column
// replaced, keeping the predictors. Used after a variance-stabilizing
// transform to re-fit the model on the transformed response.
func (d *Dataset) WithResponse(response []float64, name string) (*Dataset, error) {
	if len(response) != len(d.Response) {
		return nil, fmt.Errorf("replacement response has %d values, dataset has %d observations",
			len(response), len(d.Response))
	}

	out := &Dataset{
		Predictors:     d.Predictors,
		Response:       response,
		PredictorNames: d.PredictorNames,
		ResponseName:   name,
	}
	return out, nil
}

// carsData is the classic 50-observation speed (mph) / stopping distance (ft)
// table recorded in the 1920s. Stopping distance grows roughly with the
// square of speed, so its variance fans out with the fitted values, which
// makes it the canonical demonstration dataset for heteroskedasticity.
var carsData = [50][2]float64{
	{4, 2}, {4, 10}, {7, 4}, {7, 22}, {8, 16},
	{9, 10}, {10, 18}, {10, 26}, {10, 34}, {11, 17},
	{11, 28}, {12, 14}, {12, 20}, {12, 24}, {12, 28},
	{13, 26}, {13, 34}, {13, 34}, {13, 46}, {14, 26},
	{14, 36}, {14, 60}, {14, 80}, {15, 20}, {15, 26},
	{15, 54}, {16, 32}, {16, 40}, {17, 32}, {17, 40},
	{17, 50}, {18, 42}, {18, 56}, {18, 76}, {18, 84},
	{19, 36}, {19, 46}, {19, 68}, {20, 32}, {20, 48},
	{20, 52}, {20, 56}, {20, 64}, {22, 66}, {23, 54},
	{24, 70}, {24, 92}, {24, 93}, {24, 120}, {25, 85},
}

// Cars returns the built-in speed/stopping-distance sample dataset.
//
// Fitting dist ~ speed on it yields residuals whose spread grows with the
// fitted values; the diagnostics in this package flag it and a Box-Cox
// transform of the response stabilizes it. See the end-to-end tests and
// examples/carslab.
func Cars() *Dataset {
	predictors := make([][]float64, len(carsData))
	response := make([]float64, len(carsData))
	for i, rec := range carsData {
		predictors[i] = []float64{rec[0]}
		response[i] = rec[1]
	}

	return &Dataset{
		Predictors:     predictors,
		Response:       response,
		PredictorNames: []string{"speed"},
		ResponseName:   "dist",
	}
}

// SyntheticFanOut generates a single-predictor dataset whose error standard
// deviation grows linearly with the predictor:
//
//	x ~ Uniform(0, 10)
//	y = 1 + 2x + ε,  ε ~ N(0, (5+|x|)²)
//
// Deterministic for a given seed. Useful for exercising the diagnostics on
// data with known, strong heteroskedasticity.
func SyntheticFanOut(n int, seed uint64) *Dataset {
	rng := rand.New(rand.NewPCG(seed, seed))

	predictors := make([][]float64, n)
	response := make([]float64, n)
	for i := 0; i < n; i++ {
		x := rng.Float64() * 10
		sigma := 5 + x // |x| = x on (0, 10)
		predictors[i] = []float64{x}
		response[i] = 1 + 2*x + sigma*rng.NormFloat64()
	}

	return &Dataset{
		Predictors:     predictors,
		Response:       response,
		PredictorNames: []string{"x"},
		ResponseName:   "y",
	}
}
