// Package model provides the regression capability the pipeline trains and
// the inference adapter serves. The pipeline depends only on the Regressor
// contract; the concrete algorithm is interchangeable.
package model

import "errors"

// Regressor is the train/predict contract. A fitted regressor must be safe
// for concurrent Predict calls; it is treated as read-only after load.
type Regressor interface {
	Fit(features [][]float64, targets []float64) error
	Predict(features []float64) (float64, error)
}

var (
	// ErrNotFitted is returned by Predict before a successful Fit or Load.
	ErrNotFitted = errors.New("model: regressor has not been fitted")
	// ErrDimension is returned when a feature vector's arity does not match
	// the fitted model.
	ErrDimension = errors.New("model: feature dimension mismatch")
)
