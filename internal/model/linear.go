package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Ridge is an L2-regularized least-squares regressor. The penalty keeps the
// normal equations well conditioned when features are collinear, which lag
// and rolling columns of the same series always are. The intercept is not
// penalized.
type Ridge struct {
	Lambda       float64
	Intercept    float64
	Coefficients []float64
}

// NewRidge creates an unfitted Ridge with the given penalty. Non-positive
// penalties fall back to 1.0.
func NewRidge(lambda float64) *Ridge {
	if lambda <= 0 {
		lambda = 1.0
	}
	return &Ridge{Lambda: lambda}
}

// Fit solves (XᵀX + λI)β = Xᵀy with a leading intercept column.
func (r *Ridge) Fit(features [][]float64, targets []float64) error {
	n := len(features)
	if n == 0 {
		return fmt.Errorf("model: no training samples")
	}
	if n != len(targets) {
		return fmt.Errorf("model: %d feature rows for %d targets", n, len(targets))
	}
	p := len(features[0])
	if p == 0 {
		return fmt.Errorf("model: empty feature rows")
	}

	x := mat.NewDense(n, p+1, nil)
	for i, row := range features {
		if len(row) != p {
			return ErrDimension
		}
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
	}
	y := mat.NewVecDense(n, append([]float64(nil), targets...))

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 1; j <= p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+r.Lambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return fmt.Errorf("model: solving normal equations: %w", err)
	}

	r.Intercept = beta.AtVec(0)
	r.Coefficients = make([]float64, p)
	for j := 0; j < p; j++ {
		r.Coefficients[j] = beta.AtVec(j + 1)
	}
	return nil
}

// Predict returns the linear response for one feature vector.
func (r *Ridge) Predict(features []float64) (float64, error) {
	if len(r.Coefficients) == 0 {
		return 0, ErrNotFitted
	}
	if len(features) != len(r.Coefficients) {
		return 0, ErrDimension
	}
	return r.Intercept + floats.Dot(r.Coefficients, features), nil
}
