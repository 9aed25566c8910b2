package fml

import (
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//LinearState is a fitted linear model: prediction = Intercept + Weights . x
type LinearState struct {
	Intercept float64
	Weights   []float64
}

//LinearRegression is ordinary least squares with an intercept.
//The system is solved on centered data through the normal equations. RegLambda is added to the
//diagonal so that collinear one-hot groups still give a unique minimal solution.
type LinearRegression struct {
	RegLambda float64
}

//NewLinearRegression creates a regression with a tiny diagonal jitter.
func NewLinearRegression() LinearRegression {
	return LinearRegression{RegLambda: 1e-6}
}

func (LinearRegression) Name() string { return "linear_regression" }

//Fit solves (Xc^T Xc + lambda I) w = Xc^T yc, intercept = mean(y) - mean(X) . w
func (l LinearRegression) Fit(features *mat.Dense, target []float64) (State, error) {
	h, w := features.Dims()
	if h != len(target) {
		return nil, errors.Wrapf(ErrInput, "features have %d rows, target has %d", h, len(target))
	}
	if h == 0 {
		return nil, errors.Wrap(ErrInput, "nothing to fit")
	}
	if !allFinite(features.RawMatrix().Data) {
		return nil, errors.Wrap(ErrFit, "features contain NaN or Inf")
	}

	means := make([]float64, w)
	column := make([]float64, h)
	for q := 0; q < w; q++ {
		mat.Col(column, q, features)
		means[q] = floats.Sum(column) / float64(h)
	}
	targetMean := floats.Sum(target) / float64(h)

	centered := mat.NewDense(h, w, nil)
	centered.Apply(func(_, q int, v float64) float64 { return v - means[q] }, features)
	centeredTarget := append([]float64(nil), target...)
	floats.AddConst(-targetMean, centeredTarget)

	var lhs mat.Dense
	lhs.Mul(centered.T(), centered)
	for q := 0; q < w; q++ {
		lhs.Set(q, q, lhs.At(q, q)+l.RegLambda)
	}
	var rhs mat.Dense
	rhs.Mul(centered.T(), mat.NewDense(h, 1, centeredTarget))

	var solution mat.Dense
	if err := solution.Solve(&lhs, &rhs); err != nil {
		var condition mat.Condition
		if !errors.As(err, &condition) {
			return nil, errors.Wrapf(ErrFit, "solve normal equations: %v", err)
		}
		log.Warn().Float64("condition", float64(condition)).Msg("normal equations are ill conditioned")
	}

	state := LinearState{Weights: make([]float64, w)}
	mat.Col(state.Weights, 0, &solution)
	state.Intercept = targetMean - floats.Dot(means, state.Weights)
	if !allFinite(state.Weights) || math.IsNaN(state.Intercept) || math.IsInf(state.Intercept, 0) {
		return nil, errors.Wrap(ErrFit, "non finite coefficients")
	}
	return state, nil
}

//Predict applies the fitted coefficients to every row.
func (l LinearRegression) Predict(features *mat.Dense, state State) ([]float64, error) {
	fitted, ok := state.(LinearState)
	if !ok {
		return nil, errors.Wrap(ErrNotFitted, l.Name())
	}
	h, w := features.Dims()
	if w != len(fitted.Weights) {
		return nil, errors.Wrapf(ErrSchemaMismatch, "model fitted on %d features, got %d", len(fitted.Weights), w)
	}
	var product mat.VecDense
	product.MulVec(features, mat.NewVecDense(w, fitted.Weights))
	prediction := make([]float64, h)
	for p := 0; p < h; p++ {
		prediction[p] = fitted.Intercept + product.AtVec(p)
	}
	return prediction, nil
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
