package fml

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//ScalerState holds per column mean and population standard deviation.
type ScalerState struct {
	Mean []float64
	Std  []float64
}

//StandardScaler centers every numeric column and divides it by its standard deviation.
//A constant column gets std 1 so it maps to zeros.
type StandardScaler struct{}

func (StandardScaler) Name() string { return "standard_scaler" }

//Fit learns mean and std of every column.
func (s StandardScaler) Fit(in Block) (State, error) {
	numeric, err := requireNumeric(s.Name(), in)
	if err != nil {
		return nil, err
	}
	h, w := numeric.Dims()
	state := ScalerState{Mean: make([]float64, w), Std: make([]float64, w)}
	column := make([]float64, h)
	for q := 0; q < w; q++ {
		mat.Col(column, q, numeric)
		mean, variance := stat.MeanVariance(column, nil)
		if h > 1 {
			// population variance, not the unbiased estimate
			variance *= float64(h-1) / float64(h)
		} else {
			variance = 0
		}
		if math.IsNaN(mean) || math.IsInf(mean, 0) {
			return nil, errors.Wrapf(ErrFit, "column %d has a non finite mean", q)
		}
		std := math.Sqrt(variance)
		if std == 0 {
			std = 1
		}
		state.Mean[q], state.Std[q] = mean, std
	}
	return state, nil
}

//Transform applies the fitted statistics.
func (s StandardScaler) Transform(in Block, state State) (Block, error) {
	numeric, err := requireNumeric(s.Name(), in)
	if err != nil {
		return Block{}, err
	}
	fitted, ok := state.(ScalerState)
	if !ok {
		return Block{}, errors.Wrap(ErrNotFitted, s.Name())
	}
	h, w := numeric.Dims()
	if w != len(fitted.Mean) {
		return Block{}, errors.Wrapf(ErrSchemaMismatch, "%s fitted on %d columns, got %d", s.Name(), len(fitted.Mean), w)
	}
	scaled := mat.NewDense(h, w, nil)
	scaled.Apply(func(_, q int, v float64) float64 {
		return (v - fitted.Mean[q]) / fitted.Std[q]
	}, numeric)
	return Block{Numeric: scaled, Names: in.Names}, nil
}
