package fml

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

//Rmse is the root of the mean squared difference between prediction and actual values
func Rmse(actual, predicted []float64) (float64, error) {
	if len(actual) == 0 {
		return 0, errors.Wrap(ErrInput, "rmse of an empty set")
	}
	if len(actual) != len(predicted) {
		return 0, errors.Wrapf(ErrInput, "%d actual values, %d predictions", len(actual), len(predicted))
	}
	diff := make([]float64, len(actual))
	floats.SubTo(diff, predicted, actual)
	return math.Sqrt(floats.Dot(diff, diff) / float64(len(diff))), nil
}
