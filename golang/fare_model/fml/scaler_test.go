package fml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestStandardScaler(t *testing.T) {
	in := Block{Numeric: mat.NewDense(4, 2, []float64{
		1, 7,
		2, 7,
		3, 7,
		4, 7,
	}), Names: []string{"a", "b"}}

	state, err := StandardScaler{}.Fit(in)
	require.NoError(t, err)
	fitted := state.(ScalerState)
	assert.Equal(t, []float64{2.5, 7}, fitted.Mean)
	assert.InDelta(t, 1.118034, fitted.Std[0], 1e-6)
	assert.Equal(t, 1.0, fitted.Std[1])

	out, err := StandardScaler{}.Transform(in, state)
	require.NoError(t, err)
	assert.Equal(t, in.Names, out.Names)
	scaled := mat.Col(nil, 0, out.Numeric)
	mean, variance := stat.PopMeanVariance(scaled, nil)
	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, variance, 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, mat.Col(nil, 1, out.Numeric))
}

func TestStandardScalerWidthMismatch(t *testing.T) {
	state, err := StandardScaler{}.Fit(Block{Numeric: mat.NewDense(2, 1, []float64{1, 2})})
	require.NoError(t, err)
	_, err = StandardScaler{}.Transform(Block{Numeric: mat.NewDense(2, 2, nil)}, state)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
