package fml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSplit(t *testing.T) {
	X := NewFrame(10)
	ids := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	require.NoError(t, X.AddFloat("id", ids))
	y := []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, 0.2, 1)
	require.NoError(t, err)
	assert.Len(t, yTrain, 8)
	assert.Len(t, yTest, 2)

	seen := map[float64]bool{}
	for _, part := range []struct {
		frame  *Frame
		target []float64
	}{{XTrain, yTrain}, {XTest, yTest}} {
		col, err := part.frame.Floats("id")
		require.NoError(t, err)
		for p, id := range col {
			assert.Equal(t, id*10, part.target[p], "row and target stay aligned")
			seen[id] = true
		}
	}
	assert.Len(t, seen, 10)

	_, again, _, _, err := TrainTestSplit(X, y, 0.2, 1)
	require.NoError(t, err)
	assert.Equal(t, XTest.floats["id"], again.floats["id"])
}

func TestTrainTestSplitErrors(t *testing.T) {
	X := NewFrame(2)
	require.NoError(t, X.AddFloat("id", []float64{1, 2}))
	_, _, _, _, err := TrainTestSplit(X, []float64{1, 2}, 0, 1)
	assert.ErrorIs(t, err, ErrInput)
	_, _, _, _, err = TrainTestSplit(X, []float64{1}, 0.5, 1)
	assert.ErrorIs(t, err, ErrInput)
	_, _, _, _, err = TrainTestSplit(NewFrame(1), []float64{1}, 0.5, 1)
	assert.ErrorIs(t, err, ErrInput)
}
