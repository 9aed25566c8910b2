package fml

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNpyRoundtrip(t *testing.T) {
	fileName := path.Join(t.TempDir(), "features.npy")
	features := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, DumpNpy(fileName, features))

	restored, err := ReadNpy(fileName)
	require.NoError(t, err)
	assert.True(t, mat.Equal(features, restored))

	vectorName := path.Join(t.TempDir(), "prediction.npy")
	require.NoError(t, DumpVector(vectorName, []float64{7, 8}))
	vector, err := ReadNpy(vectorName)
	require.NoError(t, err)
	r, c := vector.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 1, c)

	_, err = ReadNpy(path.Join(t.TempDir(), "missing.npy"))
	assert.Error(t, err)
}
