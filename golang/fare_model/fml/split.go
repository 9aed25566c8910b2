package fml

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

//TrainTestSplit shuffles rows with the seed and holds out testSize of them.
//X and y are permuted together, so a row of X keeps its target.
func TrainTestSplit(X *Frame, y []float64, testSize float64, seed int64) (XTrain *Frame, XTest *Frame, yTrain, yTest []float64, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.Wrapf(ErrInput, "test size %v outside (0, 1)", testSize)
	}
	if X == nil || X.Height() != len(y) {
		return nil, nil, nil, nil, errors.Wrap(ErrInput, "frame and target are not aligned")
	}
	n := len(y)
	// the epsilon keeps 100 * 0.2 from rounding up to 21
	numTest := int(math.Ceil(float64(n)*testSize - 1e-9))
	if numTest == 0 || numTest >= n {
		return nil, nil, nil, nil, errors.Wrapf(ErrInput, "cannot hold out %d of %d rows", numTest, n)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)
	testIdx, trainIdx := perm[:numTest], perm[numTest:]

	pick := func(indices []int) []float64 {
		out := make([]float64, len(indices))
		for p, ind := range indices {
			out[p] = y[ind]
		}
		return out
	}
	return X.Subset(trainIdx), X.Subset(testIdx), pick(trainIdx), pick(testIdx), nil
}
