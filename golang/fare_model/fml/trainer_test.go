package fml

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

type recordingObserver struct {
	fits  int
	rmses []float64
}

func (r *recordingObserver) ObserveFit(time.Duration) { r.fits++ }
func (r *recordingObserver) ObserveRmse(v float64)    { r.rmses = append(r.rmses, v) }

func TestTrainerSynthetic(t *testing.T) {
	X, y := makeTrips(t, 100, 42)
	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 80, XTrain.Height())
	assert.Equal(t, 20, XTest.Height())

	observer := &recordingObserver{}
	opts := DefaultTrainerOptions()
	opts.Observer = observer
	trainer := NewTrainer(XTrain, yTrain, opts)
	require.NoError(t, trainer.Run())

	rmse, err := trainer.Evaluate(XTest, yTest)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(rmse) || math.IsInf(rmse, 0))
	assert.Less(t, rmse, stat.StdDev(y, nil))
	assert.Equal(t, 1, observer.fits)
	assert.Equal(t, []float64{rmse}, observer.rmses)
}

func TestTrainerOnTrainingData(t *testing.T) {
	X, y := makeTrips(t, 40, 5)
	trainer := NewTrainer(X, y, DefaultTrainerOptions())
	require.NoError(t, trainer.Run())
	rmse, err := trainer.Evaluate(X, y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rmse, 0.0)
	assert.False(t, math.IsNaN(rmse))
}

func TestTrainerSetPipelineIdempotent(t *testing.T) {
	X, y := makeTrips(t, 60, 9)

	once := NewTrainer(X, y, DefaultTrainerOptions())
	require.NoError(t, once.Run())

	twice := NewTrainer(X, y, DefaultTrainerOptions())
	require.NoError(t, twice.SetPipeline())
	require.NoError(t, twice.SetPipeline())
	assert.False(t, twice.Pipeline().Fitted())
	require.NoError(t, twice.Run())

	a, err := once.Coefficients()
	require.NoError(t, err)
	b, err := twice.Coefficients()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, once.Pipeline().FeatureNames(), twice.Pipeline().FeatureNames())
}

func TestTrainerNotFitted(t *testing.T) {
	X, y := makeTrips(t, 10, 1)
	trainer := NewTrainer(X, y, DefaultTrainerOptions())

	_, err := trainer.Evaluate(X, y)
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = trainer.Coefficients()
	assert.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, trainer.SetPipeline())
	_, err = trainer.Evaluate(X, y)
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = trainer.Predict(X)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestTrainerEvaluateInput(t *testing.T) {
	X, y := makeTrips(t, 30, 2)
	trainer := NewTrainer(X, y, DefaultTrainerOptions())
	require.NoError(t, trainer.Run())

	_, err := trainer.Evaluate(X, y[:10])
	assert.ErrorIs(t, err, ErrInput)
	_, err = trainer.Evaluate(X.Subset(nil), nil)
	assert.ErrorIs(t, err, ErrInput)
}

func TestTrainerSchemaMismatchAtPredict(t *testing.T) {
	X, y := makeTrips(t, 30, 2)
	trainer := NewTrainer(X, y, DefaultTrainerOptions())
	require.NoError(t, trainer.Run())

	reordered, err := X.Select("pickup_longitude", "pickup_latitude", "dropoff_longitude", "dropoff_latitude", "pickup_datetime", "passenger_count")
	require.NoError(t, err)
	_, err = trainer.Predict(reordered)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	narrow, err := X.Select("pickup_datetime", "pickup_longitude", "pickup_latitude", "dropoff_longitude", "dropoff_latitude")
	require.NoError(t, err)
	_, err = trainer.Predict(narrow)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestTrainerUnseenCategory(t *testing.T) {
	X, y := makeTrips(t, 30, 4)
	trainer := NewTrainer(X, y, DefaultTrainerOptions())
	require.NoError(t, trainer.Run())

	// no training trip is later than 2015
	future := X.Subset([]int{0})
	stamps, err := future.Times("pickup_datetime")
	require.NoError(t, err)
	stamps[0] = stamps[0].AddDate(5, 0, 0)

	prediction, err := trainer.Predict(future)
	require.NoError(t, err)
	require.Len(t, prediction, 1)
	assert.False(t, math.IsNaN(prediction[0]))
}

func TestTrainerMissingColumn(t *testing.T) {
	X, y := makeTrips(t, 10, 1)
	narrow, err := X.Select("pickup_datetime", "pickup_latitude")
	require.NoError(t, err)
	trainer := NewTrainer(narrow, y, DefaultTrainerOptions())
	assert.ErrorIs(t, trainer.Run(), ErrSchemaMismatch)
}

func TestDefaultTrainerOptions(t *testing.T) {
	opts := DefaultTrainerOptions()
	assert.Equal(t, DefaultTimezone, opts.Location.String())
	assert.Equal(t, "pickup_datetime", opts.TimeColumn)
	assert.Equal(t, 1e-6, opts.RegLambda)
}

func TestNewTrainerOptions(t *testing.T) {
	opts, err := NewTrainerOptions("", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, opts.Location.String())
	assert.Equal(t, 1e-6, opts.RegLambda)

	opts, err = NewTrainerOptions("Europe/London", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", opts.Location.String())
	assert.Equal(t, 0.5, opts.RegLambda)

	_, err = NewTrainerOptions("Mars/Olympus", 0)
	assert.ErrorIs(t, err, ErrInput)
}
