package fml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	location, err := time.LoadLocation(DefaultTimezone)
	require.NoError(t, err)
	return location
}

func TestTimeFeaturesEncoderLocation(t *testing.T) {
	X := NewFrame(2)
	require.NoError(t, X.AddTime("pickup_datetime", []time.Time{
		time.Date(2013, 7, 6, 17, 18, 0, 0, time.UTC),
		time.Date(2015, 1, 1, 3, 0, 0, 0, time.UTC),
	}))

	out, err := NewTimeFeaturesEncoder("pickup_datetime", newYork(t)).Transform(Block{Frame: X}, nil)
	require.NoError(t, err)
	assert.Equal(t, TimeFeatureNames, out.Names)
	assert.Equal(t, []int{2, 4}, []int(out.Categorical.Shape()))

	// 13:18 EDT on a Saturday
	assert.Equal(t, []int{13, 6, 7, 2013}, out.Categorical.Data().([]int)[:4])
	// 22:00 EST on Wednesday the last day of 2014
	assert.Equal(t, []int{22, 3, 12, 2014}, out.Categorical.Data().([]int)[4:])

	utc, err := NewTimeFeaturesEncoder("pickup_datetime", nil).Transform(Block{Frame: X}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{17, 6, 7, 2013}, utc.Categorical.Data().([]int)[:4])
}

func TestTimeFeaturesEncoderRanges(t *testing.T) {
	X, _ := makeTrips(t, 200, 7)
	out, err := NewTimeFeaturesEncoder("pickup_datetime", newYork(t)).Transform(Block{Frame: X}, nil)
	require.NoError(t, err)

	data := out.Categorical.Data().([]int)
	for p := 0; p < X.Height(); p++ {
		hour, dow, month := data[p*4], data[p*4+1], data[p*4+2]
		assert.True(t, hour >= 0 && hour <= 23, "hour %d", hour)
		assert.True(t, dow >= 0 && dow <= 6, "dow %d", dow)
		assert.True(t, month >= 1 && month <= 12, "month %d", month)
	}
}

func TestTimeFeaturesEncoderErrors(t *testing.T) {
	X := NewFrame(1)
	require.NoError(t, X.AddTime("pickup_datetime", []time.Time{{}}))
	_, err := NewTimeFeaturesEncoder("pickup_datetime", nil).Transform(Block{Frame: X}, nil)
	assert.ErrorIs(t, err, ErrInput)

	_, err = NewTimeFeaturesEncoder("dropoff_datetime", nil).Fit(Block{Frame: X})
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	floats := NewFrame(1)
	require.NoError(t, floats.AddFloat("pickup_datetime", []float64{1}))
	_, err = NewTimeFeaturesEncoder("pickup_datetime", nil).Fit(Block{Frame: floats})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
