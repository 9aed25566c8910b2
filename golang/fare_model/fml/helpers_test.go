package fml

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var tripColumns = []string{"pickup_longitude", "pickup_latitude", "dropoff_longitude", "dropoff_latitude"}

//makeTrips builds n Manhattan-ish trips over one year whose fare grows linearly with the distance, clipped to [2.5, 100].
func makeTrips(t *testing.T, n int, seed int64) (*Frame, []float64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	cols := make(map[string][]float64, len(tripColumns))
	for _, name := range tripColumns {
		cols[name] = make([]float64, n)
	}
	stamps := make([]time.Time, n)
	fares := make([]float64, n)
	for p := 0; p < n; p++ {
		cols["pickup_latitude"][p] = 40.60 + 0.25*rng.Float64()
		cols["pickup_longitude"][p] = -74.02 + 0.27*rng.Float64()
		cols["dropoff_latitude"][p] = 40.60 + 0.25*rng.Float64()
		cols["dropoff_longitude"][p] = -74.02 + 0.27*rng.Float64()
		stamps[p] = start.Add(time.Duration(rng.Int63n(int64(start.AddDate(1, 0, 0).Sub(start)))))
		km := Haversine(cols["pickup_latitude"][p], cols["pickup_longitude"][p], cols["dropoff_latitude"][p], cols["dropoff_longitude"][p])
		fares[p] = math.Min(math.Max(2.5+2*km+0.3*rng.NormFloat64(), 2.5), 100)
	}

	frame := NewFrame(n)
	require.NoError(t, frame.AddTime("pickup_datetime", stamps))
	for _, name := range tripColumns {
		require.NoError(t, frame.AddFloat(name, cols[name]))
	}
	require.NoError(t, frame.AddFloat("passenger_count", make([]float64, n)))
	return frame, fares
}
