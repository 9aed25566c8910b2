package fml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tripRoutes() []Route {
	distance := NewDistanceTransformer(NaNFail)
	return []Route{
		{
			Name:    "distance",
			Columns: distance.Requires().Names(),
			Transformer: NewChain("distance",
				Step{Name: "dist_trans", Transformer: distance},
				Step{Name: "stdscaler", Transformer: StandardScaler{}},
			),
		},
		{
			Name:    "time",
			Columns: []string{"pickup_datetime"},
			Transformer: NewChain("time",
				Step{Name: "time_enc", Transformer: NewTimeFeaturesEncoder("pickup_datetime", nil)},
				Step{Name: "ohe", Transformer: OneHotEncoder{}},
			),
		},
	}
}

func TestColumnTransformer(t *testing.T) {
	X, _ := makeTrips(t, 60, 3)
	ct, err := NewColumnTransformer(X.Schema(), RemainderDrop, tripRoutes()...)
	require.NoError(t, err)

	state, err := ct.Fit(Block{Frame: X})
	require.NoError(t, err)
	out, err := ct.Transform(Block{Frame: X}, state)
	require.NoError(t, err)

	h, w := out.Numeric.Dims()
	assert.Equal(t, 60, h)
	assert.Equal(t, len(out.Names), w)
	assert.Equal(t, "distance__distance", out.Names[0])
	assert.Equal(t, "time__hour_", out.Names[1][:len("time__hour_")])
	// passenger_count is not routed and gets dropped
	for _, name := range out.Names {
		assert.NotContains(t, name, "passenger_count")
	}

	again, err := ct.Transform(Block{Frame: X}, state)
	require.NoError(t, err)
	assert.Equal(t, out.Names, again.Names)
	assert.Equal(t, out.Numeric.RawMatrix().Data, again.Numeric.RawMatrix().Data)
}

func TestColumnTransformerSchemaMismatch(t *testing.T) {
	X, _ := makeTrips(t, 5, 3)
	narrow, err := X.Select("pickup_latitude", "pickup_longitude", "pickup_datetime")
	require.NoError(t, err)

	_, err = NewColumnTransformer(narrow.Schema(), RemainderDrop, tripRoutes()...)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	routes := tripRoutes()
	routes[1].Columns = []string{"pickup_latitude"}
	_, err = NewColumnTransformer(X.Schema(), RemainderDrop, routes...)
	assert.ErrorIs(t, err, ErrSchemaMismatch, "time route fed with a float column")

	_, err = NewColumnTransformer(X.Schema(), RemainderDrop)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = NewColumnTransformer(X.Schema(), RemainderDrop, tripRoutes()[0], tripRoutes()[0])
	assert.Error(t, err)
}
