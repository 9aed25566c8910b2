package fml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	X := NewFrame(3)
	require.NoError(t, X.AddFloat("fare", []float64{1, 2, 3}))
	require.NoError(t, X.AddTime("pickup", []time.Time{time.Unix(0, 0), time.Unix(60, 0), time.Unix(120, 0)}))
	assert.ErrorIs(t, X.AddFloat("fare", []float64{1, 2, 3}), ErrSchemaMismatch)
	assert.ErrorIs(t, X.AddFloat("short", []float64{1}), ErrInput)

	assert.Equal(t, Schema{{Name: "fare", Kind: Float}, {Name: "pickup", Kind: Time}}, X.Schema())
	assert.Equal(t, "[fare:float, pickup:time]", X.Schema().String())

	sub := X.Subset([]int{2, 0})
	fares, err := sub.Floats("fare")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, fares)
	stamps, err := sub.Times("pickup")
	require.NoError(t, err)
	assert.Equal(t, int64(120), stamps[0].Unix())

	_, err = X.Select("missing")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	_, err = X.Floats("pickup")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestSchemaRequire(t *testing.T) {
	schema := Schema{{Name: "a", Kind: Float}, {Name: "t", Kind: Time}}
	assert.NoError(t, schema.Require(Column{Name: "t", Kind: Time}))
	assert.ErrorIs(t, schema.Require(Column{Name: "a", Kind: Time}), ErrSchemaMismatch)
	assert.ErrorIs(t, schema.Require(Column{Name: "b", Kind: Float}), ErrSchemaMismatch)
	assert.True(t, schema.Equal(Schema{{Name: "a", Kind: Float}, {Name: "t", Kind: Time}}))
	assert.False(t, schema.Equal(Schema{{Name: "t", Kind: Time}, {Name: "a", Kind: Float}}))
}
