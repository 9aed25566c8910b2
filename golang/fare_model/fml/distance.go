package fml

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const earthRadiusKm = 6371.0

//NaNPolicy chooses what the distance transformer does with a missing coordinate.
type NaNPolicy int

const (
	//NaNFail rejects the whole block with ErrInput.
	NaNFail NaNPolicy = iota
	//NaNPropagate writes NaN into the distance of that row.
	NaNPropagate
)

//Haversine returns the great-circle distance in kilometers between two points given in degrees.
func Haversine(latFrom, lonFrom, latTo, lonTo float64) float64 {
	toRad := math.Pi / 180
	deltaLat := (latTo - latFrom) * toRad
	deltaLon := (lonTo - lonFrom) * toRad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(latFrom*toRad)*math.Cos(latTo*toRad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	// rounding may push a slightly outside [0, 1]
	a = math.Min(math.Max(a, 0), 1)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

//DistanceTransformer turns pickup and dropoff coordinates into one "distance" column.
type DistanceTransformer struct {
	PickupLat, PickupLon   string
	DropoffLat, DropoffLon string
	NaN                    NaNPolicy
}

//NewDistanceTransformer uses the standard trip column names.
func NewDistanceTransformer(policy NaNPolicy) DistanceTransformer {
	return DistanceTransformer{
		PickupLat:  "pickup_latitude",
		PickupLon:  "pickup_longitude",
		DropoffLat: "dropoff_latitude",
		DropoffLon: "dropoff_longitude",
		NaN:        policy,
	}
}

func (d DistanceTransformer) Name() string { return "distance_transformer" }

//Requires lists the four coordinate columns.
func (d DistanceTransformer) Requires() Schema {
	return Schema{
		{Name: d.PickupLat, Kind: Float},
		{Name: d.PickupLon, Kind: Float},
		{Name: d.DropoffLat, Kind: Float},
		{Name: d.DropoffLon, Kind: Float},
	}
}

//Fit is a no-op.
func (d DistanceTransformer) Fit(in Block) (State, error) {
	frame, err := requireFrame(d.Name(), in)
	if err != nil {
		return nil, err
	}
	return nil, frame.Schema().Require(d.Requires()...)
}

//Transform computes the haversine distance for every row.
func (d DistanceTransformer) Transform(in Block, _ State) (Block, error) {
	frame, err := requireFrame(d.Name(), in)
	if err != nil {
		return Block{}, err
	}
	cols := make([][]float64, 4)
	for ind, col := range d.Requires() {
		if cols[ind], err = frame.Floats(col.Name); err != nil {
			return Block{}, err
		}
	}

	h := frame.Height()
	if h == 0 {
		return Block{}, errors.Wrap(ErrInput, "no rows to measure")
	}
	distance := mat.NewDense(h, 1, nil)
	for p := 0; p < h; p++ {
		latFrom, lonFrom, latTo, lonTo := cols[0][p], cols[1][p], cols[2][p], cols[3][p]
		if math.IsNaN(latFrom) || math.IsNaN(lonFrom) || math.IsNaN(latTo) || math.IsNaN(lonTo) {
			if d.NaN == NaNFail {
				return Block{}, errors.Wrapf(ErrInput, "row %d has a missing coordinate", p)
			}
			distance.Set(p, 0, math.NaN())
			continue
		}
		distance.Set(p, 0, Haversine(latFrom, lonFrom, latTo, lonTo))
	}
	return Block{Numeric: distance, Names: []string{"distance"}}, nil
}
