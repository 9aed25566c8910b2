package data

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/tarstars/taxi_fare_model/golang/fare_model/fml"
)

//SyntheticSource generates plausible New York trips. The fare is a flag drop plus a per km rate with some noise,
//clipped to [2.50, 100.00]. Pickup times span one year from Start.
type SyntheticSource struct {
	Rows  int
	Seed  int64
	Start time.Time
}

func (s SyntheticSource) String() string {
	return fmt.Sprintf("synthetic:%d rows, seed %d", s.Rows, s.Seed)
}

//Trips generates the trips of the source.
func (s SyntheticSource) Trips() ([]Trip, error) {
	if s.Rows <= 0 {
		return nil, errors.Errorf("synthetic source needs a positive row count, got %d", s.Rows)
	}
	start := s.Start
	if start.IsZero() {
		start = time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	year := start.AddDate(1, 0, 0).Sub(start)

	rng := rand.New(rand.NewSource(s.Seed))
	trips := make([]Trip, s.Rows)
	for ind := range trips {
		pickupLat := 40.63 + 0.22*rng.Float64()
		pickupLon := -74.02 + 0.25*rng.Float64()
		dropoffLat := 40.63 + 0.22*rng.Float64()
		dropoffLon := -74.0 + 0.23*rng.Float64()
		stamp := start.Add(time.Duration(rng.Int63n(int64(year)))).Truncate(time.Second).UTC()

		km := fml.Haversine(pickupLat, pickupLon, dropoffLat, dropoffLon)
		fare := 2.5 + 1.56*km + 0.5*rng.NormFloat64()
		fare = math.Round(math.Min(math.Max(fare, 2.5), 100)*100) / 100

		trips[ind] = Trip{
			Key:              fmt.Sprintf("%s.%07d", stamp.Format("2006-01-02 15:04:05"), ind),
			FareAmount:       fare,
			PickupDatetime:   stamp.Format(TimestampLayout),
			PickupLongitude:  pickupLon,
			PickupLatitude:   pickupLat,
			DropoffLongitude: dropoffLon,
			DropoffLatitude:  dropoffLat,
			PassengerCount:   float64(1 + rng.Intn(6)),
		}
	}
	return trips, nil
}

//GetData returns the generated trips as a dataset.
func (s SyntheticSource) GetData() (Dataset, error) {
	trips, err := s.Trips()
	if err != nil {
		return Dataset{}, err
	}
	return DatasetFromTrips(trips)
}
