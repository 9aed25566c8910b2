package data

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const bucketTrips = "trips"

//Trip is one ride as stored in the trip store.
type Trip struct {
	Key              string  `json:"key" dataframe:"key"`
	FareAmount       float64 `json:"fare_amount" dataframe:"fare_amount"`
	PickupDatetime   string  `json:"pickup_datetime" dataframe:"pickup_datetime"`
	PickupLongitude  float64 `json:"pickup_longitude" dataframe:"pickup_longitude"`
	PickupLatitude   float64 `json:"pickup_latitude" dataframe:"pickup_latitude"`
	DropoffLongitude float64 `json:"dropoff_longitude" dataframe:"dropoff_longitude"`
	DropoffLatitude  float64 `json:"dropoff_latitude" dataframe:"dropoff_latitude"`
	PassengerCount   float64 `json:"passenger_count" dataframe:"passenger_count"`
}

//complete reports whether every field has a value. JSON cannot hold NaN.
func (t Trip) complete() bool {
	for _, v := range []float64{t.FareAmount, t.PickupLongitude, t.PickupLatitude, t.DropoffLongitude, t.DropoffLatitude, t.PassengerCount} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return t.PickupDatetime != ""
}

//TripStore keeps trips in a bbolt file, keyed by trip key.
type TripStore struct {
	db *bolt.DB
}

//OpenTripStore opens or creates the store.
func OpenTripStore(path string) (*TripStore, error) {
	db, err := bolt.Open(path, 0666, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open trip store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketTrips))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create trips bucket")
	}
	return &TripStore{db: db}, nil
}

//Close the store.
func (s *TripStore) Close() error {
	return s.db.Close()
}

//Put stores complete trips and skips the rest. Trips without a key get a sequence number.
func (s *TripStore) Put(trips ...Trip) (stored int, err error) {
	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketTrips))
		for _, trip := range trips {
			if !trip.complete() {
				continue
			}
			if trip.Key == "" {
				seq, err := bucket.NextSequence()
				if err != nil {
					return err
				}
				trip.Key = fmt.Sprintf("seq-%012d", seq)
			}
			buf, err := json.Marshal(trip)
			if err != nil {
				return err
			}
			if err = bucket.Put([]byte(trip.Key), buf); err != nil {
				return err
			}
			stored++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "put trips")
	}
	return stored, nil
}

//Import copies the rows of a dataset into the store.
func (s *TripStore) Import(ds Dataset) (int, error) {
	trips, err := TripsFromDataset(ds)
	if err != nil {
		return 0, err
	}
	stored, err := s.Put(trips...)
	if err != nil {
		return 0, err
	}
	log.Info().Int("rows", len(trips)).Int("stored", stored).Msg("trips imported")
	return stored, nil
}

//Count returns the number of stored trips.
func (s *TripStore) Count() (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(bucketTrips)).Stats().KeyN
		return nil
	})
	return count, err
}

//All returns trips in key order. A positive limit stops after that many.
func (s *TripStore) All(limit int) ([]Trip, error) {
	var trips []Trip
	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket([]byte(bucketTrips)).Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if limit > 0 && len(trips) >= limit {
				break
			}
			var trip Trip
			if err := json.Unmarshal(v, &trip); err != nil {
				return errors.Wrapf(err, "decode trip %s", k)
			}
			trips = append(trips, trip)
		}
		return nil
	})
	return trips, err
}

//TripsFromDataset converts dataset rows into trips. Missing values become NaN so Put skips them.
func TripsFromDataset(ds Dataset) ([]Trip, error) {
	if ds.Err != nil {
		return nil, ds.Err
	}
	rows := ds.Maps()
	trips := make([]Trip, len(rows))
	for ind, row := range rows {
		trips[ind] = Trip{
			Key:              stringField(row, ColKey),
			FareAmount:       floatField(row, ColFare),
			PickupDatetime:   stringField(row, ColPickupDatetime),
			PickupLongitude:  floatField(row, ColPickupLongitude),
			PickupLatitude:   floatField(row, ColPickupLatitude),
			DropoffLongitude: floatField(row, ColDropoffLongitude),
			DropoffLatitude:  floatField(row, ColDropoffLatitude),
			PassengerCount:   passengers(row),
		}
	}
	return trips, nil
}

//DatasetFromTrips builds a dataset with the standard trip columns.
func DatasetFromTrips(trips []Trip) (Dataset, error) {
	if len(trips) == 0 {
		return Dataset{}, errors.New("no trips")
	}
	ds := dataframe.LoadStructs(trips)
	return ds, ds.Err
}

func floatField(row map[string]interface{}, name string) float64 {
	switch v := row[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return math.NaN()
}

//passengers is optional in trip files; a missing column means zero.
func passengers(row map[string]interface{}) float64 {
	if _, ok := row[ColPassengerCount]; !ok {
		return 0
	}
	return floatField(row, ColPassengerCount)
}

func stringField(row map[string]interface{}, name string) string {
	if v, ok := row[name].(string); ok {
		return v
	}
	return ""
}

//BoltSource reads trips from a trip store.
type BoltSource struct {
	Path  string
	NRows int
}

func (s BoltSource) String() string {
	return fmt.Sprintf("bolt:%s", s.Path)
}

//GetData reads NRows trips in key order, all of them when NRows is 0.
func (s BoltSource) GetData() (Dataset, error) {
	store, err := OpenTripStore(s.Path)
	if err != nil {
		return Dataset{}, err
	}
	defer func() { _ = store.Close() }()

	trips, err := store.All(s.NRows)
	if err != nil {
		return Dataset{}, err
	}
	return DatasetFromTrips(trips)
}
