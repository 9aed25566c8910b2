package data

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

//Dataset is the raw trip table as it comes from a source.
type Dataset = dataframe.DataFrame

const (
	ColKey              = "key"
	ColFare             = "fare_amount"
	ColPickupDatetime   = "pickup_datetime"
	ColPickupLongitude  = "pickup_longitude"
	ColPickupLatitude   = "pickup_latitude"
	ColDropoffLongitude = "dropoff_longitude"
	ColDropoffLatitude  = "dropoff_latitude"
	ColPassengerCount   = "passenger_count"
)

//TimestampLayout is how pickup times are written in the trip files.
const TimestampLayout = "2006-01-02 15:04:05 MST"

//ColumnTypes fixes the gota type of every known column so nothing depends on type detection.
var ColumnTypes = map[string]series.Type{
	ColKey:              series.String,
	ColFare:             series.Float,
	ColPickupDatetime:   series.String,
	ColPickupLongitude:  series.Float,
	ColPickupLatitude:   series.Float,
	ColDropoffLongitude: series.Float,
	ColDropoffLatitude:  series.Float,
	ColPassengerCount:   series.Float,
}

//RequiredColumns must be present in every dataset.
var RequiredColumns = []string{
	ColFare,
	ColPickupDatetime,
	ColPickupLongitude,
	ColPickupLatitude,
	ColDropoffLongitude,
	ColDropoffLatitude,
}

//TimeColumns are string columns converted to timestamps by ToFrame.
var TimeColumns = []string{ColPickupDatetime}

//Source produces a raw dataset.
type Source interface {
	GetData() (Dataset, error)
	String() string
}

//GetData loads the dataset from source and checks that the required columns are there.
func GetData(source Source) (Dataset, error) {
	ds, err := source.GetData()
	if err != nil {
		return Dataset{}, errors.Wrapf(err, "get data from %s", source)
	}
	if ds.Err != nil {
		return Dataset{}, errors.Wrapf(ds.Err, "get data from %s", source)
	}
	if missing, _ := lo.Difference(RequiredColumns, ds.Names()); len(missing) > 0 {
		return Dataset{}, errors.Errorf("%s: missing columns %v", source, missing)
	}
	log.Info().Stringer("source", source).Int("rows", ds.Nrow()).Msg("data loaded")
	return ds, nil
}

//head keeps the first n rows, all of them when n is not positive.
func head(ds Dataset, n int) Dataset {
	if n <= 0 || ds.Nrow() <= n {
		return ds
	}
	return ds.Subset(lo.Range(n))
}
