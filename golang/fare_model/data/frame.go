package data

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/tarstars/taxi_fare_model/golang/fare_model/fml"
)

//ParseTimestamp reads a pickup time. Anything without an explicit zone is taken as UTC.
//Zone abbreviations other than UTC and GMT are rejected, their offset is ambiguous.
func ParseTimestamp(value string) (time.Time, error) {
	if stamp, err := time.ParseInLocation(TimestampLayout, value, time.UTC); err == nil {
		if name, offset := stamp.Zone(); offset != 0 || (name != "UTC" && name != "GMT") {
			return time.Time{}, errors.Wrapf(fml.ErrInput, "timestamp %q: unknown zone %s", value, name)
		}
		return stamp.UTC(), nil
	}
	stamp, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(fml.ErrInput, "timestamp %q: %v", value, err)
	}
	return stamp, nil
}

//ToFrame pops the target column and converts the rest into a typed frame.
//Float columns stay floats, TimeColumns become timestamps, other string columns such as key are left out.
func ToFrame(ds Dataset, target string) (*fml.Frame, []float64, error) {
	if ds.Err != nil {
		return nil, nil, ds.Err
	}
	if !lo.Contains(ds.Names(), target) {
		return nil, nil, errors.Wrapf(fml.ErrSchemaMismatch, "no target column %q", target)
	}
	y := ds.Col(target).Float()

	frame := fml.NewFrame(ds.Nrow())
	for _, name := range ds.Names() {
		if name == target {
			continue
		}
		col := ds.Col(name)
		switch {
		case lo.Contains(TimeColumns, name):
			stamps := make([]time.Time, col.Len())
			for p, value := range col.Records() {
				stamp, err := ParseTimestamp(value)
				if err != nil {
					return nil, nil, errors.Wrapf(err, "row %d", p)
				}
				stamps[p] = stamp
			}
			if err := frame.AddTime(name, stamps); err != nil {
				return nil, nil, err
			}
		case col.Type() == series.Float || col.Type() == series.Int:
			if err := frame.AddFloat(name, col.Float()); err != nil {
				return nil, nil, err
			}
		default:
			log.Debug().Str("column", name).Msg("column left out of the frame")
		}
	}
	return frame, y, nil
}

//TripFrame builds the feature frame of trips given column by column, pickup times as unix seconds.
func TripFrame(pickupUnix []int64, pickupLon, pickupLat, dropoffLon, dropoffLat []float64) (*fml.Frame, error) {
	n := len(pickupUnix)
	if n == 0 {
		return nil, errors.Wrap(fml.ErrInput, "no trips")
	}
	stamps := lo.Map(pickupUnix, func(sec int64, _ int) time.Time {
		return time.Unix(sec, 0).UTC()
	})

	frame := fml.NewFrame(n)
	if err := frame.AddTime(ColPickupDatetime, stamps); err != nil {
		return nil, err
	}
	for _, column := range []struct {
		name   string
		values []float64
	}{
		{ColPickupLongitude, pickupLon},
		{ColPickupLatitude, pickupLat},
		{ColDropoffLongitude, dropoffLon},
		{ColDropoffLatitude, dropoffLat},
	} {
		if len(column.values) != n {
			return nil, errors.Wrapf(fml.ErrInput, "%s has %d values for %d trips", column.name, len(column.values), n)
		}
		if err := frame.AddFloat(column.name, append([]float64(nil), column.values...)); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
