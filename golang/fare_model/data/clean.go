package data

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

//Interval is a closed range [Min, Max].
type Interval struct {
	Min float64 `yaml:"min" validate:"ltefield=Max"`
	Max float64 `yaml:"max"`
}

//CleanRules describe which trips are plausible.
//Fare is kept in (FareMin, FareMax], passengers in [PassengerMin, PassengerMax), coordinates in their closed intervals.
type CleanRules struct {
	DropNA       bool     `yaml:"drop_na"`
	DropZeroes   bool     `yaml:"drop_zero_coordinates"`
	FareMin      float64  `yaml:"fare_min"`
	FareMax      float64  `yaml:"fare_max" validate:"gtfield=FareMin"`
	PassengerMin float64  `yaml:"passenger_min"`
	PassengerMax float64  `yaml:"passenger_max" validate:"gtfield=PassengerMin"`
	PickupLat    Interval `yaml:"pickup_latitude"`
	PickupLon    Interval `yaml:"pickup_longitude"`
	DropoffLat   Interval `yaml:"dropoff_latitude"`
	DropoffLon   Interval `yaml:"dropoff_longitude"`
}

//DefaultCleanRules keep trips around New York City with a sane fare.
func DefaultCleanRules() CleanRules {
	return CleanRules{
		DropNA:       true,
		DropZeroes:   true,
		FareMin:      0,
		FareMax:      4000,
		PassengerMin: 0,
		PassengerMax: 8,
		PickupLat:    Interval{Min: 40, Max: 42},
		PickupLon:    Interval{Min: -74.3, Max: -72.9},
		DropoffLat:   Interval{Min: 40, Max: 42},
		DropoffLon:   Interval{Min: -74, Max: -72.9},
	}
}

func present(el series.Element) bool {
	return !el.IsNA() && el.String() != ""
}

func within(column string, interval Interval) []dataframe.F {
	return []dataframe.F{
		{Colname: column, Comparator: series.GreaterEq, Comparando: interval.Min},
		{Colname: column, Comparator: series.LessEq, Comparando: interval.Max},
	}
}

//CleanData returns the rows of ds that pass the rules. ds itself is left untouched.
func CleanData(ds Dataset, rules CleanRules) (Dataset, error) {
	if ds.Err != nil {
		return Dataset{}, errors.Wrap(ds.Err, "clean")
	}
	before := ds.Nrow()
	out := ds

	if rules.DropNA {
		for _, name := range out.Names() {
			out = out.Filter(dataframe.F{Colname: name, Comparator: series.CompFunc, Comparando: present})
		}
	}
	if rules.DropZeroes {
		out = out.FilterAggregation(dataframe.Or,
			dataframe.F{Colname: ColPickupLatitude, Comparator: series.Neq, Comparando: 0.0},
			dataframe.F{Colname: ColPickupLongitude, Comparator: series.Neq, Comparando: 0.0},
		)
		out = out.FilterAggregation(dataframe.Or,
			dataframe.F{Colname: ColDropoffLatitude, Comparator: series.Neq, Comparando: 0.0},
			dataframe.F{Colname: ColDropoffLongitude, Comparator: series.Neq, Comparando: 0.0},
		)
	}
	out = out.FilterAggregation(dataframe.And,
		dataframe.F{Colname: ColFare, Comparator: series.Greater, Comparando: rules.FareMin},
		dataframe.F{Colname: ColFare, Comparator: series.LessEq, Comparando: rules.FareMax},
	)
	if lo.Contains(out.Names(), ColPassengerCount) {
		out = out.FilterAggregation(dataframe.And,
			dataframe.F{Colname: ColPassengerCount, Comparator: series.GreaterEq, Comparando: rules.PassengerMin},
			dataframe.F{Colname: ColPassengerCount, Comparator: series.Less, Comparando: rules.PassengerMax},
		)
	}
	bounds := lo.Flatten([][]dataframe.F{
		within(ColPickupLatitude, rules.PickupLat),
		within(ColPickupLongitude, rules.PickupLon),
		within(ColDropoffLatitude, rules.DropoffLat),
		within(ColDropoffLongitude, rules.DropoffLon),
	})
	out = out.FilterAggregation(dataframe.And, bounds...)
	if out.Err != nil {
		return Dataset{}, errors.Wrap(out.Err, "clean")
	}

	log.Info().Int("before", before).Int("after", out.Nrow()).Msg("data cleaned")
	return out, nil
}
