package fml

import (
	"time"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

//TimeFeatureNames are the output columns of TimeFeaturesEncoder in order.
var TimeFeatureNames = []string{"hour", "dow", "month", "year"}

//TimeFeaturesEncoder splits a timestamp column into hour, day of week, month and year categories.
//Timestamps are converted to Location first so the result does not depend on the machine locale.
type TimeFeaturesEncoder struct {
	Column   string
	Location *time.Location
}

//NewTimeFeaturesEncoder creates an encoder for the column. A nil location means UTC.
func NewTimeFeaturesEncoder(column string, location *time.Location) TimeFeaturesEncoder {
	if location == nil {
		location = time.UTC
	}
	return TimeFeaturesEncoder{Column: column, Location: location}
}

func (e TimeFeaturesEncoder) Name() string { return "time_features_encoder" }

//Requires lists the timestamp column.
func (e TimeFeaturesEncoder) Requires() Schema {
	return Schema{{Name: e.Column, Kind: Time}}
}

//Fit is a no-op.
func (e TimeFeaturesEncoder) Fit(in Block) (State, error) {
	frame, err := requireFrame(e.Name(), in)
	if err != nil {
		return nil, err
	}
	return nil, frame.Schema().Require(e.Requires()...)
}

//Transform produces a rows x 4 int tensor: hour [0, 23], dow [0, 6] with Sunday = 0, month [1, 12], year.
func (e TimeFeaturesEncoder) Transform(in Block, _ State) (Block, error) {
	frame, err := requireFrame(e.Name(), in)
	if err != nil {
		return Block{}, err
	}
	stamps, err := frame.Times(e.Column)
	if err != nil {
		return Block{}, err
	}
	if len(stamps) == 0 {
		return Block{}, errors.Wrap(ErrInput, "no timestamps to encode")
	}
	location := e.Location
	if location == nil {
		location = time.UTC
	}

	w := len(TimeFeatureNames)
	backing := make([]int, len(stamps)*w)
	for p, stamp := range stamps {
		if stamp.IsZero() {
			return Block{}, errors.Wrapf(ErrInput, "row %d has no %s", p, e.Column)
		}
		local := stamp.In(location)
		backing[p*w+0] = local.Hour()
		backing[p*w+1] = int(local.Weekday())
		backing[p*w+2] = int(local.Month())
		backing[p*w+3] = local.Year()
	}
	categories := tensor.New(tensor.WithShape(len(stamps), w), tensor.WithBacking(backing))
	return Block{Categorical: categories, Names: append([]string(nil), TimeFeatureNames...)}, nil
}
