package fml

import (
	"time"

	"github.com/pkg/errors"
)

//Frame is a columnar table of trips. Columns keep their insertion order, every column has the same height.
type Frame struct {
	schema Schema
	floats map[string][]float64
	times  map[string][]time.Time
	height int
}

//NewFrame creates an empty frame with the given number of rows.
func NewFrame(height int) *Frame {
	return &Frame{
		floats: make(map[string][]float64),
		times:  make(map[string][]time.Time),
		height: height,
	}
}

//AddFloat appends a float column.
func (f *Frame) AddFloat(name string, values []float64) error {
	if err := f.checkNew(name, len(values)); err != nil {
		return err
	}
	f.schema = append(f.schema, Column{Name: name, Kind: Float})
	f.floats[name] = values
	return nil
}

//AddTime appends a time column.
func (f *Frame) AddTime(name string, values []time.Time) error {
	if err := f.checkNew(name, len(values)); err != nil {
		return err
	}
	f.schema = append(f.schema, Column{Name: name, Kind: Time})
	f.times[name] = values
	return nil
}

func (f *Frame) checkNew(name string, n int) error {
	if _, ok := f.schema.Lookup(name); ok {
		return errors.Wrapf(ErrSchemaMismatch, "duplicate column %q", name)
	}
	if n != f.height {
		return errors.Wrapf(ErrInput, "column %q has %d rows, frame has %d", name, n, f.height)
	}
	return nil
}

//Schema returns a copy of the frame schema.
func (f *Frame) Schema() Schema {
	return append(Schema(nil), f.schema...)
}

//Height returns the number of rows.
func (f *Frame) Height() int {
	return f.height
}

//Floats returns a float column.
func (f *Frame) Floats(name string) ([]float64, error) {
	values, ok := f.floats[name]
	if !ok {
		return nil, errors.Wrapf(ErrSchemaMismatch, "no float column %q", name)
	}
	return values, nil
}

//Times returns a time column.
func (f *Frame) Times(name string) ([]time.Time, error) {
	values, ok := f.times[name]
	if !ok {
		return nil, errors.Wrapf(ErrSchemaMismatch, "no time column %q", name)
	}
	return values, nil
}

//Select returns a frame holding only the given columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := NewFrame(f.height)
	for _, name := range names {
		col, ok := f.schema.Lookup(name)
		if !ok {
			return nil, errors.Wrapf(ErrSchemaMismatch, "no column %q", name)
		}
		switch col.Kind {
		case Float:
			_ = out.AddFloat(name, f.floats[name])
		case Time:
			_ = out.AddTime(name, f.times[name])
		}
	}
	return out, nil
}

//Subset returns the rows with the given indices. All columns are permuted together so rows stay aligned.
func (f *Frame) Subset(indices []int) *Frame {
	out := NewFrame(len(indices))
	for _, col := range f.schema {
		switch col.Kind {
		case Float:
			src := f.floats[col.Name]
			dst := make([]float64, len(indices))
			for p, ind := range indices {
				dst[p] = src[ind]
			}
			_ = out.AddFloat(col.Name, dst)
		case Time:
			src := f.times[col.Name]
			dst := make([]time.Time, len(indices))
			for p, ind := range indices {
				dst[p] = src[ind]
			}
			_ = out.AddTime(col.Name, dst)
		}
	}
	return out
}
