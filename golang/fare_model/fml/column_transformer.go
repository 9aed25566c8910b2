package fml

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

//RemainderPolicy says what happens to input columns no route asked for.
type RemainderPolicy int

const (
	//RemainderDrop leaves unrouted columns out of the output.
	RemainderDrop RemainderPolicy = iota
)

//Route sends a named set of columns through a transformer.
type Route struct {
	Name        string
	Columns     []string
	Transformer Transformer
}

//ColumnState holds the fitted state of every route.
type ColumnState []State

//ColumnTransformer applies a different transformer to different column subsets and
//concatenates their numeric outputs in route order.
type ColumnTransformer struct {
	Routes    []Route
	Remainder RemainderPolicy
	input     Schema
}

//NewColumnTransformer checks every route against the input schema and fails fast on a mismatch.
func NewColumnTransformer(input Schema, remainder RemainderPolicy, routes ...Route) (*ColumnTransformer, error) {
	if remainder != RemainderDrop {
		return nil, errors.Errorf("unsupported remainder policy %d", remainder)
	}
	if len(routes) == 0 {
		return nil, errors.Wrap(ErrSchemaMismatch, "column transformer without routes")
	}
	names := lo.Map(routes, func(r Route, _ int) string { return r.Name })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return nil, errors.Errorf("duplicate route names %v", dup)
	}
	for _, route := range routes {
		if missing, _ := lo.Difference(route.Columns, input.Names()); len(missing) > 0 {
			return nil, errors.Wrapf(ErrSchemaMismatch, "route %s: columns %v not in input %v", route.Name, missing, input)
		}
		reader, ok := route.Transformer.(InputColumns)
		if !ok {
			continue
		}
		routed := lo.Filter(input, func(c Column, _ int) bool { return lo.Contains(route.Columns, c.Name) })
		if err := Schema(routed).Require(reader.Requires()...); err != nil {
			return nil, errors.Wrapf(err, "route %s", route.Name)
		}
	}
	return &ColumnTransformer{Routes: routes, Remainder: remainder, input: input}, nil
}

func (ct *ColumnTransformer) Name() string { return "column_transformer" }

//Requires returns the schema the transformer was built for.
func (ct *ColumnTransformer) Requires() Schema {
	return append(Schema(nil), ct.input...)
}

//Fit fits every route on its own columns.
func (ct *ColumnTransformer) Fit(in Block) (State, error) {
	frame, err := requireFrame(ct.Name(), in)
	if err != nil {
		return nil, err
	}
	if err := frame.Schema().Require(ct.input...); err != nil {
		return nil, err
	}
	states := make(ColumnState, len(ct.Routes))
	for ind, route := range ct.Routes {
		routed, err := frame.Select(route.Columns...)
		if err != nil {
			return nil, err
		}
		if states[ind], err = route.Transformer.Fit(Block{Frame: routed}); err != nil {
			return nil, errors.Wrapf(err, "route %s", route.Name)
		}
	}
	return states, nil
}

//Transform concatenates the route outputs. Output names are "<route>__<column>".
func (ct *ColumnTransformer) Transform(in Block, state State) (Block, error) {
	frame, err := requireFrame(ct.Name(), in)
	if err != nil {
		return Block{}, err
	}
	states, ok := state.(ColumnState)
	if !ok || len(states) != len(ct.Routes) {
		return Block{}, errors.Wrap(ErrNotFitted, ct.Name())
	}

	parts := make([]*mat.Dense, 0, len(ct.Routes))
	var names []string
	width := 0
	for ind, route := range ct.Routes {
		routed, err := frame.Select(route.Columns...)
		if err != nil {
			return Block{}, err
		}
		out, err := route.Transformer.Transform(Block{Frame: routed}, states[ind])
		if err != nil {
			return Block{}, errors.Wrapf(err, "route %s", route.Name)
		}
		if out.Numeric == nil {
			return Block{}, errors.Wrapf(ErrSchemaMismatch, "route %s must end with a numeric block", route.Name)
		}
		_, w := out.Numeric.Dims()
		width += w
		parts = append(parts, out.Numeric)
		for q := 0; q < w; q++ {
			names = append(names, route.Name+"__"+columnName(out.Names, q))
		}
	}

	h := frame.Height()
	stacked := mat.NewDense(h, width, nil)
	offset := 0
	for _, part := range parts {
		_, w := part.Dims()
		stacked.Slice(0, h, offset, offset+w).(*mat.Dense).Copy(part)
		offset += w
	}
	return Block{Numeric: stacked, Names: names}, nil
}
