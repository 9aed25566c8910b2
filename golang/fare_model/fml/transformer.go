package fml

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//State is whatever a transformer learns during Fit. Stateless transformers return nil.
//A State is never modified after Fit returned it.
type State interface{}

//Block is the data passed between pipeline steps. Exactly one of Frame, Numeric and Categorical is set.
type Block struct {
	Frame       *Frame        // raw routed columns
	Numeric     *mat.Dense    // rows x features, float
	Categorical *tensor.Dense // rows x features, int categories
	Names       []string      // output column names of Numeric or Categorical
}

//Height returns the number of rows in the block.
func (b Block) Height() int {
	switch {
	case b.Frame != nil:
		return b.Frame.Height()
	case b.Numeric != nil:
		h, _ := b.Numeric.Dims()
		return h
	case b.Categorical != nil:
		return b.Categorical.Shape()[0]
	}
	return 0
}

//Transformer is one fit/transform step. Fit must not modify the transformer itself,
//so one transformer value can be fitted many times and every fit starts from scratch.
type Transformer interface {
	Name() string
	Fit(in Block) (State, error)
	Transform(in Block, state State) (Block, error)
}

//InputColumns is implemented by transformers that read raw frame columns.
type InputColumns interface {
	Requires() Schema
}

func requireFrame(step string, in Block) (*Frame, error) {
	if in.Frame == nil {
		return nil, errors.Wrapf(ErrSchemaMismatch, "%s expects raw frame columns", step)
	}
	return in.Frame, nil
}

func requireNumeric(step string, in Block) (*mat.Dense, error) {
	if in.Numeric == nil {
		return nil, errors.Wrapf(ErrSchemaMismatch, "%s expects a numeric block", step)
	}
	return in.Numeric, nil
}

func requireCategorical(step string, in Block) (*tensor.Dense, error) {
	if in.Categorical == nil {
		return nil, errors.Wrapf(ErrSchemaMismatch, "%s expects a categorical block", step)
	}
	if len(in.Categorical.Shape()) != 2 {
		return nil, errors.Wrapf(ErrSchemaMismatch, "%s expects a 2-d categorical block, got shape %v", step, in.Categorical.Shape())
	}
	return in.Categorical, nil
}
