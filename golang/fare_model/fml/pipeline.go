package fml

import (
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

//Step is a named transformer inside a Chain.
type Step struct {
	Name        string
	Transformer Transformer
}

//ChainState holds the state of every step of a Chain.
type ChainState []State

//Chain runs transformers one after another. Fitting a chain fits each step on the output of the previous one.
type Chain struct {
	Label string
	Steps []Step
}

//NewChain creates a chain.
func NewChain(label string, steps ...Step) Chain {
	return Chain{Label: label, Steps: steps}
}

func (c Chain) Name() string { return c.Label }

//Requires returns the raw columns needed by the first step, if it reads any.
func (c Chain) Requires() Schema {
	if len(c.Steps) == 0 {
		return nil
	}
	if reader, ok := c.Steps[0].Transformer.(InputColumns); ok {
		return reader.Requires()
	}
	return nil
}

//Fit fits every step in order.
func (c Chain) Fit(in Block) (State, error) {
	states := make(ChainState, len(c.Steps))
	current := in
	for ind, step := range c.Steps {
		state, err := step.Transformer.Fit(current)
		if err != nil {
			return nil, errors.Wrapf(err, "fit step %s/%s", c.Label, step.Name)
		}
		states[ind] = state
		if ind == len(c.Steps)-1 {
			break
		}
		if current, err = step.Transformer.Transform(current, state); err != nil {
			return nil, errors.Wrapf(err, "transform step %s/%s", c.Label, step.Name)
		}
	}
	return states, nil
}

//Transform runs every step with its fitted state.
func (c Chain) Transform(in Block, state State) (Block, error) {
	states, ok := state.(ChainState)
	if !ok || len(states) != len(c.Steps) {
		return Block{}, errors.Wrap(ErrNotFitted, c.Label)
	}
	current := in
	for ind, step := range c.Steps {
		var err error
		if current, err = step.Transformer.Transform(current, states[ind]); err != nil {
			return Block{}, errors.Wrapf(err, "transform step %s/%s", c.Label, step.Name)
		}
	}
	return current, nil
}

//Regressor is the final estimator of a Pipeline.
type Regressor interface {
	Name() string
	Fit(features *mat.Dense, target []float64) (State, error)
	Predict(features *mat.Dense, state State) ([]float64, error)
}

//Pipeline chains a preprocessor with a regressor and owns their fitted state.
//The fitted state is replaced as a whole by every Fit and never modified in place.
type Pipeline struct {
	Preprocessor Transformer
	Model        Regressor

	schema     Schema
	preState   State
	modelState State
	features   []string
	fitted     bool
}

//NewPipeline creates an unfitted pipeline.
func NewPipeline(preprocessor Transformer, model Regressor) *Pipeline {
	return &Pipeline{Preprocessor: preprocessor, Model: model}
}

//Fitted reports whether Fit completed.
func (p *Pipeline) Fitted() bool {
	return p.fitted
}

//FeatureNames returns the names of the preprocessed columns seen by the regressor.
func (p *Pipeline) FeatureNames() []string {
	return append([]string(nil), p.features...)
}

//ModelState returns the fitted state of the regressor.
func (p *Pipeline) ModelState() State {
	return p.modelState
}

//Fit fits the preprocessor and the regressor from scratch.
func (p *Pipeline) Fit(X *Frame, y []float64) error {
	if err := checkTarget(X, y); err != nil {
		return err
	}
	in := Block{Frame: X}
	preState, err := p.Preprocessor.Fit(in)
	if err != nil {
		return err
	}
	features, err := p.Preprocessor.Transform(in, preState)
	if err != nil {
		return err
	}
	if features.Numeric == nil {
		return errors.Wrapf(ErrSchemaMismatch, "%s must produce a numeric block", p.Preprocessor.Name())
	}
	modelState, err := p.Model.Fit(features.Numeric, y)
	if err != nil {
		return err
	}

	p.schema = X.Schema()
	p.preState, p.modelState = preState, modelState
	p.features = features.Names
	p.fitted = true

	_, w := features.Numeric.Dims()
	log.Debug().Int("rows", X.Height()).Int("features", w).Msg("pipeline fitted")
	return nil
}

//Transform runs only the fitted preprocessor.
func (p *Pipeline) Transform(X *Frame) (*mat.Dense, error) {
	if !p.fitted {
		return nil, ErrNotFitted
	}
	if X == nil || X.Height() == 0 {
		return nil, errors.Wrap(ErrInput, "empty frame")
	}
	if schema := X.Schema(); !p.schema.Equal(schema) {
		return nil, errors.Wrapf(ErrSchemaMismatch, "fitted on %v, got %v", p.schema, schema)
	}
	features, err := p.Preprocessor.Transform(Block{Frame: X}, p.preState)
	if err != nil {
		return nil, err
	}
	return features.Numeric, nil
}

//Predict preprocesses X and predicts with the fitted regressor.
func (p *Pipeline) Predict(X *Frame) ([]float64, error) {
	features, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Model.Predict(features, p.modelState)
}

func checkTarget(X *Frame, y []float64) error {
	if X == nil || X.Height() == 0 {
		return errors.Wrap(ErrInput, "empty frame")
	}
	if X.Height() != len(y) {
		return errors.Wrapf(ErrInput, "frame has %d rows, target has %d", X.Height(), len(y))
	}
	for ind, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInput, "target row %d is not finite", ind)
		}
	}
	return nil
}
