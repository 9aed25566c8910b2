package fml

import "github.com/pkg/errors"

var (
	//ErrSchemaMismatch is returned when the columns of a frame do not match what a step requires
	//or what the pipeline was fitted on.
	ErrSchemaMismatch = errors.New("schema mismatch")
	//ErrInput marks malformed input values: NaN coordinates, unknown categories, empty or misaligned data.
	ErrInput = errors.New("invalid input")
	//ErrFit is returned when a fit cannot produce finite parameters.
	ErrFit = errors.New("fit failure")
	//ErrNotFitted is returned when a fitted state is required but the pipeline was never fitted.
	ErrNotFitted = errors.New("pipeline is not fitted")
)
