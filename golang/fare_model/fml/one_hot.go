package fml

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//UnknownPolicy chooses what the one-hot encoder does with a category it did not see during Fit.
type UnknownPolicy int

const (
	//UnknownIgnore encodes the unseen value as an all-zero group.
	UnknownIgnore UnknownPolicy = iota
	//UnknownError rejects the block with ErrInput.
	UnknownError
)

//OneHotState keeps the sorted category vocabulary of every input column.
type OneHotState struct {
	Categories [][]int
	Names      []string
}

//OneHotEncoder expands each categorical column into one indicator column per category.
type OneHotEncoder struct {
	Unknown UnknownPolicy
}

func (OneHotEncoder) Name() string { return "one_hot_encoder" }

//Fit collects the categories of every column, sorted ascending.
func (o OneHotEncoder) Fit(in Block) (State, error) {
	categorical, err := requireCategorical(o.Name(), in)
	if err != nil {
		return nil, err
	}
	h, w := categorical.Shape()[0], categorical.Shape()[1]
	state := OneHotState{Categories: make([][]int, w)}
	for q := 0; q < w; q++ {
		column := make([]int, h)
		for p := 0; p < h; p++ {
			if column[p], err = categoryAt(categorical, p, q); err != nil {
				return nil, err
			}
		}
		vocabulary := lo.Uniq(column)
		sort.Ints(vocabulary)
		state.Categories[q] = vocabulary
		for _, value := range vocabulary {
			state.Names = append(state.Names, fmt.Sprintf("%s_%d", columnName(in.Names, q), value))
		}
	}
	return state, nil
}

//Transform writes the indicator columns, group after group in input column order.
func (o OneHotEncoder) Transform(in Block, state State) (Block, error) {
	categorical, err := requireCategorical(o.Name(), in)
	if err != nil {
		return Block{}, err
	}
	fitted, ok := state.(OneHotState)
	if !ok {
		return Block{}, errors.Wrap(ErrNotFitted, o.Name())
	}
	h, w := categorical.Shape()[0], categorical.Shape()[1]
	if w != len(fitted.Categories) {
		return Block{}, errors.Wrapf(ErrSchemaMismatch, "%s fitted on %d columns, got %d", o.Name(), len(fitted.Categories), w)
	}

	offsets := make([]int, w)
	width := 0
	for q, vocabulary := range fitted.Categories {
		offsets[q] = width
		width += len(vocabulary)
	}

	encoded := mat.NewDense(h, width, nil)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			value, err := categoryAt(categorical, p, q)
			if err != nil {
				return Block{}, err
			}
			pos := sort.SearchInts(fitted.Categories[q], value)
			if pos == len(fitted.Categories[q]) || fitted.Categories[q][pos] != value {
				if o.Unknown == UnknownError {
					return Block{}, errors.Wrapf(ErrInput, "row %d: unknown %s category %d", p, columnName(in.Names, q), value)
				}
				continue
			}
			encoded.Set(p, offsets[q]+pos, 1)
		}
	}
	return Block{Numeric: encoded, Names: append([]string(nil), fitted.Names...)}, nil
}

func categoryAt(categorical *tensor.Dense, p, q int) (int, error) {
	element, err := categorical.At(p, q)
	if err != nil {
		return 0, errors.Wrapf(ErrInput, "category at (%d, %d): %v", p, q, err)
	}
	value, ok := element.(int)
	if !ok {
		return 0, errors.Wrapf(ErrInput, "category at (%d, %d) is %T, want int", p, q, element)
	}
	return value, nil
}

func columnName(names []string, q int) string {
	if q < len(names) {
		return names[q]
	}
	return fmt.Sprintf("x%d", q)
}
